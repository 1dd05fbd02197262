package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
	"github.com/SemperAdmin/DutySync-sub000/internal/repository"
)

// Map-backed repository mocks. A nil-db aggregate runs transactions by
// calling fn directly, so services exercise their real logic against these.

// ── units ──

type mockUnitRepo struct {
	units     map[string]model.Unit
	createErr error // injected storage failure
}

func newMockUnitRepo() *mockUnitRepo {
	return &mockUnitRepo{units: make(map[string]model.Unit)}
}

func (m *mockUnitRepo) Create(_ context.Context, unit *model.Unit) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.units[unit.UnitID] = *unit
	return nil
}

func (m *mockUnitRepo) GetByID(_ context.Context, id string) (*model.Unit, error) {
	u, ok := m.units[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (m *mockUnitRepo) GetByCode(_ context.Context, code string) (*model.Unit, error) {
	for _, u := range m.units {
		if u.UnitCode == code {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUnitRepo) List(_ context.Context) ([]model.Unit, error) {
	out := make([]model.Unit, 0, len(m.units))
	for _, u := range m.units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitCode < out[j].UnitCode })
	return out, nil
}

func (m *mockUnitRepo) Update(_ context.Context, unit *model.Unit) error {
	m.units[unit.UnitID] = *unit
	return nil
}

func (m *mockUnitRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.units, id)
	return nil
}

func (m *mockUnitRepo) CountChildren(_ context.Context, unitID string) (int64, error) {
	var n int64
	for _, u := range m.units {
		if u.ParentID != nil && *u.ParentID == unitID {
			n++
		}
	}
	return n, nil
}

func (m *mockUnitRepo) CountMembers(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

// ── personnel ──

type mockPersonnelRepo struct {
	people map[string]model.Personnel
}

func newMockPersonnelRepo() *mockPersonnelRepo {
	return &mockPersonnelRepo{people: make(map[string]model.Personnel)}
}

func (m *mockPersonnelRepo) Create(_ context.Context, p *model.Personnel) error {
	m.people[p.PersonnelID] = *p
	return nil
}

func (m *mockPersonnelRepo) GetByID(_ context.Context, id string) (*model.Personnel, error) {
	p, ok := m.people[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (m *mockPersonnelRepo) GetByServiceNumber(_ context.Context, sn string) (*model.Personnel, error) {
	for _, p := range m.people {
		if p.ServiceNumber == sn {
			p := p
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonnelRepo) List(_ context.Context) ([]model.Personnel, error) {
	out := make([]model.Personnel, 0, len(m.people))
	for _, p := range m.people {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServiceNumber < out[j].ServiceNumber })
	return out, nil
}

func (m *mockPersonnelRepo) ListByUnit(_ context.Context, unitID string) ([]model.Personnel, error) {
	var out []model.Personnel
	for _, p := range m.people {
		if p.UnitID == unitID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPersonnelRepo) Update(_ context.Context, p *model.Personnel) error {
	m.people[p.PersonnelID] = *p
	return nil
}

func (m *mockPersonnelRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.people, id)
	return nil
}

func (m *mockPersonnelRepo) AddScore(_ context.Context, personnelID string, delta float64) error {
	p, ok := m.people[personnelID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CurrentDutyScore += delta
	m.people[personnelID] = p
	return nil
}

// ── duty types ──

type mockDutyTypeRepo struct {
	types  map[string]model.DutyType
	values map[string]model.DutyValue // by duty type id
}

func newMockDutyTypeRepo() *mockDutyTypeRepo {
	return &mockDutyTypeRepo{
		types:  make(map[string]model.DutyType),
		values: make(map[string]model.DutyValue),
	}
}

func (m *mockDutyTypeRepo) Create(_ context.Context, dt *model.DutyType) error {
	stored := *dt
	stored.Value = nil
	m.types[dt.DutyTypeID] = stored
	return nil
}

func (m *mockDutyTypeRepo) GetByID(_ context.Context, id string) (*model.DutyType, error) {
	dt, ok := m.types[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := m.values[id]; ok {
		v := v
		dt.Value = &v
	}
	return &dt, nil
}

func (m *mockDutyTypeRepo) GetByUnitAndName(_ context.Context, unitID, name string) (*model.DutyType, error) {
	for _, dt := range m.types {
		if dt.UnitID == unitID && dt.Name == name {
			dt := dt
			return &dt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDutyTypeRepo) List(_ context.Context) ([]model.DutyType, error) {
	out := make([]model.DutyType, 0, len(m.types))
	for id, dt := range m.types {
		if !dt.IsActive {
			continue
		}
		if v, ok := m.values[id]; ok {
			v := v
			dt.Value = &v
		}
		out = append(out, dt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockDutyTypeRepo) ListByUnit(_ context.Context, unitID string) ([]model.DutyType, error) {
	var out []model.DutyType
	for id, dt := range m.types {
		if dt.UnitID != unitID || !dt.IsActive {
			continue
		}
		if v, ok := m.values[id]; ok {
			v := v
			dt.Value = &v
		}
		out = append(out, dt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockDutyTypeRepo) Update(_ context.Context, dt *model.DutyType) error {
	stored := *dt
	stored.Value = nil
	m.types[dt.DutyTypeID] = stored
	return nil
}

func (m *mockDutyTypeRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.types, id)
	delete(m.values, id)
	return nil
}

func (m *mockDutyTypeRepo) GetValue(_ context.Context, dutyTypeID string) (*model.DutyValue, error) {
	v, ok := m.values[dutyTypeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (m *mockDutyTypeRepo) SaveValue(_ context.Context, value *model.DutyValue) error {
	m.values[value.DutyTypeID] = *value
	return nil
}

// ── duty slots ──

type mockDutySlotRepo struct {
	slots map[string]model.DutySlot
	types *mockDutyTypeRepo // for unit scoping
}

func newMockDutySlotRepo(types *mockDutyTypeRepo) *mockDutySlotRepo {
	return &mockDutySlotRepo{slots: make(map[string]model.DutySlot), types: types}
}

func (m *mockDutySlotRepo) Create(_ context.Context, slot *model.DutySlot) error {
	m.slots[slot.DutySlotID] = *slot
	return nil
}

func (m *mockDutySlotRepo) GetByID(_ context.Context, id string) (*model.DutySlot, error) {
	slot, ok := m.slots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &slot, nil
}

func (m *mockDutySlotRepo) GetByIDDetailed(ctx context.Context, id string) (*model.DutySlot, error) {
	return m.GetByID(ctx, id)
}

func inMonth(d time.Time, year, month int) bool {
	return d.Year() == year && int(d.Month()) == month
}

func (m *mockDutySlotRepo) ListByMonth(_ context.Context, year, month int) ([]model.DutySlot, error) {
	var out []model.DutySlot
	for _, slot := range m.slots {
		if inMonth(slot.DutyDate, year, month) {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DutyDate.Before(out[j].DutyDate) })
	return out, nil
}

func (m *mockDutySlotRepo) ListByUnitMonth(_ context.Context, unitID string, year, month int) ([]model.DutySlot, error) {
	var out []model.DutySlot
	for _, slot := range m.slots {
		dt, ok := m.types.types[slot.DutyTypeID]
		if !ok || dt.UnitID != unitID {
			continue
		}
		if inMonth(slot.DutyDate, year, month) {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DutyDate.Before(out[j].DutyDate) })
	return out, nil
}

func (m *mockDutySlotRepo) ListByPersonnel(_ context.Context, personnelID string, from, to time.Time) ([]model.DutySlot, error) {
	var out []model.DutySlot
	for _, slot := range m.slots {
		if slot.PersonnelID == nil || *slot.PersonnelID != personnelID {
			continue
		}
		if slot.DutyDate.Before(from) || !slot.DutyDate.Before(to) {
			continue
		}
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DutyDate.Before(out[j].DutyDate) })
	return out, nil
}

func (m *mockDutySlotRepo) Update(_ context.Context, slot *model.DutySlot) error {
	if _, ok := m.slots[slot.DutySlotID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.slots[slot.DutySlotID] = *slot
	return nil
}

func (m *mockDutySlotRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.slots, id)
	return nil
}

func (m *mockDutySlotRepo) RevertStatusForUnitMonth(ctx context.Context, unitID string, year, month int, from, to string) (int64, error) {
	slots, _ := m.ListByUnitMonth(ctx, unitID, year, month)
	var n int64
	for _, slot := range slots {
		if slot.Status != from {
			continue
		}
		slot.Status = to
		m.slots[slot.DutySlotID] = slot
		n++
	}
	return n, nil
}

// ── swaps ──

type mockSwapRepo struct {
	requests     map[string]model.DutyChangeRequest
	reqOrder     []string
	approvals    map[string]model.SwapApproval
	recs         []model.SwapRecommendation
	updateReqErr error // injected request-update failure
}

func newMockSwapRepo() *mockSwapRepo {
	return &mockSwapRepo{
		requests:  make(map[string]model.DutyChangeRequest),
		approvals: make(map[string]model.SwapApproval),
	}
}

func (m *mockSwapRepo) CreateRequests(_ context.Context, rows []*model.DutyChangeRequest) error {
	for _, row := range rows {
		stored := *row
		stored.Approvals = nil
		stored.Personnel = nil
		m.requests[row.RequestID] = stored
		m.reqOrder = append(m.reqOrder, row.RequestID)
	}
	return nil
}

func (m *mockSwapRepo) CreateApprovals(_ context.Context, steps []*model.SwapApproval) error {
	for _, step := range steps {
		m.approvals[step.ApprovalID] = *step
	}
	return nil
}

func (m *mockSwapRepo) stepsFor(requestID string) []model.SwapApproval {
	var out []model.SwapApproval
	for _, step := range m.approvals {
		if step.RequestID == requestID {
			out = append(out, step)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApprovalOrder < out[j].ApprovalOrder })
	return out
}

func (m *mockSwapRepo) GetRequest(_ context.Context, requestID string) (*model.DutyChangeRequest, error) {
	row, ok := m.requests[requestID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	row.Approvals = m.stepsFor(requestID)
	return &row, nil
}

func (m *mockSwapRepo) GetPair(_ context.Context, swapPairID string) ([]model.DutyChangeRequest, error) {
	var out []model.DutyChangeRequest
	for _, id := range m.reqOrder {
		row, ok := m.requests[id]
		if !ok || row.SwapPairID != swapPairID {
			continue
		}
		row.Approvals = m.stepsFor(id)
		out = append(out, row)
	}
	return out, nil
}

func (m *mockSwapRepo) ListPending(_ context.Context) ([]model.DutyChangeRequest, error) {
	var out []model.DutyChangeRequest
	for _, id := range m.reqOrder {
		row := m.requests[id]
		if row.Status != model.SwapStatusPending {
			continue
		}
		row.Approvals = m.stepsFor(id)
		out = append(out, row)
	}
	return out, nil
}

func (m *mockSwapRepo) ListByPersonnel(_ context.Context, personnelID string) ([]model.DutyChangeRequest, error) {
	var out []model.DutyChangeRequest
	for _, id := range m.reqOrder {
		row := m.requests[id]
		if row.PersonnelID == personnelID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockSwapRepo) UpdateRequest(_ context.Context, row *model.DutyChangeRequest) error {
	if m.updateReqErr != nil {
		return m.updateReqErr
	}
	if _, ok := m.requests[row.RequestID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *row
	stored.Approvals = nil
	stored.Personnel = nil
	m.requests[row.RequestID] = stored
	return nil
}

func (m *mockSwapRepo) GetApproval(_ context.Context, approvalID string) (*model.SwapApproval, error) {
	step, ok := m.approvals[approvalID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &step, nil
}

func (m *mockSwapRepo) UpdateApproval(_ context.Context, step *model.SwapApproval) error {
	if _, ok := m.approvals[step.ApprovalID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.approvals[step.ApprovalID] = *step
	return nil
}

func (m *mockSwapRepo) FindActivePairBySlot(_ context.Context, slotID string) (*model.DutyChangeRequest, error) {
	for _, id := range m.reqOrder {
		row := m.requests[id]
		if row.Status != model.SwapStatusPending {
			continue
		}
		if row.GivingSlotID == slotID || row.ReceivingSlotID == slotID {
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSwapRepo) DeletePair(_ context.Context, swapPairID string) error {
	var keep []string
	for _, id := range m.reqOrder {
		row := m.requests[id]
		if row.SwapPairID != swapPairID {
			keep = append(keep, id)
			continue
		}
		for _, step := range m.stepsFor(id) {
			delete(m.approvals, step.ApprovalID)
		}
		delete(m.requests, id)
	}
	m.reqOrder = keep

	var recs []model.SwapRecommendation
	for _, rec := range m.recs {
		if rec.SwapPairID != swapPairID {
			recs = append(recs, rec)
		}
	}
	m.recs = recs
	return nil
}

func (m *mockSwapRepo) CreateRecommendation(_ context.Context, rec *model.SwapRecommendation) error {
	m.recs = append(m.recs, *rec)
	return nil
}

func (m *mockSwapRepo) ListRecommendations(_ context.Context, swapPairID string) ([]model.SwapRecommendation, error) {
	var out []model.SwapRecommendation
	for _, rec := range m.recs {
		if rec.SwapPairID == swapPairID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ── approved rosters ──

type mockRosterRepo struct {
	rosters   map[string]model.ApprovedRoster // key unit|year|month
	createErr error                           // injected lock-insert failure
}

func newMockRosterRepo() *mockRosterRepo {
	return &mockRosterRepo{rosters: make(map[string]model.ApprovedRoster)}
}

func rosterKey(unitID string, year, month int) string {
	return unitID + "|" + time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func (m *mockRosterRepo) Get(_ context.Context, unitID string, year, month int) (*model.ApprovedRoster, error) {
	r, ok := m.rosters[rosterKey(unitID, year, month)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (m *mockRosterRepo) Create(_ context.Context, roster *model.ApprovedRoster) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.rosters[rosterKey(roster.UnitID, roster.Year, roster.Month)] = *roster
	return nil
}

func (m *mockRosterRepo) Delete(_ context.Context, unitID string, year, month int) error {
	delete(m.rosters, rosterKey(unitID, year, month))
	return nil
}

func (m *mockRosterRepo) ListByUnit(_ context.Context, unitID string) ([]model.ApprovedRoster, error) {
	var out []model.ApprovedRoster
	for _, r := range m.rosters {
		if r.UnitID == unitID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ── score events ──

type mockScoreEventRepo struct {
	events []model.DutyScoreEvent
}

func newMockScoreEventRepo() *mockScoreEventRepo { return &mockScoreEventRepo{} }

func (m *mockScoreEventRepo) BatchCreate(_ context.Context, events []*model.DutyScoreEvent) error {
	for _, e := range events {
		m.events = append(m.events, *e)
	}
	return nil
}

func (m *mockScoreEventRepo) ListByPersonnel(_ context.Context, personnelID string) ([]model.DutyScoreEvent, error) {
	var out []model.DutyScoreEvent
	for _, e := range m.events {
		if e.PersonnelID == personnelID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockScoreEventRepo) ListByRoster(_ context.Context, unitID string, year, month int) ([]model.DutyScoreEvent, error) {
	var out []model.DutyScoreEvent
	for _, e := range m.events {
		if e.UnitID == unitID && e.RosterYear == year && e.RosterMonth == month {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockScoreEventRepo) SumByPersonnel(_ context.Context, personnelID string) (float64, error) {
	var total float64
	for _, e := range m.events {
		if e.PersonnelID == personnelID {
			total += e.Points
		}
	}
	return total, nil
}

// ── holidays ──

type mockHolidayRepo struct {
	holidays map[string]model.Holiday
}

func newMockHolidayRepo() *mockHolidayRepo {
	return &mockHolidayRepo{holidays: make(map[string]model.Holiday)}
}

func (m *mockHolidayRepo) Create(_ context.Context, h *model.Holiday) error {
	m.holidays[h.HolidayID] = *h
	return nil
}

func (m *mockHolidayRepo) List(_ context.Context) ([]model.Holiday, error) {
	out := make([]model.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HolidayDate.Before(out[j].HolidayDate) })
	return out, nil
}

func (m *mockHolidayRepo) ListByRange(_ context.Context, from, to time.Time) ([]model.Holiday, error) {
	var out []model.Holiday
	for _, h := range m.holidays {
		if !h.HolidayDate.Before(from) && h.HolidayDate.Before(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *mockHolidayRepo) Delete(_ context.Context, id string) error {
	delete(m.holidays, id)
	return nil
}

// ── aggregate ──

type mockRepos struct {
	unit      *mockUnitRepo
	personnel *mockPersonnelRepo
	dutyType  *mockDutyTypeRepo
	dutySlot  *mockDutySlotRepo
	swap      *mockSwapRepo
	roster    *mockRosterRepo
	score     *mockScoreEventRepo
	holiday   *mockHolidayRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	mocks := &mockRepos{
		unit:      newMockUnitRepo(),
		personnel: newMockPersonnelRepo(),
		dutyType:  newMockDutyTypeRepo(),
		swap:      newMockSwapRepo(),
		roster:    newMockRosterRepo(),
		score:     newMockScoreEventRepo(),
		holiday:   newMockHolidayRepo(),
	}
	mocks.dutySlot = newMockDutySlotRepo(mocks.dutyType)

	repo := &repository.Repository{
		Unit:       mocks.unit,
		Personnel:  mocks.personnel,
		DutyType:   mocks.dutyType,
		DutySlot:   mocks.dutySlot,
		Swap:       mocks.swap,
		Roster:     mocks.roster,
		ScoreEvent: mocks.score,
		Holiday:    mocks.holiday,
	}
	return repo, mocks
}
