package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/dto"
	"github.com/SemperAdmin/DutySync-sub000/internal/model"
	"github.com/SemperAdmin/DutySync-sub000/internal/repository"
	"github.com/SemperAdmin/DutySync-sub000/internal/store"
	"github.com/SemperAdmin/DutySync-sub000/internal/syncrelay"
)

// ── duty business errors ──

var (
	ErrDutyTypeNotFound   = errors.New("duty type not found")
	ErrDutyTypeNameExists = errors.New("duty type name already exists in that unit")
	ErrDutyTypeUnitGone   = errors.New("owning unit not found")
	ErrSlotNotFound       = errors.New("duty slot not found")
	ErrSlotPersonMissing  = errors.New("assigned personnel not found")
	ErrInvalidDutyDate    = errors.New("duty date must be YYYY-MM-DD")
	ErrMonthLocked        = errors.New("roster for that month is approved and locked")
	ErrHolidayNotFound    = errors.New("holiday not found")
)

// DutyService manages duty types, their scoring values, duty slots and the
// holiday calendar. Slot mutations inside an approved month are refused.
type DutyService interface {
	CreateDutyType(ctx context.Context, req *dto.CreateDutyTypeRequest) (*dto.DutyTypeResponse, error)
	ListDutyTypes(ctx context.Context) ([]dto.DutyTypeResponse, error)
	ListDutyTypesByUnit(ctx context.Context, unitID string) ([]dto.DutyTypeResponse, error)
	UpdateDutyValue(ctx context.Context, dutyTypeID string, baseWeight, weekendMult, holidayMult float64) (*dto.DutyTypeResponse, error)
	DeleteDutyType(ctx context.Context, id, deletedBy string) error

	CreateSlot(ctx context.Context, req *dto.CreateDutySlotRequest) (*dto.DutySlotResponse, error)
	GetSlot(ctx context.Context, id string) (*dto.DutySlotResponse, error)
	ListSlotsByUnitMonth(ctx context.Context, unitID string, year, month int) ([]dto.DutySlotResponse, error)
	ListSlotsByPersonnel(ctx context.Context, personnelID string, from, to time.Time) ([]dto.DutySlotResponse, error)
	UpdateSlot(ctx context.Context, id string, req *dto.UpdateDutySlotRequest) (*dto.DutySlotResponse, error)
	DeleteSlot(ctx context.Context, id, deletedBy string) error

	CreateHoliday(ctx context.Context, req *dto.CreateHolidayRequest) (*model.Holiday, error)
	ListHolidays(ctx context.Context) ([]model.Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
}

type dutyService struct {
	repo   *repository.Repository
	store  *store.Store
	relay  syncrelay.Queue
	logger *zap.Logger
}

// NewDutyService creates a DutyService instance.
func NewDutyService(repo *repository.Repository, st *store.Store, relay syncrelay.Queue, logger *zap.Logger) DutyService {
	return &dutyService{repo: repo, store: st, relay: relay, logger: logger}
}

// ────────────────────── duty types ──────────────────────

func (s *dutyService) CreateDutyType(ctx context.Context, req *dto.CreateDutyTypeRequest) (*dto.DutyTypeResponse, error) {
	if _, err := s.repo.Unit.GetByID(ctx, req.UnitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDutyTypeUnitGone
		}
		return nil, err
	}
	if _, err := s.repo.DutyType.GetByUnitAndName(ctx, req.UnitID, req.Name); err == nil {
		return nil, ErrDutyTypeNameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	dt := &model.DutyType{
		DutyTypeID: uuid.New().String(),
		UnitID:     req.UnitID,
		Name:       req.Name,
		IsActive:   true,
	}
	value := &model.DutyValue{
		DutyValueID:       uuid.New().String(),
		DutyTypeID:        dt.DutyTypeID,
		BaseWeight:        model.DefaultBaseWeight,
		WeekendMultiplier: model.DefaultWeekendMultiplier,
		HolidayMultiplier: model.DefaultHolidayMultiplier,
	}
	if req.BaseWeight != nil {
		value.BaseWeight = *req.BaseWeight
	}
	if req.WeekendMultiplier != nil {
		value.WeekendMultiplier = *req.WeekendMultiplier
	}
	if req.HolidayMultiplier != nil {
		value.HolidayMultiplier = *req.HolidayMultiplier
	}

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.DutyType.Create(ctx, dt); err != nil {
			return err
		}
		return txRepo.DutyType.SaveValue(ctx, value)
	})
	if err != nil {
		dt.Value = value
		s.store.PutDutyType(ctx, *dt)
		return nil, err
	}

	s.store.Invalidate(ctx, store.KeyDutyTypes)
	dt.Value = value
	return toDutyTypeResponse(dt), nil
}

func (s *dutyService) ListDutyTypes(ctx context.Context) ([]dto.DutyTypeResponse, error) {
	list, err := s.store.DutyTypes(ctx)
	if err != nil {
		return nil, err
	}
	return toDutyTypeResponses(list), nil
}

func (s *dutyService) ListDutyTypesByUnit(ctx context.Context, unitID string) ([]dto.DutyTypeResponse, error) {
	list, err := s.repo.DutyType.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	return toDutyTypeResponses(list), nil
}

func (s *dutyService) UpdateDutyValue(ctx context.Context, dutyTypeID string, baseWeight, weekendMult, holidayMult float64) (*dto.DutyTypeResponse, error) {
	dt, err := s.repo.DutyType.GetByID(ctx, dutyTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDutyTypeNotFound
		}
		return nil, err
	}

	value, err := s.repo.DutyType.GetValue(ctx, dutyTypeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		value = &model.DutyValue{
			DutyValueID: uuid.New().String(),
			DutyTypeID:  dutyTypeID,
		}
	} else if err != nil {
		return nil, err
	}

	// Changed values affect future approvals only; past score events keep
	// the points they were written with.
	value.BaseWeight = baseWeight
	value.WeekendMultiplier = weekendMult
	value.HolidayMultiplier = holidayMult
	if err := s.repo.DutyType.SaveValue(ctx, value); err != nil {
		dt.Value = value
		s.store.PutDutyType(ctx, *dt)
		return nil, err
	}

	s.store.Invalidate(ctx, store.KeyDutyTypes)
	dt.Value = value
	return toDutyTypeResponse(dt), nil
}

func (s *dutyService) DeleteDutyType(ctx context.Context, id, deletedBy string) error {
	if _, err := s.repo.DutyType.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDutyTypeNotFound
		}
		return err
	}
	if err := s.repo.DutyType.Delete(ctx, id, deletedBy); err != nil {
		s.store.DropDutyType(ctx, id)
		return err
	}
	s.store.Invalidate(ctx, store.KeyDutyTypes)
	return nil
}

func toDutyTypeResponse(dt *model.DutyType) *dto.DutyTypeResponse {
	resp := &dto.DutyTypeResponse{
		DutyTypeID:        dt.DutyTypeID,
		UnitID:            dt.UnitID,
		Name:              dt.Name,
		IsActive:          dt.IsActive,
		BaseWeight:        model.DefaultBaseWeight,
		WeekendMultiplier: model.DefaultWeekendMultiplier,
		HolidayMultiplier: model.DefaultHolidayMultiplier,
	}
	if dt.Value != nil {
		resp.BaseWeight = dt.Value.BaseWeight
		resp.WeekendMultiplier = dt.Value.WeekendMultiplier
		resp.HolidayMultiplier = dt.Value.HolidayMultiplier
	}
	return resp
}

func toDutyTypeResponses(list []model.DutyType) []dto.DutyTypeResponse {
	out := make([]dto.DutyTypeResponse, 0, len(list))
	for i := range list {
		out = append(out, *toDutyTypeResponse(&list[i]))
	}
	return out
}

// ────────────────────── duty slots ──────────────────────

func (s *dutyService) CreateSlot(ctx context.Context, req *dto.CreateDutySlotRequest) (*dto.DutySlotResponse, error) {
	date, err := time.Parse("2006-01-02", req.DutyDate)
	if err != nil {
		return nil, ErrInvalidDutyDate
	}

	dt, err := s.repo.DutyType.GetByID(ctx, req.DutyTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDutyTypeNotFound
		}
		return nil, err
	}

	if err := s.ensureMonthUnlocked(ctx, dt.UnitID, date); err != nil {
		return nil, err
	}
	if req.PersonnelID != nil {
		if _, err := s.repo.Personnel.GetByID(ctx, *req.PersonnelID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSlotPersonMissing
			}
			return nil, err
		}
	}

	slot := &model.DutySlot{
		DutySlotID:  uuid.New().String(),
		DutyDate:    date,
		DutyTypeID:  req.DutyTypeID,
		PersonnelID: req.PersonnelID,
		Status:      model.SlotStatusScheduled,
	}
	if err := s.repo.DutySlot.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.pushSlot(ctx, slot)
	return s.GetSlot(ctx, slot.DutySlotID)
}

func (s *dutyService) GetSlot(ctx context.Context, id string) (*dto.DutySlotResponse, error) {
	slot, err := s.repo.DutySlot.GetByIDDetailed(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return toSlotResponse(slot), nil
}

func (s *dutyService) ListSlotsByUnitMonth(ctx context.Context, unitID string, year, month int) ([]dto.DutySlotResponse, error) {
	slots, err := s.repo.DutySlot.ListByUnitMonth(ctx, unitID, year, month)
	if err != nil {
		return nil, err
	}
	return s.enrichSlots(ctx, slots)
}

func (s *dutyService) ListSlotsByPersonnel(ctx context.Context, personnelID string, from, to time.Time) ([]dto.DutySlotResponse, error) {
	slots, err := s.repo.DutySlot.ListByPersonnel(ctx, personnelID, from, to)
	if err != nil {
		return nil, err
	}
	return s.enrichSlots(ctx, slots)
}

func (s *dutyService) UpdateSlot(ctx context.Context, id string, req *dto.UpdateDutySlotRequest) (*dto.DutySlotResponse, error) {
	slot, err := s.repo.DutySlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	dt, err := s.repo.DutyType.GetByID(ctx, slot.DutyTypeID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureMonthUnlocked(ctx, dt.UnitID, slot.DutyDate); err != nil {
		return nil, err
	}

	if req.PersonnelID != nil {
		if _, err := s.repo.Personnel.GetByID(ctx, *req.PersonnelID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSlotPersonMissing
			}
			return nil, err
		}
	}
	slot.PersonnelID = req.PersonnelID

	if err := s.repo.DutySlot.Update(ctx, slot); err != nil {
		return nil, err
	}

	s.pushSlot(ctx, slot)
	return s.GetSlot(ctx, id)
}

func (s *dutyService) DeleteSlot(ctx context.Context, id, deletedBy string) error {
	slot, err := s.repo.DutySlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSlotNotFound
		}
		return err
	}

	dt, err := s.repo.DutyType.GetByID(ctx, slot.DutyTypeID)
	if err != nil {
		return err
	}
	if err := s.ensureMonthUnlocked(ctx, dt.UnitID, slot.DutyDate); err != nil {
		return err
	}

	// A slot referenced by a pending swap cannot vanish under the pair.
	if _, err := s.repo.Swap.FindActivePairBySlot(ctx, id); err == nil {
		return ErrSlotInActiveSwap
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.repo.DutySlot.Delete(ctx, id, deletedBy)
}

// ensureMonthUnlocked refuses slot mutations inside an approved month.
func (s *dutyService) ensureMonthUnlocked(ctx context.Context, unitID string, date time.Time) error {
	_, err := s.repo.Roster.Get(ctx, unitID, date.Year(), int(date.Month()))
	if err == nil {
		return ErrMonthLocked
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (s *dutyService) enrichSlots(ctx context.Context, slots []model.DutySlot) ([]dto.DutySlotResponse, error) {
	types, err := s.store.DutyTypes(ctx)
	if err != nil {
		return nil, err
	}
	people, err := s.store.Personnel(ctx)
	if err != nil {
		return nil, err
	}

	typeNames := make(map[string]string, len(types))
	for _, dt := range types {
		typeNames[dt.DutyTypeID] = dt.Name
	}
	personNames := make(map[string]string, len(people))
	for _, p := range people {
		personNames[p.PersonnelID] = p.Name
	}

	out := make([]dto.DutySlotResponse, 0, len(slots))
	for i := range slots {
		resp := toSlotResponse(&slots[i])
		if resp.DutyTypeName == "" {
			resp.DutyTypeName = typeNames[slots[i].DutyTypeID]
		}
		if resp.PersonnelName == "" && slots[i].PersonnelID != nil {
			resp.PersonnelName = personNames[*slots[i].PersonnelID]
		}
		out = append(out, *resp)
	}
	return out, nil
}

func toSlotResponse(slot *model.DutySlot) *dto.DutySlotResponse {
	resp := &dto.DutySlotResponse{
		DutySlotID:             slot.DutySlotID,
		DutyDate:               slot.DutyDate.Format("2006-01-02"),
		DutyTypeID:             slot.DutyTypeID,
		PersonnelID:            slot.PersonnelID,
		Status:                 slot.Status,
		SwappedFromPersonnelID: slot.SwappedFromPersonnelID,
		SwapPairID:             slot.SwapPairID,
	}
	if slot.DutyType != nil {
		resp.DutyTypeName = slot.DutyType.Name
	}
	if slot.Personnel != nil {
		resp.PersonnelName = slot.Personnel.Name
	}
	return resp
}

// pushSlot mirrors one slot mutation; enrichment failures only cost the push.
func (s *dutyService) pushSlot(ctx context.Context, slot *model.DutySlot) {
	push := syncrelay.SlotPush{
		DutyDate:   slot.DutyDate.Format("2006-01-02"),
		Status:     slot.Status,
		SwapPairID: slot.SwapPairID,
	}

	dt, err := s.repo.DutyType.GetByID(ctx, slot.DutyTypeID)
	if err != nil {
		s.logger.Warn("enrich slot push failed", zap.Error(err))
		return
	}
	push.DutyTypeName = dt.Name

	unit, err := s.repo.Unit.GetByID(ctx, dt.UnitID)
	if err != nil {
		s.logger.Warn("enrich slot push failed", zap.Error(err))
		return
	}
	push.UnitCode = unit.UnitCode

	if slot.PersonnelID != nil {
		p, err := s.repo.Personnel.GetByID(ctx, *slot.PersonnelID)
		if err != nil {
			s.logger.Warn("enrich slot push failed", zap.Error(err))
			return
		}
		push.ServiceNumber = p.ServiceNumber
	}

	s.relay.Enqueue(syncrelay.Task{Kind: syncrelay.KindSlotUpsert, Payload: push})
}

// ────────────────────── holidays ──────────────────────

func (s *dutyService) CreateHoliday(ctx context.Context, req *dto.CreateHolidayRequest) (*model.Holiday, error) {
	date, err := time.Parse("2006-01-02", req.HolidayDate)
	if err != nil {
		return nil, ErrInvalidDutyDate
	}

	h := &model.Holiday{
		HolidayID:   uuid.New().String(),
		HolidayDate: date,
		Name:        req.Name,
	}
	if err := s.repo.Holiday.Create(ctx, h); err != nil {
		s.store.PutHoliday(ctx, *h)
		return nil, err
	}

	s.store.Invalidate(ctx, store.KeyHolidays)
	return h, nil
}

func (s *dutyService) ListHolidays(ctx context.Context) ([]model.Holiday, error) {
	return s.store.Holidays(ctx)
}

func (s *dutyService) DeleteHoliday(ctx context.Context, id string) error {
	if err := s.repo.Holiday.Delete(ctx, id); err != nil {
		s.store.DropHoliday(ctx, id)
		return err
	}
	s.store.Invalidate(ctx, store.KeyHolidays)
	return nil
}
