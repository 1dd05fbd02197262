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
	pkgerrors "github.com/SemperAdmin/DutySync-sub000/pkg/errors"
)

// ── roster business errors ──

var (
	ErrRosterAlreadyApproved = errors.New("roster for that unit and month is already approved")
	ErrRosterNotApproved     = errors.New("roster for that unit and month is not approved")
	ErrRosterUnitNotFound    = errors.New("unit not found")
)

// RosterService locks monthly rosters and applies duty scores. Approval is a
// one-time event per (unit, year, month); scores flow into an immutable event
// ledger plus an additive per-person cache. Unapproval only removes the lock.
type RosterService interface {
	Approve(ctx context.Context, req *dto.ApproveRosterRequest, approvedBy string) (*dto.ApproveRosterResponse, error)
	Unapprove(ctx context.Context, unitID string, year, month int) (*dto.UnapproveRosterResponse, error)
	IsApproved(ctx context.Context, unitID string, year, month int) (bool, error)
	ListApproved(ctx context.Context, unitID string) ([]model.ApprovedRoster, error)
}

type rosterService struct {
	repo   *repository.Repository
	store  *store.Store
	relay  syncrelay.Queue
	logger *zap.Logger
}

// NewRosterService creates a RosterService instance.
func NewRosterService(repo *repository.Repository, st *store.Store, relay syncrelay.Queue, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, store: st, relay: relay, logger: logger}
}

// scoredSlot pairs a slot with the points computed for it.
type scoredSlot struct {
	slot   model.DutySlot
	points float64
}

// ────────────────────── Approve ──────────────────────

func (s *rosterService) Approve(ctx context.Context, req *dto.ApproveRosterRequest, approvedBy string) (*dto.ApproveRosterResponse, error) {
	unit, err := s.repo.Unit.GetByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRosterUnitNotFound
		}
		return nil, err
	}

	if _, err := s.repo.Roster.Get(ctx, req.UnitID, req.Year, req.Month); err == nil {
		return nil, ErrRosterAlreadyApproved
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	slots, err := s.repo.DutySlot.ListByUnitMonth(ctx, req.UnitID, req.Year, req.Month)
	if err != nil {
		return nil, err
	}

	values, err := s.dutyValueIndex(ctx, req.UnitID)
	if err != nil {
		return nil, err
	}
	holidays, err := s.holidaySet(ctx, req.Year, req.Month)
	if err != nil {
		return nil, err
	}

	resp := &dto.ApproveRosterResponse{
		UnitID: req.UnitID,
		Year:   req.Year,
		Month:  req.Month,
	}

	// Score every assigned slot of the month. Slots with referential gaps
	// are skipped and counted, never fatal: a partially dirty roster still
	// approves, and the counts tell the operator what was left out.
	var scored []scoredSlot
	for _, slot := range slots {
		if slot.PersonnelID == nil {
			resp.SkippedUnassigned++
			continue
		}
		value, ok := values[slot.DutyTypeID]
		if !ok {
			resp.SkippedMissingDutyType++
			continue
		}
		points := slotPoints(value, slot.DutyDate, holidays)
		scored = append(scored, scoredSlot{slot: slot, points: points})
		resp.TotalPoints += points
	}
	resp.ScoredSlots = len(scored)

	rosterID := uuid.New().String()
	events := make([]*model.DutyScoreEvent, 0, len(scored))
	deltas := make(map[string]float64)
	for _, sc := range scored {
		events = append(events, &model.DutyScoreEvent{
			EventID:     uuid.New().String(),
			PersonnelID: *sc.slot.PersonnelID,
			DutySlotID:  sc.slot.DutySlotID,
			DutyDate:    sc.slot.DutyDate,
			Points:      sc.points,
			RosterYear:  req.Year,
			RosterMonth: req.Month,
			UnitID:      req.UnitID,
			ApprovedBy:  approvedBy,
		})
		deltas[*sc.slot.PersonnelID] += sc.points
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Roster.Create(ctx, &model.ApprovedRoster{
			RosterID:   rosterID,
			UnitID:     req.UnitID,
			Year:       req.Year,
			Month:      req.Month,
			ApprovedBy: approvedBy,
		}); err != nil {
			return err
		}
		if err := txRepo.ScoreEvent.BatchCreate(ctx, events); err != nil {
			return err
		}
		// The cached total is additive per approval cycle; the ledger stays
		// the authoritative source.
		for personnelID, delta := range deltas {
			if err := txRepo.Personnel.AddScore(ctx, personnelID, delta); err != nil {
				return err
			}
		}
		_, err := txRepo.DutySlot.RevertStatusForUnitMonth(ctx,
			req.UnitID, req.Year, req.Month, model.SlotStatusScheduled, model.SlotStatusApproved)
		return err
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrRosterAlreadyApproved
		}
		s.logger.Error("approve roster failed",
			zap.String("unit_id", req.UnitID),
			zap.Int("year", req.Year), zap.Int("month", req.Month),
			zap.Error(err))
		return nil, err
	}

	s.store.Invalidate(ctx, store.KeyPersonnel)

	resp.RosterID = rosterID
	s.enqueuePushes(ctx, unit, req.Year, req.Month, true, scored)

	s.logger.Info("roster approved",
		zap.String("unit_id", req.UnitID),
		zap.Int("year", req.Year), zap.Int("month", req.Month),
		zap.Int("scored_slots", resp.ScoredSlots),
		zap.Float64("total_points", resp.TotalPoints))
	return resp, nil
}

// dutyValueIndex maps the unit's duty type ids to effective scoring values,
// falling back to defaults for types without a duty_values row.
func (s *rosterService) dutyValueIndex(ctx context.Context, unitID string) (map[string]model.DutyValue, error) {
	types, err := s.repo.DutyType.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]model.DutyValue, len(types))
	for _, dt := range types {
		value := model.DutyValue{
			DutyTypeID:        dt.DutyTypeID,
			BaseWeight:        model.DefaultBaseWeight,
			WeekendMultiplier: model.DefaultWeekendMultiplier,
			HolidayMultiplier: model.DefaultHolidayMultiplier,
		}
		if dt.Value != nil {
			value = *dt.Value
		}
		idx[dt.DutyTypeID] = value
	}
	return idx, nil
}

func (s *rosterService) holidaySet(ctx context.Context, year, month int) (map[string]bool, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	list, err := s.repo.Holiday.ListByRange(ctx, start, start.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(list))
	for _, h := range list {
		set[h.HolidayDate.Format("2006-01-02")] = true
	}
	return set, nil
}

// slotPoints computes base weight times exactly one multiplier. Holiday wins
// over weekend when a date is both.
func slotPoints(value model.DutyValue, date time.Time, holidays map[string]bool) float64 {
	multiplier := 1.0
	switch {
	case holidays[date.Format("2006-01-02")]:
		multiplier = value.HolidayMultiplier
	case date.Weekday() == time.Saturday || date.Weekday() == time.Sunday:
		multiplier = value.WeekendMultiplier
	}
	return value.BaseWeight * multiplier
}

// ────────────────────── Unapprove ──────────────────────

// Unapprove removes the roster lock and reverts slot statuses, but leaves
// every already-applied score event and cached total in place. Re-approving
// the same month scores it again; the asymmetry is intentional and auditable
// through the ledger.
func (s *rosterService) Unapprove(ctx context.Context, unitID string, year, month int) (*dto.UnapproveRosterResponse, error) {
	unit, err := s.repo.Unit.GetByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRosterUnitNotFound
		}
		return nil, err
	}

	if _, err := s.repo.Roster.Get(ctx, unitID, year, month); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRosterNotApproved
		}
		return nil, err
	}

	var reverted int64
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Roster.Delete(ctx, unitID, year, month); err != nil {
			return err
		}
		reverted, err = txRepo.DutySlot.RevertStatusForUnitMonth(ctx,
			unitID, year, month, model.SlotStatusApproved, model.SlotStatusScheduled)
		return err
	})
	if err != nil {
		s.logger.Error("unapprove roster failed",
			zap.String("unit_id", unitID),
			zap.Int("year", year), zap.Int("month", month),
			zap.Error(err))
		return nil, err
	}

	s.relay.Enqueue(syncrelay.Task{Kind: syncrelay.KindRosterLock, Payload: syncrelay.RosterLockPush{
		UnitCode: unit.UnitCode,
		Year:     year,
		Month:    month,
		Locked:   false,
	}})

	s.logger.Info("roster unapproved",
		zap.String("unit_id", unitID),
		zap.Int("year", year), zap.Int("month", month),
		zap.Int64("reverted_slots", reverted))
	return &dto.UnapproveRosterResponse{
		UnitID:        unitID,
		Year:          year,
		Month:         month,
		RevertedSlots: int(reverted),
	}, nil
}

// ────────────────────── reads ──────────────────────

func (s *rosterService) IsApproved(ctx context.Context, unitID string, year, month int) (bool, error) {
	_, err := s.repo.Roster.Get(ctx, unitID, year, month)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (s *rosterService) ListApproved(ctx context.Context, unitID string) ([]model.ApprovedRoster, error) {
	return s.repo.Roster.ListByUnit(ctx, unitID)
}

// ────────────────────── sync ──────────────────────

func (s *rosterService) enqueuePushes(ctx context.Context, unit *model.Unit, year, month int, locked bool, scored []scoredSlot) {
	s.relay.Enqueue(syncrelay.Task{Kind: syncrelay.KindRosterLock, Payload: syncrelay.RosterLockPush{
		UnitCode: unit.UnitCode,
		Year:     year,
		Month:    month,
		Locked:   locked,
	}})

	if len(scored) == 0 {
		return
	}

	typeNames := make(map[string]string)
	serviceNumbers := make(map[string]string)

	pushes := make([]syncrelay.ScoreEventPush, 0, len(scored))
	for _, sc := range scored {
		name, ok := typeNames[sc.slot.DutyTypeID]
		if !ok {
			dt, err := s.repo.DutyType.GetByID(ctx, sc.slot.DutyTypeID)
			if err != nil {
				s.logger.Warn("enrich score push failed",
					zap.String("duty_type_id", sc.slot.DutyTypeID), zap.Error(err))
				continue
			}
			name = dt.Name
			typeNames[sc.slot.DutyTypeID] = name
		}
		sn, ok := serviceNumbers[*sc.slot.PersonnelID]
		if !ok {
			p, err := s.repo.Personnel.GetByID(ctx, *sc.slot.PersonnelID)
			if err != nil {
				s.logger.Warn("enrich score push failed",
					zap.String("personnel_id", *sc.slot.PersonnelID), zap.Error(err))
				continue
			}
			sn = p.ServiceNumber
			serviceNumbers[*sc.slot.PersonnelID] = sn
		}
		pushes = append(pushes, syncrelay.ScoreEventPush{
			UnitCode:      unit.UnitCode,
			DutyTypeName:  name,
			ServiceNumber: sn,
			DutyDate:      sc.slot.DutyDate.Format("2006-01-02"),
			Points:        sc.points,
			RosterYear:    year,
			RosterMonth:   month,
		})
	}
	s.relay.Enqueue(syncrelay.Task{Kind: syncrelay.KindScoreEvents, Payload: pushes})
}
