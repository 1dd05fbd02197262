package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/dto"
	"github.com/SemperAdmin/DutySync-sub000/internal/model"
	"github.com/SemperAdmin/DutySync-sub000/internal/repository"
	"github.com/SemperAdmin/DutySync-sub000/internal/store"
)

// ── personnel business errors ──

var (
	ErrPersonnelNotFound    = errors.New("personnel not found")
	ErrServiceNumberExists  = errors.New("service number already exists")
	ErrPersonnelUnitMissing = errors.New("assigned unit not found")
)

// PersonnelService manages service members and exposes their duty scores.
type PersonnelService interface {
	Create(ctx context.Context, req *dto.CreatePersonnelRequest) (*model.Personnel, error)
	GetByID(ctx context.Context, id string) (*model.Personnel, error)
	List(ctx context.Context) ([]model.Personnel, error)
	ListByUnit(ctx context.Context, unitID string) ([]model.Personnel, error)
	Update(ctx context.Context, id string, req *dto.UpdatePersonnelRequest) (*model.Personnel, error)
	Delete(ctx context.Context, id, deletedBy string) error
	// Score returns the cached total next to the ledger sum and its entries.
	Score(ctx context.Context, id string) (*dto.PersonnelScoreResponse, error)
}

type personnelService struct {
	repo   *repository.Repository
	store  *store.Store
	logger *zap.Logger
}

// NewPersonnelService creates a PersonnelService instance.
func NewPersonnelService(repo *repository.Repository, st *store.Store, logger *zap.Logger) PersonnelService {
	return &personnelService{repo: repo, store: st, logger: logger}
}

func (s *personnelService) Create(ctx context.Context, req *dto.CreatePersonnelRequest) (*model.Personnel, error) {
	if _, err := s.repo.Personnel.GetByServiceNumber(ctx, req.ServiceNumber); err == nil {
		return nil, ErrServiceNumberExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.Unit.GetByID(ctx, req.UnitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonnelUnitMissing
		}
		return nil, err
	}

	p := &model.Personnel{
		PersonnelID:   uuid.New().String(),
		ServiceNumber: req.ServiceNumber,
		Name:          req.Name,
		Rank:          req.Rank,
		UnitID:        req.UnitID,
	}
	if err := s.repo.Personnel.Create(ctx, p); err != nil {
		s.store.PutPersonnel(ctx, *p)
		return nil, err
	}

	s.store.Invalidate(ctx, store.KeyPersonnel)
	s.logger.Info("personnel created",
		zap.String("personnel_id", p.PersonnelID),
		zap.String("service_number", p.ServiceNumber))
	return p, nil
}

func (s *personnelService) GetByID(ctx context.Context, id string) (*model.Personnel, error) {
	p, err := s.repo.Personnel.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonnelNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *personnelService) List(ctx context.Context) ([]model.Personnel, error) {
	return s.store.Personnel(ctx)
}

func (s *personnelService) ListByUnit(ctx context.Context, unitID string) ([]model.Personnel, error) {
	return s.repo.Personnel.ListByUnit(ctx, unitID)
}

func (s *personnelService) Update(ctx context.Context, id string, req *dto.UpdatePersonnelRequest) (*model.Personnel, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.UnitID != nil && *req.UnitID != p.UnitID {
		if _, err := s.repo.Unit.GetByID(ctx, *req.UnitID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPersonnelUnitMissing
			}
			return nil, err
		}
		p.UnitID = *req.UnitID
	}
	p.Name = req.Name
	p.Rank = req.Rank

	if err := s.repo.Personnel.Update(ctx, p); err != nil {
		s.store.PutPersonnel(ctx, *p)
		return nil, err
	}

	s.store.Invalidate(ctx, store.KeyPersonnel)
	return p, nil
}

func (s *personnelService) Delete(ctx context.Context, id, deletedBy string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Personnel.Delete(ctx, id, deletedBy); err != nil {
		s.store.DropPersonnel(ctx, id)
		return err
	}

	s.store.Invalidate(ctx, store.KeyPersonnel)
	s.logger.Info("personnel deleted", zap.String("personnel_id", id))
	return nil
}

func (s *personnelService) Score(ctx context.Context, id string) (*dto.PersonnelScoreResponse, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.ScoreEvent.SumByPersonnel(ctx, id)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.ScoreEvent.ListByPersonnel(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.PersonnelScoreResponse{
		PersonnelID: id,
		CachedScore: p.CurrentDutyScore,
		LedgerScore: total,
		Events:      make([]dto.ScoreEventResponse, 0, len(events)),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, dto.ScoreEventResponse{
			EventID:     e.EventID,
			DutySlotID:  e.DutySlotID,
			DutyDate:    e.DutyDate.Format("2006-01-02"),
			Points:      e.Points,
			RosterYear:  e.RosterYear,
			RosterMonth: e.RosterMonth,
		})
	}
	return resp, nil
}
