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

// ── unit business errors ──

var (
	ErrUnitNotFound       = errors.New("unit not found")
	ErrUnitCodeExists     = errors.New("unit code already exists")
	ErrUnitParentNotFound = errors.New("parent unit not found")
	ErrUnitLevelInvalid   = errors.New("hierarchy level must sit strictly below the parent's")
	ErrUnitHasChildren    = errors.New("unit still has child units")
	ErrUnitHasMembers     = errors.New("unit still has assigned personnel")
)

// UnitService manages the organizational tree.
type UnitService interface {
	Create(ctx context.Context, req *dto.CreateUnitRequest) (*model.Unit, error)
	GetByID(ctx context.Context, id string) (*model.Unit, error)
	List(ctx context.Context) ([]model.Unit, error)
	Update(ctx context.Context, id string, req *dto.UpdateUnitRequest) (*model.Unit, error)
	Delete(ctx context.Context, id, deletedBy string) error
}

type unitService struct {
	repo   *repository.Repository
	store  *store.Store
	logger *zap.Logger
}

// NewUnitService creates a UnitService instance.
func NewUnitService(repo *repository.Repository, st *store.Store, logger *zap.Logger) UnitService {
	return &unitService{repo: repo, store: st, logger: logger}
}

func (s *unitService) Create(ctx context.Context, req *dto.CreateUnitRequest) (*model.Unit, error) {
	if _, err := s.repo.Unit.GetByCode(ctx, req.UnitCode); err == nil {
		return nil, ErrUnitCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.repo.Unit.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnitParentNotFound
			}
			return nil, err
		}
		// Levels strictly decrease with depth, which also rules out cycles.
		if model.LevelRank(req.HierarchyLevel) <= model.LevelRank(parent.HierarchyLevel) {
			return nil, ErrUnitLevelInvalid
		}
	}

	unit := &model.Unit{
		UnitID:         uuid.New().String(),
		UnitCode:       req.UnitCode,
		Name:           req.Name,
		HierarchyLevel: req.HierarchyLevel,
		ParentID:       req.ParentID,
	}
	if err := s.repo.Unit.Create(ctx, unit); err != nil {
		s.store.PutUnit(ctx, *unit)
		return nil, err
	}

	s.store.Invalidate(ctx, store.KeyUnits)
	s.logger.Info("unit created",
		zap.String("unit_id", unit.UnitID), zap.String("unit_code", unit.UnitCode))
	return unit, nil
}

func (s *unitService) GetByID(ctx context.Context, id string) (*model.Unit, error) {
	unit, err := s.repo.Unit.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return unit, nil
}

func (s *unitService) List(ctx context.Context) ([]model.Unit, error) {
	return s.store.Units(ctx)
}

func (s *unitService) Update(ctx context.Context, id string, req *dto.UpdateUnitRequest) (*model.Unit, error) {
	unit, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unit.Name = req.Name
	if err := s.repo.Unit.Update(ctx, unit); err != nil {
		s.store.PutUnit(ctx, *unit)
		return nil, err
	}

	s.store.Invalidate(ctx, store.KeyUnits)
	return unit, nil
}

func (s *unitService) Delete(ctx context.Context, id, deletedBy string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	children, err := s.repo.Unit.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrUnitHasChildren
	}
	members, err := s.repo.Unit.CountMembers(ctx, id)
	if err != nil {
		return err
	}
	if members > 0 {
		return ErrUnitHasMembers
	}

	if err := s.repo.Unit.Delete(ctx, id, deletedBy); err != nil {
		s.store.DropUnit(ctx, id)
		return err
	}

	s.store.Invalidate(ctx, store.KeyUnits)
	s.logger.Info("unit deleted", zap.String("unit_id", id))
	return nil
}
