package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/dto"
	"github.com/SemperAdmin/DutySync-sub000/internal/model"
	"github.com/SemperAdmin/DutySync-sub000/internal/repository"
	"github.com/SemperAdmin/DutySync-sub000/internal/store"
)

// ImportService merges externally validated batches by natural key: units by
// unit code, personnel by service number. Rows with referential gaps are
// skipped with a diagnostic; a bad row never fails its batch.
type ImportService interface {
	ImportUnits(ctx context.Context, req *dto.ImportUnitsRequest) (*dto.ImportResult, error)
	ImportPersonnel(ctx context.Context, req *dto.ImportPersonnelRequest) (*dto.ImportResult, error)
}

type importService struct {
	repo   *repository.Repository
	store  *store.Store
	logger *zap.Logger
}

// NewImportService creates an ImportService instance.
func NewImportService(repo *repository.Repository, st *store.Store, logger *zap.Logger) ImportService {
	return &importService{repo: repo, store: st, logger: logger}
}

func (s *importService) ImportUnits(ctx context.Context, req *dto.ImportUnitsRequest) (*dto.ImportResult, error) {
	result := &dto.ImportResult{}
	// Rows merge one at a time; anything merged before a failing row is
	// already persisted, so every exit that changed data drops the cache.
	defer func() {
		if result.Created+result.Updated > 0 {
			s.store.Invalidate(ctx, store.KeyUnits)
		}
	}()

	// Records may arrive in any order; parents referenced by code are looked
	// up per row, so a batch that lists children before parents still merges
	// once the parents exist. Rows within one batch are processed in order.
	for _, record := range req.Units {
		var parentID *string
		if record.ParentCode != "" {
			parent, err := s.repo.Unit.GetByCode(ctx, record.ParentCode)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					result.Skipped++
					result.Diagnostics = append(result.Diagnostics,
						fmt.Sprintf("unit %s: parent code %s not found", record.UnitCode, record.ParentCode))
					continue
				}
				return nil, err
			}
			parentID = &parent.UnitID
		}

		existing, err := s.repo.Unit.GetByCode(ctx, record.UnitCode)
		switch {
		case err == nil:
			existing.Name = record.Name
			existing.HierarchyLevel = record.HierarchyLevel
			existing.ParentID = parentID
			if err := s.repo.Unit.Update(ctx, existing); err != nil {
				return nil, err
			}
			result.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			unit := &model.Unit{
				UnitID:         uuid.New().String(),
				UnitCode:       record.UnitCode,
				Name:           record.Name,
				HierarchyLevel: record.HierarchyLevel,
				ParentID:       parentID,
			}
			if err := s.repo.Unit.Create(ctx, unit); err != nil {
				return nil, err
			}
			result.Created++
		default:
			return nil, err
		}
	}

	s.logger.Info("units imported",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *importService) ImportPersonnel(ctx context.Context, req *dto.ImportPersonnelRequest) (*dto.ImportResult, error) {
	result := &dto.ImportResult{}
	defer func() {
		if result.Created+result.Updated > 0 {
			s.store.Invalidate(ctx, store.KeyPersonnel)
		}
	}()

	for _, record := range req.Personnel {
		unit, err := s.repo.Unit.GetByCode(ctx, record.UnitCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Skipped++
				result.Diagnostics = append(result.Diagnostics,
					fmt.Sprintf("personnel %s: unit code %s not found", record.ServiceNumber, record.UnitCode))
				continue
			}
			return nil, err
		}

		existing, err := s.repo.Personnel.GetByServiceNumber(ctx, record.ServiceNumber)
		switch {
		case err == nil:
			existing.Name = record.Name
			existing.Rank = record.Rank
			existing.UnitID = unit.UnitID
			if err := s.repo.Personnel.Update(ctx, existing); err != nil {
				return nil, err
			}
			result.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			p := &model.Personnel{
				PersonnelID:   uuid.New().String(),
				ServiceNumber: record.ServiceNumber,
				Name:          record.Name,
				Rank:          record.Rank,
				UnitID:        unit.UnitID,
			}
			if err := s.repo.Personnel.Create(ctx, p); err != nil {
				return nil, err
			}
			result.Created++
		default:
			return nil, err
		}
	}

	s.logger.Info("personnel imported",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}
