package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
)

// UnitRepository unit data access.
type UnitRepository interface {
	Create(ctx context.Context, unit *model.Unit) error
	GetByID(ctx context.Context, id string) (*model.Unit, error)
	GetByCode(ctx context.Context, code string) (*model.Unit, error)
	List(ctx context.Context) ([]model.Unit, error)
	Update(ctx context.Context, unit *model.Unit) error
	Delete(ctx context.Context, id string, deletedBy string) error
	CountChildren(ctx context.Context, unitID string) (int64, error)
	CountMembers(ctx context.Context, unitID string) (int64, error)
}

type unitRepo struct {
	db *gorm.DB
}

// NewUnitRepo creates a GORM-backed UnitRepository.
func NewUnitRepo(db *gorm.DB) UnitRepository {
	return &unitRepo{db: db}
}

func (r *unitRepo) Create(ctx context.Context, unit *model.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *unitRepo) GetByID(ctx context.Context, id string) (*model.Unit, error) {
	var unit model.Unit
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", id).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) GetByCode(ctx context.Context, code string) (*model.Unit, error) {
	var unit model.Unit
	err := r.db.WithContext(ctx).
		Where("unit_code = ?", code).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) List(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	err := r.db.WithContext(ctx).
		Order("unit_code ASC").
		Find(&units).Error
	return units, err
}

func (r *unitRepo) Update(ctx context.Context, unit *model.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *unitRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Unit{}).
		Where("unit_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *unitRepo) CountChildren(ctx context.Context, unitID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Unit{}).
		Where("parent_id = ? AND deleted_at IS NULL", unitID).
		Count(&count).Error
	return count, err
}

func (r *unitRepo) CountMembers(ctx context.Context, unitID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Personnel{}).
		Where("unit_id = ? AND deleted_at IS NULL", unitID).
		Count(&count).Error
	return count, err
}
