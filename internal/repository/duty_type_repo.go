package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
)

// DutyTypeRepository duty type and duty value data access.
type DutyTypeRepository interface {
	Create(ctx context.Context, dt *model.DutyType) error
	GetByID(ctx context.Context, id string) (*model.DutyType, error)
	GetByUnitAndName(ctx context.Context, unitID, name string) (*model.DutyType, error)
	List(ctx context.Context) ([]model.DutyType, error)
	ListByUnit(ctx context.Context, unitID string) ([]model.DutyType, error)
	Update(ctx context.Context, dt *model.DutyType) error
	Delete(ctx context.Context, id string, deletedBy string) error
	GetValue(ctx context.Context, dutyTypeID string) (*model.DutyValue, error)
	SaveValue(ctx context.Context, value *model.DutyValue) error
}

type dutyTypeRepo struct {
	db *gorm.DB
}

// NewDutyTypeRepo creates a GORM-backed DutyTypeRepository.
func NewDutyTypeRepo(db *gorm.DB) DutyTypeRepository {
	return &dutyTypeRepo{db: db}
}

func (r *dutyTypeRepo) Create(ctx context.Context, dt *model.DutyType) error {
	return r.db.WithContext(ctx).Create(dt).Error
}

func (r *dutyTypeRepo) GetByID(ctx context.Context, id string) (*model.DutyType, error) {
	var dt model.DutyType
	err := r.db.WithContext(ctx).
		Preload("Value").
		Where("duty_type_id = ?", id).
		First(&dt).Error
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *dutyTypeRepo) GetByUnitAndName(ctx context.Context, unitID, name string) (*model.DutyType, error) {
	var dt model.DutyType
	err := r.db.WithContext(ctx).
		Where("unit_id = ? AND name = ?", unitID, name).
		First(&dt).Error
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *dutyTypeRepo) List(ctx context.Context) ([]model.DutyType, error) {
	var list []model.DutyType
	err := r.db.WithContext(ctx).
		Preload("Value").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&list).Error
	return list, err
}

func (r *dutyTypeRepo) ListByUnit(ctx context.Context, unitID string) ([]model.DutyType, error) {
	var list []model.DutyType
	err := r.db.WithContext(ctx).
		Preload("Value").
		Where("unit_id = ? AND is_active = ?", unitID, true).
		Order("name ASC").
		Find(&list).Error
	return list, err
}

func (r *dutyTypeRepo) Update(ctx context.Context, dt *model.DutyType) error {
	return r.db.WithContext(ctx).Save(dt).Error
}

func (r *dutyTypeRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.DutyType{}).
		Where("duty_type_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *dutyTypeRepo) GetValue(ctx context.Context, dutyTypeID string) (*model.DutyValue, error) {
	var value model.DutyValue
	err := r.db.WithContext(ctx).
		Where("duty_type_id = ?", dutyTypeID).
		First(&value).Error
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *dutyTypeRepo) SaveValue(ctx context.Context, value *model.DutyValue) error {
	return r.db.WithContext(ctx).Save(value).Error
}
