package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
)

// PersonnelRepository personnel data access.
type PersonnelRepository interface {
	Create(ctx context.Context, p *model.Personnel) error
	GetByID(ctx context.Context, id string) (*model.Personnel, error)
	GetByServiceNumber(ctx context.Context, serviceNumber string) (*model.Personnel, error)
	List(ctx context.Context) ([]model.Personnel, error)
	ListByUnit(ctx context.Context, unitID string) ([]model.Personnel, error)
	Update(ctx context.Context, p *model.Personnel) error
	Delete(ctx context.Context, id string, deletedBy string) error
	// AddScore adds delta to the cached duty score. The cache is additive
	// across approval cycles; it is never recomputed from scratch here.
	AddScore(ctx context.Context, personnelID string, delta float64) error
}

type personnelRepo struct {
	db *gorm.DB
}

// NewPersonnelRepo creates a GORM-backed PersonnelRepository.
func NewPersonnelRepo(db *gorm.DB) PersonnelRepository {
	return &personnelRepo{db: db}
}

func (r *personnelRepo) Create(ctx context.Context, p *model.Personnel) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *personnelRepo) GetByID(ctx context.Context, id string) (*model.Personnel, error) {
	var p model.Personnel
	err := r.db.WithContext(ctx).
		Where("personnel_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personnelRepo) GetByServiceNumber(ctx context.Context, serviceNumber string) (*model.Personnel, error) {
	var p model.Personnel
	err := r.db.WithContext(ctx).
		Where("service_number = ?", serviceNumber).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personnelRepo) List(ctx context.Context) ([]model.Personnel, error) {
	var list []model.Personnel
	err := r.db.WithContext(ctx).
		Order("service_number ASC").
		Find(&list).Error
	return list, err
}

func (r *personnelRepo) ListByUnit(ctx context.Context, unitID string) ([]model.Personnel, error) {
	var list []model.Personnel
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("service_number ASC").
		Find(&list).Error
	return list, err
}

func (r *personnelRepo) Update(ctx context.Context, p *model.Personnel) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *personnelRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Personnel{}).
		Where("personnel_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *personnelRepo) AddScore(ctx context.Context, personnelID string, delta float64) error {
	return r.db.WithContext(ctx).
		Model(&model.Personnel{}).
		Where("personnel_id = ?", personnelID).
		Update("current_duty_score", gorm.Expr("current_duty_score + ?", delta)).Error
}
