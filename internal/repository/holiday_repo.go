package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
)

// HolidayRepository recognized holiday calendar access.
type HolidayRepository interface {
	Create(ctx context.Context, h *model.Holiday) error
	List(ctx context.Context) ([]model.Holiday, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]model.Holiday, error)
	Delete(ctx context.Context, id string) error
}

type holidayRepo struct {
	db *gorm.DB
}

// NewHolidayRepo creates a GORM-backed HolidayRepository.
func NewHolidayRepo(db *gorm.DB) HolidayRepository {
	return &holidayRepo{db: db}
}

func (r *holidayRepo) Create(ctx context.Context, h *model.Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *holidayRepo) List(ctx context.Context) ([]model.Holiday, error) {
	var list []model.Holiday
	err := r.db.WithContext(ctx).
		Order("holiday_date ASC").
		Find(&list).Error
	return list, err
}

func (r *holidayRepo) ListByRange(ctx context.Context, from, to time.Time) ([]model.Holiday, error) {
	var list []model.Holiday
	err := r.db.WithContext(ctx).
		Where("holiday_date >= ? AND holiday_date < ?", from, to).
		Order("holiday_date ASC").
		Find(&list).Error
	return list, err
}

func (r *holidayRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("holiday_id = ?", id).
		Delete(&model.Holiday{}).Error
}
