package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
)

// DutySlotRepository duty slot data access.
type DutySlotRepository interface {
	Create(ctx context.Context, slot *model.DutySlot) error
	GetByID(ctx context.Context, id string) (*model.DutySlot, error)
	GetByIDDetailed(ctx context.Context, id string) (*model.DutySlot, error)
	ListByMonth(ctx context.Context, year, month int) ([]model.DutySlot, error)
	ListByUnitMonth(ctx context.Context, unitID string, year, month int) ([]model.DutySlot, error)
	ListByPersonnel(ctx context.Context, personnelID string, from, to time.Time) ([]model.DutySlot, error)
	Update(ctx context.Context, slot *model.DutySlot) error
	Delete(ctx context.Context, id string, deletedBy string) error
	// RevertStatusForUnitMonth flips every slot of the unit/month from one
	// status to another; returns the number of rows changed.
	RevertStatusForUnitMonth(ctx context.Context, unitID string, year, month int, from, to string) (int64, error)
}

type dutySlotRepo struct {
	db *gorm.DB
}

// NewDutySlotRepo creates a GORM-backed DutySlotRepository.
func NewDutySlotRepo(db *gorm.DB) DutySlotRepository {
	return &dutySlotRepo{db: db}
}

func (r *dutySlotRepo) Create(ctx context.Context, slot *model.DutySlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *dutySlotRepo) GetByID(ctx context.Context, id string) (*model.DutySlot, error) {
	var slot model.DutySlot
	err := r.db.WithContext(ctx).
		Where("duty_slot_id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *dutySlotRepo) GetByIDDetailed(ctx context.Context, id string) (*model.DutySlot, error) {
	var slot model.DutySlot
	err := r.db.WithContext(ctx).
		Preload("DutyType").
		Preload("DutyType.Value").
		Preload("Personnel").
		Where("duty_slot_id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func monthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (r *dutySlotRepo) ListByMonth(ctx context.Context, year, month int) ([]model.DutySlot, error) {
	start, end := monthRange(year, month)
	var slots []model.DutySlot
	err := r.db.WithContext(ctx).
		Where("duty_date >= ? AND duty_date < ?", start, end).
		Order("duty_date ASC").
		Find(&slots).Error
	return slots, err
}

func (r *dutySlotRepo) ListByUnitMonth(ctx context.Context, unitID string, year, month int) ([]model.DutySlot, error) {
	start, end := monthRange(year, month)
	var slots []model.DutySlot
	err := r.db.WithContext(ctx).
		Joins("JOIN duty_types ON duty_types.duty_type_id = duty_slots.duty_type_id").
		Where("duty_types.unit_id = ? AND duty_slots.duty_date >= ? AND duty_slots.duty_date < ?", unitID, start, end).
		Where("duty_slots.deleted_at IS NULL").
		Order("duty_slots.duty_date ASC").
		Find(&slots).Error
	return slots, err
}

func (r *dutySlotRepo) ListByPersonnel(ctx context.Context, personnelID string, from, to time.Time) ([]model.DutySlot, error) {
	var slots []model.DutySlot
	err := r.db.WithContext(ctx).
		Preload("DutyType").
		Where("personnel_id = ? AND duty_date >= ? AND duty_date < ?", personnelID, from, to).
		Order("duty_date ASC").
		Find(&slots).Error
	return slots, err
}

func (r *dutySlotRepo) Update(ctx context.Context, slot *model.DutySlot) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *dutySlotRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.DutySlot{}).
		Where("duty_slot_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *dutySlotRepo) RevertStatusForUnitMonth(ctx context.Context, unitID string, year, month int, from, to string) (int64, error) {
	start, end := monthRange(year, month)
	res := r.db.WithContext(ctx).
		Model(&model.DutySlot{}).
		Where("duty_type_id IN (?)",
			r.db.Model(&model.DutyType{}).Select("duty_type_id").Where("unit_id = ?", unitID)).
		Where("duty_date >= ? AND duty_date < ? AND status = ?", start, end, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}
