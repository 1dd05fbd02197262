package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
)

// ScoreEventRepository immutable score ledger access. Events are only ever
// inserted and read; there is no update or delete path.
type ScoreEventRepository interface {
	BatchCreate(ctx context.Context, events []*model.DutyScoreEvent) error
	ListByPersonnel(ctx context.Context, personnelID string) ([]model.DutyScoreEvent, error)
	ListByRoster(ctx context.Context, unitID string, year, month int) ([]model.DutyScoreEvent, error)
	// SumByPersonnel recomputes the authoritative total from the ledger.
	SumByPersonnel(ctx context.Context, personnelID string) (float64, error)
}

type scoreEventRepo struct {
	db *gorm.DB
}

// NewScoreEventRepo creates a GORM-backed ScoreEventRepository.
func NewScoreEventRepo(db *gorm.DB) ScoreEventRepository {
	return &scoreEventRepo{db: db}
}

func (r *scoreEventRepo) BatchCreate(ctx context.Context, events []*model.DutyScoreEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(events).Error
}

func (r *scoreEventRepo) ListByPersonnel(ctx context.Context, personnelID string) ([]model.DutyScoreEvent, error) {
	var events []model.DutyScoreEvent
	err := r.db.WithContext(ctx).
		Where("personnel_id = ?", personnelID).
		Order("duty_date ASC").
		Find(&events).Error
	return events, err
}

func (r *scoreEventRepo) ListByRoster(ctx context.Context, unitID string, year, month int) ([]model.DutyScoreEvent, error) {
	var events []model.DutyScoreEvent
	err := r.db.WithContext(ctx).
		Where("unit_id = ? AND roster_year = ? AND roster_month = ?", unitID, year, month).
		Order("duty_date ASC").
		Find(&events).Error
	return events, err
}

func (r *scoreEventRepo) SumByPersonnel(ctx context.Context, personnelID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&model.DutyScoreEvent{}).
		Where("personnel_id = ?", personnelID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return total, err
}
