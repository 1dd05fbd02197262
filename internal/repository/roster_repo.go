package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
	pkgerrors "github.com/SemperAdmin/DutySync-sub000/pkg/errors"
)

// RosterRepository approved roster lock data access.
type RosterRepository interface {
	Get(ctx context.Context, unitID string, year, month int) (*model.ApprovedRoster, error)
	Create(ctx context.Context, roster *model.ApprovedRoster) error
	Delete(ctx context.Context, unitID string, year, month int) error
	ListByUnit(ctx context.Context, unitID string) ([]model.ApprovedRoster, error)
}

type rosterRepo struct {
	db *gorm.DB
}

// NewRosterRepo creates a GORM-backed RosterRepository.
func NewRosterRepo(db *gorm.DB) RosterRepository {
	return &rosterRepo{db: db}
}

func (r *rosterRepo) Get(ctx context.Context, unitID string, year, month int) (*model.ApprovedRoster, error) {
	var roster model.ApprovedRoster
	err := r.db.WithContext(ctx).
		Where("unit_id = ? AND year = ? AND month = ?", unitID, year, month).
		First(&roster).Error
	if err != nil {
		return nil, err
	}
	return &roster, nil
}

// Create inserts the lock row. Two concurrent approvals of the same month
// race on the (unit_id, year, month) unique index; the loser gets
// ErrOptimisticLock instead of a raw driver error.
func (r *rosterRepo) Create(ctx context.Context, roster *model.ApprovedRoster) error {
	err := r.db.WithContext(ctx).Create(roster).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.ErrOptimisticLock
	}
	return err
}

func (r *rosterRepo) Delete(ctx context.Context, unitID string, year, month int) error {
	return r.db.WithContext(ctx).
		Where("unit_id = ? AND year = ? AND month = ?", unitID, year, month).
		Delete(&model.ApprovedRoster{}).Error
}

func (r *rosterRepo) ListByUnit(ctx context.Context, unitID string) ([]model.ApprovedRoster, error) {
	var rosters []model.ApprovedRoster
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("year DESC, month DESC").
		Find(&rosters).Error
	return rosters, err
}
