package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
)

// SyncFailureRepository durable record of exhausted remote pushes.
type SyncFailureRepository interface {
	Create(ctx context.Context, f *model.SyncFailure) error
	List(ctx context.Context, limit int) ([]model.SyncFailure, error)
}

type syncFailureRepo struct {
	db *gorm.DB
}

// NewSyncFailureRepo creates a GORM-backed SyncFailureRepository.
func NewSyncFailureRepo(db *gorm.DB) SyncFailureRepository {
	return &syncFailureRepo{db: db}
}

func (r *syncFailureRepo) Create(ctx context.Context, f *model.SyncFailure) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *syncFailureRepo) List(ctx context.Context, limit int) ([]model.SyncFailure, error) {
	if limit <= 0 {
		limit = 100
	}
	var list []model.SyncFailure
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
