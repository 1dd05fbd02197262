package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
)

// SwapRepository swap request, approval and recommendation data access.
type SwapRepository interface {
	CreateRequests(ctx context.Context, rows []*model.DutyChangeRequest) error
	CreateApprovals(ctx context.Context, steps []*model.SwapApproval) error
	GetRequest(ctx context.Context, requestID string) (*model.DutyChangeRequest, error)
	// GetPair returns both rows of a swap pair with their approval chains.
	GetPair(ctx context.Context, swapPairID string) ([]model.DutyChangeRequest, error)
	ListPending(ctx context.Context) ([]model.DutyChangeRequest, error)
	ListByPersonnel(ctx context.Context, personnelID string) ([]model.DutyChangeRequest, error)
	UpdateRequest(ctx context.Context, row *model.DutyChangeRequest) error
	GetApproval(ctx context.Context, approvalID string) (*model.SwapApproval, error)
	UpdateApproval(ctx context.Context, step *model.SwapApproval) error
	// FindActivePairBySlot returns a pending request referencing the slot on
	// either side, or gorm.ErrRecordNotFound.
	FindActivePairBySlot(ctx context.Context, slotID string) (*model.DutyChangeRequest, error)
	// DeletePair hard-deletes both rows plus all approval and recommendation
	// records; never partially.
	DeletePair(ctx context.Context, swapPairID string) error
	CreateRecommendation(ctx context.Context, rec *model.SwapRecommendation) error
	ListRecommendations(ctx context.Context, swapPairID string) ([]model.SwapRecommendation, error)
}

type swapRepo struct {
	db *gorm.DB
}

// NewSwapRepo creates a GORM-backed SwapRepository.
func NewSwapRepo(db *gorm.DB) SwapRepository {
	return &swapRepo{db: db}
}

func (r *swapRepo) CreateRequests(ctx context.Context, rows []*model.DutyChangeRequest) error {
	return r.db.WithContext(ctx).Create(rows).Error
}

func (r *swapRepo) CreateApprovals(ctx context.Context, steps []*model.SwapApproval) error {
	if len(steps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(steps).Error
}

func (r *swapRepo) GetRequest(ctx context.Context, requestID string) (*model.DutyChangeRequest, error) {
	var row model.DutyChangeRequest
	err := r.db.WithContext(ctx).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("approval_order ASC")
		}).
		Where("request_id = ?", requestID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *swapRepo) GetPair(ctx context.Context, swapPairID string) ([]model.DutyChangeRequest, error) {
	var rows []model.DutyChangeRequest
	err := r.db.WithContext(ctx).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("approval_order ASC")
		}).
		Preload("Personnel").
		Where("swap_pair_id = ?", swapPairID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *swapRepo) ListPending(ctx context.Context) ([]model.DutyChangeRequest, error) {
	var rows []model.DutyChangeRequest
	err := r.db.WithContext(ctx).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB {
			return db.Order("approval_order ASC")
		}).
		Where("status = ?", model.SwapStatusPending).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *swapRepo) ListByPersonnel(ctx context.Context, personnelID string) ([]model.DutyChangeRequest, error) {
	var rows []model.DutyChangeRequest
	err := r.db.WithContext(ctx).
		Where("personnel_id = ?", personnelID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *swapRepo) UpdateRequest(ctx context.Context, row *model.DutyChangeRequest) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *swapRepo) GetApproval(ctx context.Context, approvalID string) (*model.SwapApproval, error) {
	var step model.SwapApproval
	err := r.db.WithContext(ctx).
		Where("approval_id = ?", approvalID).
		First(&step).Error
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *swapRepo) UpdateApproval(ctx context.Context, step *model.SwapApproval) error {
	return r.db.WithContext(ctx).Save(step).Error
}

func (r *swapRepo) FindActivePairBySlot(ctx context.Context, slotID string) (*model.DutyChangeRequest, error) {
	var row model.DutyChangeRequest
	err := r.db.WithContext(ctx).
		Where("(giving_slot_id = ? OR receiving_slot_id = ?) AND status = ?",
			slotID, slotID, model.SwapStatusPending).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *swapRepo) DeletePair(ctx context.Context, swapPairID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var requestIDs []string
		if err := tx.Model(&model.DutyChangeRequest{}).
			Where("swap_pair_id = ?", swapPairID).
			Pluck("request_id", &requestIDs).Error; err != nil {
			return err
		}
		if len(requestIDs) > 0 {
			if err := tx.Where("request_id IN ?", requestIDs).
				Delete(&model.SwapApproval{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("swap_pair_id = ?", swapPairID).
			Delete(&model.SwapRecommendation{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("swap_pair_id = ?", swapPairID).
			Delete(&model.DutyChangeRequest{}).Error
	})
}

func (r *swapRepo) CreateRecommendation(ctx context.Context, rec *model.SwapRecommendation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *swapRepo) ListRecommendations(ctx context.Context, swapPairID string) ([]model.SwapRecommendation, error) {
	var recs []model.SwapRecommendation
	err := r.db.WithContext(ctx).
		Where("swap_pair_id = ?", swapPairID).
		Order("created_at ASC").
		Find(&recs).Error
	return recs, err
}
