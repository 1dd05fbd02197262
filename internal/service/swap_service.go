package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SemperAdmin/DutySync-sub000/internal/dto"
	"github.com/SemperAdmin/DutySync-sub000/internal/model"
	"github.com/SemperAdmin/DutySync-sub000/internal/repository"
	"github.com/SemperAdmin/DutySync-sub000/internal/store"
	"github.com/SemperAdmin/DutySync-sub000/internal/syncrelay"
)

// ── swap workflow business errors ──

var (
	ErrSwapSlotNotFound       = errors.New("duty slot not found")
	ErrSlotNotHeldByPersonnel = errors.New("slot is not assigned to that person")
	ErrSlotNotSwappable       = errors.New("slot is not in a swappable status")
	ErrSlotInActiveSwap       = errors.New("slot is already referenced by an in-flight swap")
	ErrSwapWithSelf           = errors.New("both sides of a swap must be different people")
	ErrSwapSameSlot           = errors.New("both sides of a swap must reference different slots")
	ErrSwapPairNotFound       = errors.New("swap pair not found")
	ErrSwapNotPending         = errors.New("swap pair is not pending")
	ErrNotSwapPartner         = errors.New("only the non-initiating partner may accept")
	ErrSwapAlreadyAccepted    = errors.New("swap has already been accepted")
	ErrApprovalNotFound       = errors.New("approval step not found")
	ErrApprovalNotPending     = errors.New("approval step is not pending")
	ErrPartnerNotAccepted     = errors.New("partner has not accepted the swap yet")
	ErrSwapSlotMissing        = errors.New("a referenced slot no longer exists; swap aborted")
	ErrRecommenderIsApprover  = errors.New("a manager inside the approval chain cannot recommend")
)

// SwapService drives two-sided duty swaps through partner acceptance, the
// approval chain, and the atomic slot exchange.
type SwapService interface {
	Create(ctx context.Context, req *dto.CreateSwapRequest) (*dto.SwapPairResponse, error)
	// Accept records the partner's acceptance; acceptance is pair-wide.
	Accept(ctx context.Context, swapPairID, personnelID string) (*dto.SwapPairResponse, error)
	// ApproveStep approves one pending step and, if that completes the pair,
	// executes the slot exchange atomically.
	ApproveStep(ctx context.Context, approvalID, approverID, comment string) (*dto.SwapPairResponse, error)
	// Reject rejects both rows of the pair with a shared reason.
	Reject(ctx context.Context, swapPairID, reason, rejectedBy string) (*dto.SwapPairResponse, error)
	// Delete removes both rows plus every approval and recommendation record.
	Delete(ctx context.Context, swapPairID string) error
	Recommend(ctx context.Context, swapPairID, managerID string, req *dto.RecommendSwapRequest) error
	GetPair(ctx context.Context, swapPairID string) (*dto.SwapPairResponse, error)
	ListPending(ctx context.Context) ([]dto.SwapPairResponse, error)
}

type swapService struct {
	repo     *repository.Repository
	store    *store.Store
	resolver *HierarchyResolver
	relay    syncrelay.Queue
	logger   *zap.Logger
}

// NewSwapService creates a SwapService instance.
func NewSwapService(repo *repository.Repository, st *store.Store, resolver *HierarchyResolver, relay syncrelay.Queue, logger *zap.Logger) SwapService {
	return &swapService{repo: repo, store: st, resolver: resolver, relay: relay, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *swapService) Create(ctx context.Context, req *dto.CreateSwapRequest) (*dto.SwapPairResponse, error) {
	if req.InitiatorPersonnelID == req.PartnerPersonnelID {
		return nil, ErrSwapWithSelf
	}
	if req.InitiatorSlotID == req.PartnerSlotID {
		return nil, ErrSwapSameSlot
	}

	if _, err := s.loadSwappableSlot(ctx, req.InitiatorSlotID, req.InitiatorPersonnelID); err != nil {
		return nil, err
	}
	if _, err := s.loadSwappableSlot(ctx, req.PartnerSlotID, req.PartnerPersonnelID); err != nil {
		return nil, err
	}

	personA, err := s.repo.Personnel.GetByID(ctx, req.InitiatorPersonnelID)
	if err != nil {
		return nil, err
	}
	personB, err := s.repo.Personnel.GetByID(ctx, req.PartnerPersonnelID)
	if err != nil {
		return nil, err
	}

	// The LCA approver level is computed once for the pair; both sides'
	// chains are built against it independently.
	_, level, err := s.resolver.LowestCommonAncestor(ctx, personA, personB)
	if err != nil {
		return nil, err
	}

	unitIdx, err := s.resolver.unitIndex(ctx)
	if err != nil {
		return nil, err
	}

	swapPairID := uuid.New().String()

	rowA := &model.DutyChangeRequest{
		RequestID:       uuid.New().String(),
		SwapPairID:      swapPairID,
		PersonnelID:     personA.PersonnelID,
		GivingSlotID:    req.InitiatorSlotID,
		ReceivingSlotID: req.PartnerSlotID,
		RequesterID:     req.InitiatorPersonnelID,
		PartnerAccepted: true, // the requester's own row is auto-accepted
		Status:          model.SwapStatusPending,
		Reason:          req.Reason,
	}
	rowB := &model.DutyChangeRequest{
		RequestID:       uuid.New().String(),
		SwapPairID:      swapPairID,
		PersonnelID:     personB.PersonnelID,
		GivingSlotID:    req.PartnerSlotID,
		ReceivingSlotID: req.InitiatorSlotID,
		RequesterID:     req.InitiatorPersonnelID,
		PartnerAccepted: false,
		Status:          model.SwapStatusPending,
		Reason:          req.Reason,
	}

	steps := buildApprovalChain(unitIdx, personA.UnitID, rowA.RequestID, level)
	steps = append(steps, buildApprovalChain(unitIdx, personB.UnitID, rowB.RequestID, level)...)

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Swap.CreateRequests(ctx, []*model.DutyChangeRequest{rowA, rowB}); err != nil {
			return err
		}
		return txRepo.Swap.CreateApprovals(ctx, steps)
	})
	if err != nil {
		s.logger.Error("create swap pair failed", zap.Error(err))
		return nil, err
	}

	return s.GetPair(ctx, swapPairID)
}

func (s *swapService) loadSwappableSlot(ctx context.Context, slotID, personnelID string) (*model.DutySlot, error) {
	slot, err := s.repo.DutySlot.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapSlotNotFound
		}
		return nil, err
	}
	if slot.PersonnelID == nil || *slot.PersonnelID != personnelID {
		return nil, ErrSlotNotHeldByPersonnel
	}
	if slot.Status != model.SlotStatusScheduled {
		return nil, ErrSlotNotSwappable
	}
	if _, err := s.repo.Swap.FindActivePairBySlot(ctx, slotID); err == nil {
		return nil, ErrSlotInActiveSwap
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return slot, nil
}

// buildApprovalChain builds one side's ordered steps.
//
// Every side gets a work-section step scoped to the person's own unit; it is
// the decision gate only when the pair's LCA sits at work-section level,
// otherwise it may merely recommend. Higher steps are added while the LCA
// level is above them and the tree actually has a unit at that scope. The
// company step, when present, is always a decision gate (terminal level).
func buildApprovalChain(unitIdx map[string]model.Unit, personUnitID, requestID, lcaLevel string) []*model.SwapApproval {
	steps := []*model.SwapApproval{{
		ApprovalID:    uuid.New().String(),
		RequestID:     requestID,
		ApprovalOrder: 1,
		ApproverType:  model.ApproverWorkSectionManager,
		UnitID:        strPtr(personUnitID),
		IsApprover:    lcaLevel == model.ApproverWorkSectionManager,
		Status:        model.ApprovalStatusPending,
	}}

	if lcaLevel == model.ApproverWorkSectionManager {
		return steps
	}

	unit, ok := unitIdx[personUnitID]
	if !ok || unit.ParentID == nil {
		return steps
	}
	parentID := *unit.ParentID

	steps = append(steps, &model.SwapApproval{
		ApprovalID:    uuid.New().String(),
		RequestID:     requestID,
		ApprovalOrder: 2,
		ApproverType:  model.ApproverSectionManager,
		UnitID:        strPtr(parentID),
		IsApprover:    lcaLevel == model.ApproverSectionManager,
		Status:        model.ApprovalStatusPending,
	})

	if lcaLevel != model.ApproverCompanyManager {
		return steps
	}

	parent, ok := unitIdx[parentID]
	if !ok || parent.ParentID == nil {
		return steps
	}

	steps = append(steps, &model.SwapApproval{
		ApprovalID:    uuid.New().String(),
		RequestID:     requestID,
		ApprovalOrder: 3,
		ApproverType:  model.ApproverCompanyManager,
		UnitID:        parent.ParentID,
		IsApprover:    true,
		Status:        model.ApprovalStatusPending,
	})
	return steps
}

func strPtr(s string) *string { return &s }

// ────────────────────── Accept ──────────────────────

func (s *swapService) Accept(ctx context.Context, swapPairID, personnelID string) (*dto.SwapPairResponse, error) {
	var swapped []*model.DutySlot

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		rows, err := txRepo.Swap.GetPair(ctx, swapPairID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrSwapPairNotFound
		}
		for i := range rows {
			if rows[i].Status != model.SwapStatusPending {
				return ErrSwapNotPending
			}
		}

		accepted := true
		var partnerID string
		for i := range rows {
			if rows[i].PersonnelID != rows[i].RequesterID {
				partnerID = rows[i].PersonnelID
			}
			accepted = accepted && rows[i].PartnerAccepted
		}
		if accepted {
			return ErrSwapAlreadyAccepted
		}
		if personnelID != partnerID {
			return ErrNotSwapPartner
		}

		// Acceptance is pair-wide: both rows flip together.
		for i := range rows {
			rows[i].PartnerAccepted = true
			if err := txRepo.Swap.UpdateRequest(ctx, &rows[i]); err != nil {
				return err
			}
		}

		// A side with zero approval steps is vacuously satisfied, so the
		// pair can complete straight from acceptance.
		slots, err := s.completeIfFullyApproved(ctx, txRepo, swapPairID)
		if err != nil {
			return err
		}
		swapped = slots
		return nil
	})
	if err != nil {
		return nil, err
	}
	if swapped != nil {
		s.enqueueSwapResult(ctx, swapPairID, model.SwapStatusApproved, "", swapped)
	}
	return s.GetPair(ctx, swapPairID)
}

// ────────────────────── ApproveStep ──────────────────────

func (s *swapService) ApproveStep(ctx context.Context, approvalID, approverID, comment string) (*dto.SwapPairResponse, error) {
	var (
		swapPairID string
		swapped    []*model.DutySlot
	)

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		step, err := txRepo.Swap.GetApproval(ctx, approvalID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApprovalNotFound
			}
			return err
		}
		if step.Status != model.ApprovalStatusPending {
			return ErrApprovalNotPending
		}

		request, err := txRepo.Swap.GetRequest(ctx, step.RequestID)
		if err != nil {
			return err
		}
		if request.Status != model.SwapStatusPending {
			return ErrSwapNotPending
		}
		swapPairID = request.SwapPairID

		rows, err := txRepo.Swap.GetPair(ctx, swapPairID)
		if err != nil {
			return err
		}
		for i := range rows {
			if !rows[i].PartnerAccepted {
				return ErrPartnerNotAccepted
			}
		}

		now := time.Now()
		step.Status = model.ApprovalStatusApproved
		step.ApproverID = strPtr(approverID)
		step.Comment = comment
		step.DecidedAt = &now
		if err := txRepo.Swap.UpdateApproval(ctx, step); err != nil {
			return err
		}

		slots, err := s.completeIfFullyApproved(ctx, txRepo, swapPairID)
		if err != nil {
			return err
		}
		swapped = slots
		return nil
	})
	if err != nil {
		return nil, err
	}
	if swapped != nil {
		s.enqueueSwapResult(ctx, swapPairID, model.SwapStatusApproved, "", swapped)
	}
	return s.GetPair(ctx, swapPairID)
}

// completeIfFullyApproved finalizes the pair when both rows have partner
// acceptance and every approval step on both rows is approved. The slot
// exchange happens inside the caller's transaction so readers never observe
// a half-swapped state. The exchanged slots are returned so the caller can
// mirror the result only after the transaction commits; nil means the pair
// is still pending.
func (s *swapService) completeIfFullyApproved(ctx context.Context, txRepo *repository.Repository, swapPairID string) ([]*model.DutySlot, error) {
	rows, err := txRepo.Swap.GetPair(ctx, swapPairID)
	if err != nil {
		return nil, err
	}
	if len(rows) != 2 {
		return nil, ErrSwapPairNotFound
	}

	for i := range rows {
		if !rows[i].PartnerAccepted {
			return nil, nil
		}
		for _, step := range rows[i].Approvals {
			if step.Status != model.ApprovalStatusApproved {
				return nil, nil
			}
		}
	}

	return s.executeSwap(ctx, txRepo, rows)
}

// executeSwap cross-assigns both slots and marks both rows approved.
// All-or-nothing: a missing slot aborts with ErrSwapSlotMissing and the
// transaction rolls back, leaving the pair pending for retry or manual
// rejection.
func (s *swapService) executeSwap(ctx context.Context, txRepo *repository.Repository, rows []model.DutyChangeRequest) ([]*model.DutySlot, error) {
	slotA, err := txRepo.DutySlot.GetByID(ctx, rows[0].GivingSlotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapSlotMissing
		}
		return nil, err
	}
	slotB, err := txRepo.DutySlot.GetByID(ctx, rows[1].GivingSlotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapSlotMissing
		}
		return nil, err
	}

	swapPairID := rows[0].SwapPairID
	origA := slotA.PersonnelID
	origB := slotB.PersonnelID

	slotA.PersonnelID = origB
	slotA.SwappedFromPersonnelID = origA
	slotA.Status = model.SlotStatusSwapped
	slotA.SwapPairID = &swapPairID

	slotB.PersonnelID = origA
	slotB.SwappedFromPersonnelID = origB
	slotB.Status = model.SlotStatusSwapped
	slotB.SwapPairID = &swapPairID

	if err := txRepo.DutySlot.Update(ctx, slotA); err != nil {
		return nil, err
	}
	if err := txRepo.DutySlot.Update(ctx, slotB); err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].Status = model.SwapStatusApproved
		if err := txRepo.Swap.UpdateRequest(ctx, &rows[i]); err != nil {
			return nil, err
		}
	}

	return []*model.DutySlot{slotA, slotB}, nil
}

// ────────────────────── Reject ──────────────────────

func (s *swapService) Reject(ctx context.Context, swapPairID, reason, rejectedBy string) (*dto.SwapPairResponse, error) {
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		rows, err := txRepo.Swap.GetPair(ctx, swapPairID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrSwapPairNotFound
		}

		now := time.Now()
		for i := range rows {
			if rows[i].Status != model.SwapStatusPending {
				return ErrSwapNotPending
			}
			// Rejecting either row rejects both with the shared reason;
			// slots stay untouched.
			rows[i].Status = model.SwapStatusRejected
			rows[i].RejectReason = reason
			if err := txRepo.Swap.UpdateRequest(ctx, &rows[i]); err != nil {
				return err
			}
			for j := range rows[i].Approvals {
				step := rows[i].Approvals[j]
				if step.Status != model.ApprovalStatusPending {
					continue
				}
				step.Status = model.ApprovalStatusRejected
				step.ApproverID = strPtr(rejectedBy)
				step.DecidedAt = &now
				if err := txRepo.Swap.UpdateApproval(ctx, &step); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueueSwapResult(ctx, swapPairID, model.SwapStatusRejected, reason, nil)
	return s.GetPair(ctx, swapPairID)
}

// ────────────────────── Delete ──────────────────────

func (s *swapService) Delete(ctx context.Context, swapPairID string) error {
	rows, err := s.repo.Swap.GetPair(ctx, swapPairID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrSwapPairNotFound
	}
	return s.repo.Swap.DeletePair(ctx, swapPairID)
}

// ────────────────────── Recommend ──────────────────────

func (s *swapService) Recommend(ctx context.Context, swapPairID, managerID string, req *dto.RecommendSwapRequest) error {
	rows, err := s.repo.Swap.GetPair(ctx, swapPairID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrSwapPairNotFound
	}
	for i := range rows {
		if rows[i].Status != model.SwapStatusPending {
			return ErrSwapNotPending
		}
	}

	// Only a manager whose scope covers neither participant may recommend;
	// someone inside the chain holds real approval power instead.
	manager, err := s.repo.Personnel.GetByID(ctx, managerID)
	if err == nil {
		for i := range rows {
			for _, step := range rows[i].Approvals {
				if step.UnitID != nil && *step.UnitID == manager.UnitID {
					return ErrRecommenderIsApprover
				}
			}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	rec := &model.SwapRecommendation{
		RecommendationID: uuid.New().String(),
		SwapPairID:       swapPairID,
		ManagerID:        managerID,
		Stance:           req.Stance,
		Comment:          req.Comment,
	}
	return s.repo.Swap.CreateRecommendation(ctx, rec)
}

// ────────────────────── reads ──────────────────────

func (s *swapService) GetPair(ctx context.Context, swapPairID string) (*dto.SwapPairResponse, error) {
	rows, err := s.repo.Swap.GetPair(ctx, swapPairID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrSwapPairNotFound
	}

	recs, err := s.repo.Swap.ListRecommendations(ctx, swapPairID)
	if err != nil {
		return nil, err
	}

	return s.toPairResponse(rows, recs), nil
}

func (s *swapService) ListPending(ctx context.Context) ([]dto.SwapPairResponse, error) {
	rows, err := s.repo.Swap.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	byPair := make(map[string][]model.DutyChangeRequest)
	var order []string
	for _, row := range rows {
		if _, seen := byPair[row.SwapPairID]; !seen {
			order = append(order, row.SwapPairID)
		}
		byPair[row.SwapPairID] = append(byPair[row.SwapPairID], row)
	}

	result := make([]dto.SwapPairResponse, 0, len(order))
	for _, pairID := range order {
		result = append(result, *s.toPairResponse(byPair[pairID], nil))
	}
	return result, nil
}

func (s *swapService) toPairResponse(rows []model.DutyChangeRequest, recs []model.SwapRecommendation) *dto.SwapPairResponse {
	resp := &dto.SwapPairResponse{
		SwapPairID: rows[0].SwapPairID,
		Status:     pairStatus(rows),
		Reason:     rows[0].Reason,
	}

	for i := range rows {
		side := dto.SwapSideResponse{
			RequestID:       rows[i].RequestID,
			PersonnelID:     rows[i].PersonnelID,
			GivingSlotID:    rows[i].GivingSlotID,
			ReceivingSlotID: rows[i].ReceivingSlotID,
			PartnerAccepted: rows[i].PartnerAccepted,
			Status:          rows[i].Status,
			RejectReason:    rows[i].RejectReason,
			Approvals:       make([]dto.SwapApprovalResponse, 0, len(rows[i].Approvals)),
		}
		if rows[i].Personnel != nil {
			side.PersonnelName = rows[i].Personnel.Name
		}
		for _, step := range rows[i].Approvals {
			side.Approvals = append(side.Approvals, dto.SwapApprovalResponse{
				ApprovalID:    step.ApprovalID,
				ApprovalOrder: step.ApprovalOrder,
				ApproverType:  step.ApproverType,
				UnitID:        step.UnitID,
				IsApprover:    step.IsApprover,
				Status:        step.Status,
				ApproverID:    step.ApproverID,
				Comment:       step.Comment,
			})
		}
		resp.Sides = append(resp.Sides, side)
	}

	for _, rec := range recs {
		resp.Recommendations = append(resp.Recommendations, dto.SwapRecommendationResponse{
			RecommendationID: rec.RecommendationID,
			ManagerID:        rec.ManagerID,
			Stance:           rec.Stance,
			Comment:          rec.Comment,
		})
	}
	return resp
}

// pairStatus derives the pair's status from its rows: any rejection rejects
// the pair, both approvals approve it, anything else is pending.
func pairStatus(rows []model.DutyChangeRequest) string {
	approved := true
	for i := range rows {
		switch rows[i].Status {
		case model.SwapStatusRejected:
			return model.SwapStatusRejected
		case model.SwapStatusApproved:
		default:
			approved = false
		}
	}
	if approved && len(rows) > 0 {
		return model.SwapStatusApproved
	}
	return model.SwapStatusPending
}

// ────────────────────── sync ──────────────────────

// enqueueSwapResult mirrors a finalized pair. Counterpart records on the
// remote are resolved by natural keys, so slot pushes are enriched with unit
// code, duty-type name and service numbers; enrichment failures only cost
// the mirror push.
func (s *swapService) enqueueSwapResult(ctx context.Context, swapPairID, status, reason string, slots []*model.DutySlot) {
	push := syncrelay.SwapResultPush{
		SwapPairID: swapPairID,
		Status:     status,
		Reason:     reason,
	}
	for _, slot := range slots {
		sp, err := s.slotPush(ctx, slot)
		if err != nil {
			s.logger.Warn("enrich slot push failed",
				zap.String("slot_id", slot.DutySlotID), zap.Error(err))
			continue
		}
		push.Slots = append(push.Slots, sp)
	}
	s.relay.Enqueue(syncrelay.Task{Kind: syncrelay.KindSwapResult, Payload: push})
}

func (s *swapService) slotPush(ctx context.Context, slot *model.DutySlot) (syncrelay.SlotPush, error) {
	push := syncrelay.SlotPush{
		DutyDate:   slot.DutyDate.Format("2006-01-02"),
		Status:     slot.Status,
		SwapPairID: slot.SwapPairID,
	}

	dutyType, err := s.repo.DutyType.GetByID(ctx, slot.DutyTypeID)
	if err != nil {
		return push, err
	}
	push.DutyTypeName = dutyType.Name

	unit, err := s.repo.Unit.GetByID(ctx, dutyType.UnitID)
	if err != nil {
		return push, err
	}
	push.UnitCode = unit.UnitCode

	if slot.PersonnelID != nil {
		p, err := s.repo.Personnel.GetByID(ctx, *slot.PersonnelID)
		if err != nil {
			return push, err
		}
		push.ServiceNumber = p.ServiceNumber
	}
	if slot.SwappedFromPersonnelID != nil {
		p, err := s.repo.Personnel.GetByID(ctx, *slot.SwappedFromPersonnelID)
		if err != nil {
			return push, err
		}
		push.SwappedFromServiceNumber = p.ServiceNumber
	}
	return push, nil
}
