package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SemperAdmin/DutySync-sub000/internal/dto"
	"github.com/SemperAdmin/DutySync-sub000/internal/service"
	"github.com/SemperAdmin/DutySync-sub000/pkg/response"
)

// SwapHandler duty swap workflow endpoints.
type SwapHandler struct {
	swapSvc service.SwapService
}

// NewSwapHandler creates a SwapHandler.
func NewSwapHandler(swapSvc service.SwapService) *SwapHandler {
	return &SwapHandler{swapSvc: swapSvc}
}

// CreateSwap proposes a two-sided exchange. The caller must be the initiator.
// POST /api/v1/swaps
func (h *SwapHandler) CreateSwap(c *gin.Context) {
	var req dto.CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	personnelID, ok := MustGetPersonnelID(c)
	if !ok {
		return
	}
	if req.InitiatorPersonnelID != personnelID {
		response.Forbidden(c, 10003, "swaps are initiated on one's own behalf")
		return
	}

	pair, err := h.swapSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.Created(c, pair)
}

// GetSwap returns the full pair view.
// GET /api/v1/swaps/:pair_id
func (h *SwapHandler) GetSwap(c *gin.Context) {
	pairID := c.Param("pair_id")
	if pairID == "" {
		response.BadRequest(c, 10001, "swap pair id required")
		return
	}

	pair, err := h.swapSvc.GetPair(c.Request.Context(), pairID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.OK(c, pair)
}

// ListPendingSwaps returns every pending pair.
// GET /api/v1/swaps
func (h *SwapHandler) ListPendingSwaps(c *gin.Context) {
	pairs, err := h.swapSvc.ListPending(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": pairs})
}

// AcceptSwap records the partner's acceptance.
// POST /api/v1/swaps/:pair_id/accept
func (h *SwapHandler) AcceptSwap(c *gin.Context) {
	pairID := c.Param("pair_id")
	if pairID == "" {
		response.BadRequest(c, 10001, "swap pair id required")
		return
	}

	personnelID, ok := MustGetPersonnelID(c)
	if !ok {
		return
	}

	pair, err := h.swapSvc.Accept(c.Request.Context(), pairID, personnelID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.OK(c, pair)
}

// ApproveStep approves one pending chain step.
// POST /api/v1/swaps/approvals/:approval_id
func (h *SwapHandler) ApproveStep(c *gin.Context) {
	approvalID := c.Param("approval_id")
	if approvalID == "" {
		response.BadRequest(c, 10001, "approval id required")
		return
	}

	var req dto.ApproveStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	pair, err := h.swapSvc.ApproveStep(c.Request.Context(), approvalID, userID, req.Comment)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.OK(c, pair)
}

// RejectSwap rejects both rows of the pair.
// POST /api/v1/swaps/:pair_id/reject
func (h *SwapHandler) RejectSwap(c *gin.Context) {
	pairID := c.Param("pair_id")
	if pairID == "" {
		response.BadRequest(c, 10001, "swap pair id required")
		return
	}

	var req dto.RejectSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	pair, err := h.swapSvc.Reject(c.Request.Context(), pairID, req.Reason, userID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.OK(c, pair)
}

// DeleteSwap removes the pair and all its records.
// DELETE /api/v1/swaps/:pair_id
func (h *SwapHandler) DeleteSwap(c *gin.Context) {
	pairID := c.Param("pair_id")
	if pairID == "" {
		response.BadRequest(c, 10001, "swap pair id required")
		return
	}

	if err := h.swapSvc.Delete(c.Request.Context(), pairID); err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.OK(c, nil)
}

// RecommendSwap attaches a non-binding recommendation.
// POST /api/v1/swaps/:pair_id/recommend
func (h *SwapHandler) RecommendSwap(c *gin.Context) {
	pairID := c.Param("pair_id")
	if pairID == "" {
		response.BadRequest(c, 10001, "swap pair id required")
		return
	}

	var req dto.RecommendSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	personnelID, ok := MustGetPersonnelID(c)
	if !ok {
		return
	}

	if err := h.swapSvc.Recommend(c.Request.Context(), pairID, personnelID, &req); err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.Created(c, nil)
}

func (h *SwapHandler) handleSwapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSwapPairNotFound):
		response.NotFound(c, 14001, "swap pair not found")
	case errors.Is(err, service.ErrSwapSlotNotFound):
		response.BadRequest(c, 14002, "duty slot not found")
	case errors.Is(err, service.ErrSlotNotHeldByPersonnel):
		response.BadRequest(c, 14003, "slot is not assigned to that person")
	case errors.Is(err, service.ErrSlotNotSwappable):
		response.BadRequest(c, 14004, "slot is not in a swappable status")
	case errors.Is(err, service.ErrSlotInActiveSwap):
		response.Conflict(c, 14005, "slot is already part of an in-flight swap")
	case errors.Is(err, service.ErrSwapWithSelf):
		response.BadRequest(c, 14006, "both sides must be different people")
	case errors.Is(err, service.ErrSwapSameSlot):
		response.BadRequest(c, 14007, "both sides must reference different slots")
	case errors.Is(err, service.ErrSwapNotPending):
		response.Conflict(c, 14008, "swap pair is not pending")
	case errors.Is(err, service.ErrNotSwapPartner):
		response.Forbidden(c, 14009, "only the non-initiating partner may accept")
	case errors.Is(err, service.ErrSwapAlreadyAccepted):
		response.Conflict(c, 14010, "swap has already been accepted")
	case errors.Is(err, service.ErrApprovalNotFound):
		response.NotFound(c, 14011, "approval step not found")
	case errors.Is(err, service.ErrApprovalNotPending):
		response.Conflict(c, 14012, "approval step is not pending")
	case errors.Is(err, service.ErrPartnerNotAccepted):
		response.Conflict(c, 14013, "partner has not accepted the swap yet")
	case errors.Is(err, service.ErrSwapSlotMissing):
		response.Conflict(c, 14014, "a referenced slot no longer exists; swap aborted")
	case errors.Is(err, service.ErrRecommenderIsApprover):
		response.BadRequest(c, 14015, "chain members must approve, not recommend")
	default:
		response.InternalError(c)
	}
}
