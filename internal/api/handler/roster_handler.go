package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SemperAdmin/DutySync-sub000/internal/dto"
	"github.com/SemperAdmin/DutySync-sub000/internal/service"
	"github.com/SemperAdmin/DutySync-sub000/pkg/response"
)

// RosterHandler roster approval endpoints.
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler creates a RosterHandler.
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// ApproveRoster locks one unit's month and scores its roster.
// POST /api/v1/rosters/approve
func (h *RosterHandler) ApproveRoster(c *gin.Context) {
	var req dto.ApproveRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.rosterSvc.Approve(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, result)
}

// UnapproveRoster removes a month's lock. Scores applied at approval time
// stay on the ledger.
// POST /api/v1/rosters/unapprove
func (h *RosterHandler) UnapproveRoster(c *gin.Context) {
	var req dto.ApproveRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.rosterSvc.Unapprove(c.Request.Context(), req.UnitID, req.Year, req.Month)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, result)
}

// GetRosterStatus reports whether a unit's month is locked.
// GET /api/v1/rosters/status?unit_id=&year=&month=
func (h *RosterHandler) GetRosterStatus(c *gin.Context) {
	unitID := c.Query("unit_id")
	if unitID == "" {
		response.BadRequest(c, 10001, "unit_id query parameter required")
		return
	}
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}

	approved, err := h.rosterSvc.IsApproved(c.Request.Context(), unitID, year, month)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, gin.H{"unit_id": unitID, "year": year, "month": month, "approved": approved})
}

// ListApprovedRosters returns every lock for one unit.
// GET /api/v1/rosters?unit_id=
func (h *RosterHandler) ListApprovedRosters(c *gin.Context) {
	unitID := c.Query("unit_id")
	if unitID == "" {
		response.BadRequest(c, 10001, "unit_id query parameter required")
		return
	}

	rosters, err := h.rosterSvc.ListApproved(c.Request.Context(), unitID)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, gin.H{"list": rosters})
}

func (h *RosterHandler) handleRosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRosterUnitNotFound):
		response.NotFound(c, 15001, "unit not found")
	case errors.Is(err, service.ErrRosterAlreadyApproved):
		response.Conflict(c, 15002, "roster is already approved for that month")
	case errors.Is(err, service.ErrRosterNotApproved):
		response.Conflict(c, 15003, "roster is not approved for that month")
	default:
		response.InternalError(c)
	}
}
