package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SemperAdmin/DutySync-sub000/internal/dto"
	"github.com/SemperAdmin/DutySync-sub000/internal/service"
	"github.com/SemperAdmin/DutySync-sub000/pkg/response"
)

// UnitHandler unit tree endpoints.
type UnitHandler struct {
	unitSvc service.UnitService
}

// NewUnitHandler creates a UnitHandler.
func NewUnitHandler(unitSvc service.UnitService) *UnitHandler {
	return &UnitHandler{unitSvc: unitSvc}
}

// ListUnits returns the whole unit tree as a flat list.
// GET /api/v1/units
func (h *UnitHandler) ListUnits(c *gin.Context) {
	units, err := h.unitSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": units})
}

// GetUnit returns one unit.
// GET /api/v1/units/:id
func (h *UnitHandler) GetUnit(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "unit id required")
		return
	}

	unit, err := h.unitSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleUnitError(c, err)
		return
	}
	response.OK(c, unit)
}

// CreateUnit creates a node in the tree.
// POST /api/v1/units
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	unit, err := h.unitSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleUnitError(c, err)
		return
	}
	response.Created(c, unit)
}

// UpdateUnit renames a unit.
// PUT /api/v1/units/:id
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "unit id required")
		return
	}

	var req dto.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	unit, err := h.unitSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleUnitError(c, err)
		return
	}
	response.OK(c, unit)
}

// DeleteUnit removes a leaf unit with no members.
// DELETE /api/v1/units/:id
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "unit id required")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.unitSvc.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleUnitError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *UnitHandler) handleUnitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnitNotFound):
		response.NotFound(c, 11001, "unit not found")
	case errors.Is(err, service.ErrUnitCodeExists):
		response.Conflict(c, 11002, "unit code already exists")
	case errors.Is(err, service.ErrUnitParentNotFound):
		response.BadRequest(c, 11003, "parent unit not found")
	case errors.Is(err, service.ErrUnitLevelInvalid):
		response.BadRequest(c, 11004, "hierarchy level must sit below the parent's")
	case errors.Is(err, service.ErrUnitHasChildren):
		response.BadRequest(c, 11005, "unit still has child units")
	case errors.Is(err, service.ErrUnitHasMembers):
		response.BadRequest(c, 11006, "unit still has assigned personnel")
	default:
		response.InternalError(c)
	}
}
