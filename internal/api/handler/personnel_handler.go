package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SemperAdmin/DutySync-sub000/internal/dto"
	"github.com/SemperAdmin/DutySync-sub000/internal/service"
	"github.com/SemperAdmin/DutySync-sub000/pkg/response"
)

// PersonnelHandler personnel endpoints.
type PersonnelHandler struct {
	personnelSvc service.PersonnelService
}

// NewPersonnelHandler creates a PersonnelHandler.
func NewPersonnelHandler(personnelSvc service.PersonnelService) *PersonnelHandler {
	return &PersonnelHandler{personnelSvc: personnelSvc}
}

// ListPersonnel returns all personnel, optionally scoped to one unit.
// GET /api/v1/personnel?unit_id=
func (h *PersonnelHandler) ListPersonnel(c *gin.Context) {
	unitID := c.Query("unit_id")

	if unitID != "" {
		list, err := h.personnelSvc.ListByUnit(c.Request.Context(), unitID)
		if err != nil {
			response.InternalError(c)
			return
		}
		response.OK(c, gin.H{"list": list})
		return
	}

	list, err := h.personnelSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetPersonnel returns one person.
// GET /api/v1/personnel/:id
func (h *PersonnelHandler) GetPersonnel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "personnel id required")
		return
	}

	p, err := h.personnelSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handlePersonnelError(c, err)
		return
	}
	response.OK(c, p)
}

// CreatePersonnel enrolls a service member.
// POST /api/v1/personnel
func (h *PersonnelHandler) CreatePersonnel(c *gin.Context) {
	var req dto.CreatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	p, err := h.personnelSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handlePersonnelError(c, err)
		return
	}
	response.Created(c, p)
}

// UpdatePersonnel updates a person's mutable fields.
// PUT /api/v1/personnel/:id
func (h *PersonnelHandler) UpdatePersonnel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "personnel id required")
		return
	}

	var req dto.UpdatePersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	p, err := h.personnelSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handlePersonnelError(c, err)
		return
	}
	response.OK(c, p)
}

// DeletePersonnel removes a person.
// DELETE /api/v1/personnel/:id
func (h *PersonnelHandler) DeletePersonnel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "personnel id required")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.personnelSvc.Delete(c.Request.Context(), id, userID); err != nil {
		h.handlePersonnelError(c, err)
		return
	}
	response.OK(c, nil)
}

// GetScore returns the cached total, the ledger sum and every ledger entry.
// GET /api/v1/personnel/:id/score
func (h *PersonnelHandler) GetScore(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "personnel id required")
		return
	}

	score, err := h.personnelSvc.Score(c.Request.Context(), id)
	if err != nil {
		h.handlePersonnelError(c, err)
		return
	}
	response.OK(c, score)
}

func (h *PersonnelHandler) handlePersonnelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPersonnelNotFound):
		response.NotFound(c, 12001, "personnel not found")
	case errors.Is(err, service.ErrServiceNumberExists):
		response.Conflict(c, 12002, "service number already exists")
	case errors.Is(err, service.ErrPersonnelUnitMissing):
		response.BadRequest(c, 12003, "assigned unit not found")
	default:
		response.InternalError(c)
	}
}
