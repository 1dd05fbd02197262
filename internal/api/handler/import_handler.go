package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SemperAdmin/DutySync-sub000/internal/dto"
	"github.com/SemperAdmin/DutySync-sub000/internal/service"
	"github.com/SemperAdmin/DutySync-sub000/pkg/response"
)

// ImportHandler batch merge endpoints for the import collaborator.
type ImportHandler struct {
	importSvc service.ImportService
}

// NewImportHandler creates an ImportHandler.
func NewImportHandler(importSvc service.ImportService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc}
}

// ImportUnits merges a batch of unit records by unit code.
// POST /api/v1/import/units
func (h *ImportHandler) ImportUnits(c *gin.Context) {
	var req dto.ImportUnitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "validation failed")
		return
	}

	result, err := h.importSvc.ImportUnits(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ImportPersonnel merges a batch of personnel records by service number.
// POST /api/v1/import/personnel
func (h *ImportHandler) ImportPersonnel(c *gin.Context) {
	var req dto.ImportPersonnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "validation failed")
		return
	}

	result, err := h.importSvc.ImportPersonnel(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
