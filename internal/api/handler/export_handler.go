package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SemperAdmin/DutySync-sub000/internal/service"
	"github.com/SemperAdmin/DutySync-sub000/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler roster spreadsheet and calendar feed endpoints.
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// ExportRoster downloads one unit's month as an xlsx grid.
// GET /api/v1/export/roster?unit_id=&year=&month=
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	unitID := c.Query("unit_id")
	if unitID == "" {
		response.BadRequest(c, 10001, "unit_id query parameter required")
		return
	}
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportRoster(c.Request.Context(), unitID, year, month)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// MyCalendar downloads the caller's duties as an iCalendar feed.
// GET /api/v1/export/calendar?from=&to=
func (h *ExportHandler) MyCalendar(c *gin.Context) {
	personnelID, ok := MustGetPersonnelID(c)
	if !ok {
		return
	}

	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	feed, err := h.calendarSvc.PersonnelFeed(c.Request.Context(), personnelID, from, to)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="duties.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnitNotFound):
		response.NotFound(c, 17001, "unit not found")
	case errors.Is(err, service.ErrPersonnelNotFound):
		response.NotFound(c, 17002, "personnel not found")
	default:
		response.InternalError(c)
	}
}
