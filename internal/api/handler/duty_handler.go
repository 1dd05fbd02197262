package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SemperAdmin/DutySync-sub000/internal/dto"
	"github.com/SemperAdmin/DutySync-sub000/internal/service"
	"github.com/SemperAdmin/DutySync-sub000/pkg/response"
)

// DutyHandler duty type, duty slot and holiday endpoints.
type DutyHandler struct {
	dutySvc service.DutyService
}

// NewDutyHandler creates a DutyHandler.
func NewDutyHandler(dutySvc service.DutyService) *DutyHandler {
	return &DutyHandler{dutySvc: dutySvc}
}

// yearMonth parses the required year and month query parameters.
func yearMonth(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		response.BadRequest(c, 10001, "year query parameter required")
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		response.BadRequest(c, 10001, "month query parameter required")
		return 0, 0, false
	}
	return year, month, true
}

// ── duty types ──

// ListDutyTypes returns active duty types, optionally scoped to one unit.
// GET /api/v1/duty-types?unit_id=
func (h *DutyHandler) ListDutyTypes(c *gin.Context) {
	unitID := c.Query("unit_id")

	var (
		list []dto.DutyTypeResponse
		err  error
	)
	if unitID != "" {
		list, err = h.dutySvc.ListDutyTypesByUnit(c.Request.Context(), unitID)
	} else {
		list, err = h.dutySvc.ListDutyTypes(c.Request.Context())
	}
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CreateDutyType defines a duty type plus its scoring record.
// POST /api/v1/duty-types
func (h *DutyHandler) CreateDutyType(c *gin.Context) {
	var req dto.CreateDutyTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	dt, err := h.dutySvc.CreateDutyType(c.Request.Context(), &req)
	if err != nil {
		h.handleDutyError(c, err)
		return
	}
	response.Created(c, dt)
}

// UpdateDutyValue replaces a duty type's scoring record.
// PUT /api/v1/duty-types/:id/value
func (h *DutyHandler) UpdateDutyValue(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "duty type id required")
		return
	}

	var req dto.UpdateDutyValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	dt, err := h.dutySvc.UpdateDutyValue(c.Request.Context(), id,
		req.BaseWeight, req.WeekendMultiplier, req.HolidayMultiplier)
	if err != nil {
		h.handleDutyError(c, err)
		return
	}
	response.OK(c, dt)
}

// DeleteDutyType deactivates a duty type.
// DELETE /api/v1/duty-types/:id
func (h *DutyHandler) DeleteDutyType(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "duty type id required")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.dutySvc.DeleteDutyType(c.Request.Context(), id, userID); err != nil {
		h.handleDutyError(c, err)
		return
	}
	response.OK(c, nil)
}

// ── duty slots ──

// CreateSlot schedules one date of one duty type.
// POST /api/v1/duty-slots
func (h *DutyHandler) CreateSlot(c *gin.Context) {
	var req dto.CreateDutySlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	slot, err := h.dutySvc.CreateSlot(c.Request.Context(), &req)
	if err != nil {
		h.handleDutyError(c, err)
		return
	}
	response.Created(c, slot)
}

// GetSlot returns one enriched slot.
// GET /api/v1/duty-slots/:id
func (h *DutyHandler) GetSlot(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "slot id required")
		return
	}

	slot, err := h.dutySvc.GetSlot(c.Request.Context(), id)
	if err != nil {
		h.handleDutyError(c, err)
		return
	}
	response.OK(c, slot)
}

// ListSlots returns a unit's slots for one month.
// GET /api/v1/duty-slots?unit_id=&year=&month=
func (h *DutyHandler) ListSlots(c *gin.Context) {
	unitID := c.Query("unit_id")
	if unitID == "" {
		response.BadRequest(c, 10001, "unit_id query parameter required")
		return
	}
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}

	slots, err := h.dutySvc.ListSlotsByUnitMonth(c.Request.Context(), unitID, year, month)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": slots})
}

// ListMySlots returns the caller's own upcoming duties.
// GET /api/v1/duty-slots/my?from=&to=
func (h *DutyHandler) ListMySlots(c *gin.Context) {
	personnelID, ok := MustGetPersonnelID(c)
	if !ok {
		return
	}

	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	slots, err := h.dutySvc.ListSlotsByPersonnel(c.Request.Context(), personnelID, from, to)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": slots})
}

// UpdateSlot reassigns or clears a slot.
// PUT /api/v1/duty-slots/:id
func (h *DutyHandler) UpdateSlot(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "slot id required")
		return
	}

	var req dto.UpdateDutySlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	slot, err := h.dutySvc.UpdateSlot(c.Request.Context(), id, &req)
	if err != nil {
		h.handleDutyError(c, err)
		return
	}
	response.OK(c, slot)
}

// DeleteSlot removes a slot.
// DELETE /api/v1/duty-slots/:id
func (h *DutyHandler) DeleteSlot(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "slot id required")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.dutySvc.DeleteSlot(c.Request.Context(), id, userID); err != nil {
		h.handleDutyError(c, err)
		return
	}
	response.OK(c, nil)
}

// ── holidays ──

// ListHolidays returns the holiday calendar.
// GET /api/v1/holidays
func (h *DutyHandler) ListHolidays(c *gin.Context) {
	list, err := h.dutySvc.ListHolidays(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CreateHoliday registers a recognized holiday.
// POST /api/v1/holidays
func (h *DutyHandler) CreateHoliday(c *gin.Context) {
	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	holiday, err := h.dutySvc.CreateHoliday(c.Request.Context(), &req)
	if err != nil {
		h.handleDutyError(c, err)
		return
	}
	response.Created(c, holiday)
}

// DeleteHoliday removes a holiday.
// DELETE /api/v1/holidays/:id
func (h *DutyHandler) DeleteHoliday(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "holiday id required")
		return
	}

	if err := h.dutySvc.DeleteHoliday(c.Request.Context(), id); err != nil {
		h.handleDutyError(c, err)
		return
	}
	response.OK(c, nil)
}

// dateRange parses optional from/to query dates, defaulting to the next 90
// days.
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	from, to := now, now.AddDate(0, 3, 0)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(c, 10001, "from must be YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(c, 10001, "to must be YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	return from, to, true
}

func (h *DutyHandler) handleDutyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDutyTypeNotFound):
		response.NotFound(c, 13001, "duty type not found")
	case errors.Is(err, service.ErrDutyTypeNameExists):
		response.Conflict(c, 13002, "duty type name already exists in that unit")
	case errors.Is(err, service.ErrDutyTypeUnitGone):
		response.BadRequest(c, 13003, "owning unit not found")
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 13004, "duty slot not found")
	case errors.Is(err, service.ErrSlotPersonMissing):
		response.BadRequest(c, 13005, "assigned personnel not found")
	case errors.Is(err, service.ErrInvalidDutyDate):
		response.BadRequest(c, 13006, "date must be YYYY-MM-DD")
	case errors.Is(err, service.ErrMonthLocked):
		response.Conflict(c, 13007, "roster for that month is approved and locked")
	case errors.Is(err, service.ErrHolidayNotFound):
		response.NotFound(c, 13008, "holiday not found")
	case errors.Is(err, service.ErrSlotInActiveSwap):
		response.Conflict(c, 13009, "slot is referenced by an in-flight swap")
	default:
		response.InternalError(c)
	}
}
