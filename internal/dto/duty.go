package dto

// CreateDutyTypeRequest defines a duty type plus its scoring record.
type CreateDutyTypeRequest struct {
	UnitID            string   `json:"unit_id" binding:"required,uuid"`
	Name              string   `json:"name" binding:"required,max=100"`
	BaseWeight        *float64 `json:"base_weight,omitempty"`
	WeekendMultiplier *float64 `json:"weekend_multiplier,omitempty"`
	HolidayMultiplier *float64 `json:"holiday_multiplier,omitempty"`
}

// DutyTypeResponse is the outward duty type view.
type DutyTypeResponse struct {
	DutyTypeID        string  `json:"duty_type_id"`
	UnitID            string  `json:"unit_id"`
	Name              string  `json:"name"`
	IsActive          bool    `json:"is_active"`
	BaseWeight        float64 `json:"base_weight"`
	WeekendMultiplier float64 `json:"weekend_multiplier"`
	HolidayMultiplier float64 `json:"holiday_multiplier"`
}

// UpdateDutyValueRequest replaces a duty type's scoring record. Changes take
// effect on future roster approvals only.
type UpdateDutyValueRequest struct {
	BaseWeight        float64 `json:"base_weight" binding:"required,gt=0"`
	WeekendMultiplier float64 `json:"weekend_multiplier" binding:"required,gt=0"`
	HolidayMultiplier float64 `json:"holiday_multiplier" binding:"required,gt=0"`
}

// CreateDutySlotRequest assigns one date of one duty type.
type CreateDutySlotRequest struct {
	DutyDate    string  `json:"duty_date" binding:"required"` // YYYY-MM-DD
	DutyTypeID  string  `json:"duty_type_id" binding:"required,uuid"`
	PersonnelID *string `json:"personnel_id,omitempty" binding:"omitempty,uuid"`
}

// UpdateDutySlotRequest reassigns or clears a slot.
type UpdateDutySlotRequest struct {
	PersonnelID *string `json:"personnel_id,omitempty" binding:"omitempty,uuid"`
}

// DutySlotResponse is the enriched slot view (slot + duty type + person).
type DutySlotResponse struct {
	DutySlotID             string  `json:"duty_slot_id"`
	DutyDate               string  `json:"duty_date"`
	DutyTypeID             string  `json:"duty_type_id"`
	DutyTypeName           string  `json:"duty_type_name,omitempty"`
	PersonnelID            *string `json:"personnel_id,omitempty"`
	PersonnelName          string  `json:"personnel_name,omitempty"`
	Status                 string  `json:"status"`
	SwappedFromPersonnelID *string `json:"swapped_from_personnel_id,omitempty"`
	SwapPairID             *string `json:"swap_pair_id,omitempty"`
}

// CreateHolidayRequest registers a recognized holiday.
type CreateHolidayRequest struct {
	HolidayDate string `json:"holiday_date" binding:"required"` // YYYY-MM-DD
	Name        string `json:"name" binding:"required,max=100"`
}
