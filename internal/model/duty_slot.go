package model

import "time"

// Duty slot statuses.
const (
	SlotStatusScheduled = "scheduled"
	SlotStatusApproved  = "approved"
	SlotStatusCompleted = "completed"
	SlotStatusSwapped   = "swapped"
)

// DutySlot is one date of one duty type held by at most one person — maps to
// duty_slots. A slot may be referenced by at most one in-flight swap pair.
type DutySlot struct {
	DutySlotID             string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"duty_slot_id"`
	DutyDate               time.Time `gorm:"type:date;not null"                             json:"duty_date"`
	DutyTypeID             string    `gorm:"type:uuid;not null"                             json:"duty_type_id"`
	PersonnelID            *string   `gorm:"type:uuid"                                      json:"personnel_id,omitempty"`
	Status                 string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"` // scheduled | approved | completed | swapped
	SwappedFromPersonnelID *string   `gorm:"type:uuid"                                      json:"swapped_from_personnel_id,omitempty"`
	SwapPairID             *string   `gorm:"type:uuid"                                      json:"swap_pair_id,omitempty"`
	VersionedModel

	DutyType  *DutyType  `gorm:"foreignKey:DutyTypeID;references:DutyTypeID"    json:"duty_type,omitempty"`
	Personnel *Personnel `gorm:"foreignKey:PersonnelID;references:PersonnelID"  json:"personnel,omitempty"`
}

// TableName sets the table name.
func (DutySlot) TableName() string { return "duty_slots" }
