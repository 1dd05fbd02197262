package model

import "time"

// DutyScoreEvent is an immutable ledger entry — maps to duty_score_events.
// The sum of a person's events is the authoritative duty score;
// Personnel.CurrentDutyScore is only a cached aggregate.
type DutyScoreEvent struct {
	EventID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	PersonnelID string    `gorm:"type:uuid;not null;index"                       json:"personnel_id"`
	DutySlotID  string    `gorm:"type:uuid;not null"                             json:"duty_slot_id"`
	DutyDate    time.Time `gorm:"type:date;not null"                             json:"duty_date"`
	Points      float64   `gorm:"not null"                                       json:"points"`
	RosterYear  int       `gorm:"not null"                                       json:"roster_year"`
	RosterMonth int       `gorm:"not null"                                       json:"roster_month"`
	UnitID      string    `gorm:"type:uuid;not null"                             json:"unit_id"`
	ApprovedBy  string    `gorm:"type:uuid;not null"                             json:"approved_by"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName sets the table name.
func (DutyScoreEvent) TableName() string { return "duty_score_events" }
