package model

import "time"

// ApprovedRoster locks one (unit, year, month) against re-scoring — maps to
// approved_rosters. Creation is a one-time event; unapproval removes the lock
// but never reverses already-applied scores.
type ApprovedRoster struct {
	RosterID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"roster_id"`
	UnitID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_roster,priority:1" json:"unit_id"`
	Year       int       `gorm:"not null;uniqueIndex:uq_roster,priority:2"      json:"year"`
	Month      int       `gorm:"not null;uniqueIndex:uq_roster,priority:3"      json:"month"`
	ApprovedBy string    `gorm:"type:uuid;not null"                             json:"approved_by"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName sets the table name.
func (ApprovedRoster) TableName() string { return "approved_rosters" }
