package model

import (
	"time"

	"gorm.io/datatypes"
)

// SyncFailure records a remote push that exhausted its retries — maps to
// sync_failures. Kept for observability; local state is never rolled back.
type SyncFailure struct {
	FailureID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"failure_id"`
	Kind      string         `gorm:"type:varchar(50);not null"                      json:"kind"`
	Payload   datatypes.JSON `gorm:"type:jsonb"                                     json:"payload,omitempty"`
	Attempts  int            `gorm:"not null"                                       json:"attempts"`
	LastError string         `gorm:"type:text"                                      json:"last_error,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName sets the table name.
func (SyncFailure) TableName() string { return "sync_failures" }
