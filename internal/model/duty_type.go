package model

import "time"

// Default multipliers applied when a DutyValue record is absent.
const (
	DefaultBaseWeight         = 1.0
	DefaultWeekendMultiplier  = 1.5
	DefaultHolidayMultiplier  = 2.0
)

// DutyType is a kind of duty owned by a unit — maps to duty_types.
type DutyType struct {
	DutyTypeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"duty_type_id"`
	UnitID     string `gorm:"type:uuid;not null"                             json:"unit_id"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	IsActive   bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	Unit  *Unit      `gorm:"foreignKey:UnitID;references:UnitID"             json:"unit,omitempty"`
	Value *DutyValue `gorm:"foreignKey:DutyTypeID;references:DutyTypeID"     json:"value,omitempty"`
}

// TableName sets the table name.
func (DutyType) TableName() string { return "duty_types" }

// DutyValue is the one-to-one scoring record for a duty type — maps to duty_values.
type DutyValue struct {
	DutyValueID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"duty_value_id"`
	DutyTypeID        string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"duty_type_id"`
	BaseWeight        float64   `gorm:"not null;default:1"                             json:"base_weight"`
	WeekendMultiplier float64   `gorm:"not null;default:1.5"                           json:"weekend_multiplier"`
	HolidayMultiplier float64   `gorm:"not null;default:2"                             json:"holiday_multiplier"`
	CreatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName sets the table name.
func (DutyValue) TableName() string { return "duty_values" }
