package model

import "time"

// Holiday is a recognized holiday date — maps to holidays.
// Duties on a holiday score with the holiday multiplier, which takes
// precedence over the weekend multiplier.
type Holiday struct {
	HolidayID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"holiday_id"`
	HolidayDate time.Time `gorm:"type:date;not null;uniqueIndex"                 json:"holiday_date"`
	Name        string    `gorm:"type:varchar(100);not null"                     json:"name"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName sets the table name.
func (Holiday) TableName() string { return "holidays" }
