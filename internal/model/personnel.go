package model

// Personnel is a service member — maps to personnel.
// CurrentDutyScore is a derived cache; the authoritative value is the sum of
// that person's DutyScoreEvent rows.
type Personnel struct {
	PersonnelID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"personnel_id"`
	ServiceNumber    string  `gorm:"type:varchar(20);not null;uniqueIndex"          json:"service_number"`
	Name             string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Rank             string  `gorm:"type:varchar(20)"                               json:"rank,omitempty"`
	UnitID           string  `gorm:"type:uuid;not null"                             json:"unit_id"`
	CurrentDutyScore float64 `gorm:"not null;default:0"                             json:"current_duty_score"`
	VersionedModel

	Unit *Unit `gorm:"foreignKey:UnitID;references:UnitID" json:"unit,omitempty"`
}

// TableName sets the table name.
func (Personnel) TableName() string { return "personnel" }
