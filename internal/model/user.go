package model

// User roles.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

// User is a login account — maps to users. Optionally linked to a Personnel
// row; managers approve swaps on behalf of the unit they manage.
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string  `gorm:"type:varchar(50);not null;uniqueIndex"          json:"username"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'member'"     json:"role"`
	PersonnelID  *string `gorm:"type:uuid"                                      json:"personnel_id,omitempty"`
	VersionedModel

	Personnel *Personnel `gorm:"foreignKey:PersonnelID;references:PersonnelID" json:"personnel,omitempty"`
}

// TableName sets the table name.
func (User) TableName() string { return "users" }
