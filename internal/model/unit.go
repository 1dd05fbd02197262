package model

// Hierarchy levels, from the top of the tree down.
const (
	HierarchyLevelUnit        = "unit"
	HierarchyLevelCompany     = "company"
	HierarchyLevelSection     = "section"
	HierarchyLevelWorkSection = "work_section"
)

// Unit is a node in the organizational tree — maps to units.
// Invariants: no cycles, hierarchy level strictly decreases with depth,
// deletion is forbidden while children exist.
type Unit struct {
	UnitID         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"unit_id"`
	UnitCode       string  `gorm:"type:varchar(50);not null;uniqueIndex"          json:"unit_code"`
	Name           string  `gorm:"type:varchar(100);not null"                     json:"name"`
	HierarchyLevel string  `gorm:"type:varchar(20);not null"                      json:"hierarchy_level"` // unit | company | section | work_section
	ParentID       *string `gorm:"type:uuid"                                      json:"parent_id,omitempty"`
	VersionedModel

	Parent *Unit `gorm:"foreignKey:ParentID;references:UnitID" json:"parent,omitempty"`
}

// TableName sets the table name.
func (Unit) TableName() string { return "units" }

// LevelRank orders hierarchy levels: lower rank means closer to the root.
func LevelRank(level string) int {
	switch level {
	case HierarchyLevelUnit:
		return 0
	case HierarchyLevelCompany:
		return 1
	case HierarchyLevelSection:
		return 2
	case HierarchyLevelWorkSection:
		return 3
	default:
		return -1
	}
}
