package dto

// CreateUnitRequest creates a node in the unit tree.
type CreateUnitRequest struct {
	UnitCode       string  `json:"unit_code" binding:"required,max=50"`
	Name           string  `json:"name" binding:"required,max=100"`
	HierarchyLevel string  `json:"hierarchy_level" binding:"required,oneof=unit company section work_section"`
	ParentID       *string `json:"parent_id,omitempty"`
}

// UpdateUnitRequest renames a unit.
type UpdateUnitRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// UnitResponse is the outward unit view.
type UnitResponse struct {
	UnitID         string  `json:"unit_id"`
	UnitCode       string  `json:"unit_code"`
	Name           string  `json:"name"`
	HierarchyLevel string  `json:"hierarchy_level"`
	ParentID       *string `json:"parent_id,omitempty"`
}
