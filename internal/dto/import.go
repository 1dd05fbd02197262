package dto

// UnitImportRecord is one already-validated unit row from the import
// collaborator. Parents are referenced by code because local ids are not
// stable across systems.
type UnitImportRecord struct {
	UnitCode       string `json:"unit_code" binding:"required,max=50"`
	Name           string `json:"name" binding:"required,max=100"`
	HierarchyLevel string `json:"hierarchy_level" binding:"required,oneof=unit company section work_section"`
	ParentCode     string `json:"parent_code,omitempty"`
}

// ImportUnitsRequest merges a batch of unit records by unit code.
type ImportUnitsRequest struct {
	Units []UnitImportRecord `json:"units" binding:"required,dive"`
}

// PersonnelImportRecord is one already-validated personnel row.
type PersonnelImportRecord struct {
	ServiceNumber string `json:"service_number" binding:"required,max=20"`
	Name          string `json:"name" binding:"required,max=100"`
	Rank          string `json:"rank,omitempty" binding:"max=20"`
	UnitCode      string `json:"unit_code" binding:"required,max=50"`
}

// ImportPersonnelRequest merges a batch of personnel records by service number.
type ImportPersonnelRequest struct {
	Personnel []PersonnelImportRecord `json:"personnel" binding:"required,dive"`
}

// ImportResult reports merge outcomes. Skipped rows carry a diagnostic each;
// a referential gap never fails the surrounding batch.
type ImportResult struct {
	Created     int      `json:"created"`
	Updated     int      `json:"updated"`
	Skipped     int      `json:"skipped"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}
