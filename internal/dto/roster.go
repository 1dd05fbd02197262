package dto

// ApproveRosterRequest locks and scores one unit's month.
type ApproveRosterRequest struct {
	UnitID string `json:"unit_id" binding:"required,uuid"`
	Year   int    `json:"year" binding:"required,min=2000,max=2100"`
	Month  int    `json:"month" binding:"required,min=1,max=12"`
}

// ApproveRosterResponse summarizes one approval batch. Skipped counts are
// diagnostics for referential gaps, not errors.
type ApproveRosterResponse struct {
	RosterID               string  `json:"roster_id"`
	UnitID                 string  `json:"unit_id"`
	Year                   int     `json:"year"`
	Month                  int     `json:"month"`
	ScoredSlots            int     `json:"scored_slots"`
	TotalPoints            float64 `json:"total_points"`
	SkippedMissingDutyType int     `json:"skipped_missing_duty_type"`
	SkippedUnassigned      int     `json:"skipped_unassigned"`
}

// UnapproveRosterResponse summarizes a lock removal. Previously applied
// scores are deliberately untouched.
type UnapproveRosterResponse struct {
	UnitID        string `json:"unit_id"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	RevertedSlots int    `json:"reverted_slots"`
}
