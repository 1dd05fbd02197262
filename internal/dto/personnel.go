package dto

// CreatePersonnelRequest enrolls a service member.
type CreatePersonnelRequest struct {
	ServiceNumber string `json:"service_number" binding:"required,max=20"`
	Name          string `json:"name" binding:"required,max=100"`
	Rank          string `json:"rank" binding:"max=20"`
	UnitID        string `json:"unit_id" binding:"required,uuid"`
}

// UpdatePersonnelRequest updates mutable personnel fields.
type UpdatePersonnelRequest struct {
	Name   string  `json:"name" binding:"required,max=100"`
	Rank   string  `json:"rank" binding:"max=20"`
	UnitID *string `json:"unit_id,omitempty" binding:"omitempty,uuid"`
}

// PersonnelResponse is the outward personnel view.
type PersonnelResponse struct {
	PersonnelID      string  `json:"personnel_id"`
	ServiceNumber    string  `json:"service_number"`
	Name             string  `json:"name"`
	Rank             string  `json:"rank,omitempty"`
	UnitID           string  `json:"unit_id"`
	UnitName         string  `json:"unit_name,omitempty"`
	CurrentDutyScore float64 `json:"current_duty_score"`
}

// PersonnelScoreResponse pairs the cached total with the ledger sum so
// callers can spot drift.
type PersonnelScoreResponse struct {
	PersonnelID string               `json:"personnel_id"`
	CachedScore float64              `json:"cached_score"`
	LedgerScore float64              `json:"ledger_score"`
	Events      []ScoreEventResponse `json:"events"`
}

// ScoreEventResponse is one immutable ledger entry.
type ScoreEventResponse struct {
	EventID     string  `json:"event_id"`
	DutySlotID  string  `json:"duty_slot_id"`
	DutyDate    string  `json:"duty_date"`
	Points      float64 `json:"points"`
	RosterYear  int     `json:"roster_year"`
	RosterMonth int     `json:"roster_month"`
}
