package dto

// CreateSwapRequest proposes a two-sided duty exchange. The initiator's side
// is auto-accepted; the partner must accept before approval can start.
type CreateSwapRequest struct {
	InitiatorPersonnelID string `json:"initiator_personnel_id" binding:"required,uuid"`
	InitiatorSlotID      string `json:"initiator_slot_id" binding:"required,uuid"`
	PartnerPersonnelID   string `json:"partner_personnel_id" binding:"required,uuid"`
	PartnerSlotID        string `json:"partner_slot_id" binding:"required,uuid"`
	Reason               string `json:"reason" binding:"max=500"`
}

// ApproveStepRequest approves one pending approval step.
type ApproveStepRequest struct {
	Comment string `json:"comment" binding:"max=500"`
}

// RejectSwapRequest rejects the whole pair with a shared reason.
type RejectSwapRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// RecommendSwapRequest attaches a non-binding recommendation.
type RecommendSwapRequest struct {
	Stance  string `json:"stance" binding:"required,oneof=recommend not_recommend"`
	Comment string `json:"comment" binding:"max=500"`
}

// SwapApprovalResponse is one step in a side's approval chain.
type SwapApprovalResponse struct {
	ApprovalID    string  `json:"approval_id"`
	ApprovalOrder int     `json:"approval_order"`
	ApproverType  string  `json:"approver_type"`
	UnitID        *string `json:"unit_id,omitempty"`
	IsApprover    bool    `json:"is_approver"`
	Status        string  `json:"status"`
	ApproverID    *string `json:"approver_id,omitempty"`
	Comment       string  `json:"comment,omitempty"`
}

// SwapSideResponse is one row of the pair with its approval chain.
type SwapSideResponse struct {
	RequestID       string                 `json:"request_id"`
	PersonnelID     string                 `json:"personnel_id"`
	PersonnelName   string                 `json:"personnel_name,omitempty"`
	GivingSlotID    string                 `json:"giving_slot_id"`
	ReceivingSlotID string                 `json:"receiving_slot_id"`
	PartnerAccepted bool                   `json:"partner_accepted"`
	Status          string                 `json:"status"`
	RejectReason    string                 `json:"reject_reason,omitempty"`
	Approvals       []SwapApprovalResponse `json:"approvals"`
}

// SwapRecommendationResponse is one non-binding opinion on the pair.
type SwapRecommendationResponse struct {
	RecommendationID string `json:"recommendation_id"`
	ManagerID        string `json:"manager_id"`
	Stance           string `json:"stance"`
	Comment          string `json:"comment,omitempty"`
}

// SwapPairResponse is the full enriched view of a swap pair.
type SwapPairResponse struct {
	SwapPairID      string                       `json:"swap_pair_id"`
	Status          string                       `json:"status"`
	Reason          string                       `json:"reason,omitempty"`
	Sides           []SwapSideResponse           `json:"sides"`
	Recommendations []SwapRecommendationResponse `json:"recommendations,omitempty"`
}
