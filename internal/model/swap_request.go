package model

// Swap request statuses. Both rows of a pair always share the same terminal
// status: either both approved or both rejected.
const (
	SwapStatusPending  = "pending"
	SwapStatusApproved = "approved"
	SwapStatusRejected = "rejected"
)

// DutyChangeRequest is one side of a duty swap — maps to duty_change_requests.
// Requests are created in pairs sharing SwapPairID, one row per participant,
// each holding its own giving/receiving slot references and approval chain.
type DutyChangeRequest struct {
	RequestID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	SwapPairID      string  `gorm:"type:uuid;not null;index"                       json:"swap_pair_id"`
	PersonnelID     string  `gorm:"type:uuid;not null"                             json:"personnel_id"`
	GivingSlotID    string  `gorm:"type:uuid;not null"                             json:"giving_slot_id"`
	ReceivingSlotID string  `gorm:"type:uuid;not null"                             json:"receiving_slot_id"`
	RequesterID     string  `gorm:"type:uuid;not null"                             json:"requester_id"`
	PartnerAccepted bool    `gorm:"not null;default:false"                         json:"partner_accepted"`
	Status          string  `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | approved | rejected
	Reason          string  `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	RejectReason    string  `gorm:"type:varchar(500)"                              json:"reject_reason,omitempty"`
	VersionedModel

	Personnel *Personnel     `gorm:"foreignKey:PersonnelID;references:PersonnelID" json:"personnel,omitempty"`
	Approvals []SwapApproval `gorm:"foreignKey:RequestID;references:RequestID"     json:"approvals,omitempty"`
}

// TableName sets the table name.
func (DutyChangeRequest) TableName() string { return "duty_change_requests" }
