package model

import "time"

// Approver types, from the most specific scope up.
const (
	ApproverWorkSectionManager = "work_section_manager"
	ApproverSectionManager     = "section_manager"
	ApproverCompanyManager     = "company_manager"
)

// Approval step statuses.
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// SwapApproval is one ordered step in a request's approval chain — maps to
// swap_approvals. IsApprover distinguishes the true decision gate from a
// level that can only recommend.
type SwapApproval struct {
	ApprovalID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"approval_id"`
	RequestID     string     `gorm:"type:uuid;not null;index"                       json:"request_id"`
	ApprovalOrder int        `gorm:"not null"                                       json:"approval_order"`
	ApproverType  string     `gorm:"type:varchar(30);not null"                      json:"approver_type"` // work_section_manager | section_manager | company_manager
	UnitID        *string    `gorm:"type:uuid"                                      json:"unit_id,omitempty"`
	IsApprover    bool       `gorm:"not null;default:false"                         json:"is_approver"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | approved | rejected
	ApproverID    *string    `gorm:"type:uuid"                                      json:"approver_id,omitempty"`
	Comment       string     `gorm:"type:varchar(500)"                              json:"comment,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName sets the table name.
func (SwapApproval) TableName() string { return "swap_approvals" }
