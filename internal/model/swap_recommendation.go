package model

import "time"

// Recommendation stances.
const (
	StanceRecommend    = "recommend"
	StanceNotRecommend = "not_recommend"
)

// SwapRecommendation is a non-binding opinion on a swap pair from a manager
// outside the approval chain — maps to swap_recommendations. It never affects
// workflow state.
type SwapRecommendation struct {
	RecommendationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"recommendation_id"`
	SwapPairID       string    `gorm:"type:uuid;not null;index"                       json:"swap_pair_id"`
	ManagerID        string    `gorm:"type:uuid;not null"                             json:"manager_id"`
	Stance           string    `gorm:"type:varchar(20);not null"                      json:"stance"` // recommend | not_recommend
	Comment          string    `gorm:"type:varchar(500)"                              json:"comment,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName sets the table name.
func (SwapRecommendation) TableName() string { return "swap_recommendations" }
