package dto

// LoginRequest authenticates an account.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// RegisterRequest creates an account, optionally linked to a personnel row.
type RegisterRequest struct {
	Username    string  `json:"username" binding:"required,max=50"`
	Password    string  `json:"password" binding:"required,min=8,max=72"`
	Role        string  `json:"role" binding:"required,oneof=admin manager member"`
	PersonnelID *string `json:"personnel_id,omitempty" binding:"omitempty,uuid"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenPairResponse carries both tokens.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserResponse is the outward account view.
type UserResponse struct {
	UserID      string  `json:"user_id"`
	Username    string  `json:"username"`
	Role        string  `json:"role"`
	PersonnelID *string `json:"personnel_id,omitempty"`
}
