package dto

// LoginRequest defines the credentials for login. OrganizationID is
// optional: when present, the issued token carries the caller's
// membership and role for that organization.
type LoginRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	OrganizationID string `json:"organizationID"`
}

// LoginResponse carries the signed access token.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresIn   int64        `json:"expiresIn"` // Seconds
	User        UserResponse `json:"user"`
}
