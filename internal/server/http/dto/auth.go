package dto

// LoginRequest carries the admin password.
type LoginRequest struct {
	Password string `json:"password"`
}

// TokenResponse returns a session token after successful login.
type TokenResponse struct {
	Token string `json:"token"`
}
