// Package auth implements registration, credential verification with
// brute-force protection, and bearer-token issuance and validation.
package auth

// RegisterRequest is the registration payload. Password strength is
// enforced by the password_strength validator rule before the request
// reaches the service.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80" example:"newuser"`
	Email    string `json:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" validate:"required,min=8,password_strength" example:"Str0ng!pass"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"newuser"`
	Password string `json:"password" validate:"required" example:"Str0ng!pass"`
}

// TokenResponse is returned on successful login. The token is an opaque
// signed bearer string; the server keeps no copy, so revocation before
// expiry is not possible.
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
	User        *User  `json:"user"`
}
