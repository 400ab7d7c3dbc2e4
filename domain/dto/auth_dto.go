package dto

import "time"

// TokenStatus is the /auth/status response. Token values are never exposed.
type TokenStatus struct {
	Authenticated         bool       `json:"authenticated"`
	MallID                string     `json:"mall_id,omitempty"`
	ExpiresAt             *time.Time `json:"expires_at,omitempty"`
	RefreshTokenExpiresAt *time.Time `json:"refresh_token_expires_at,omitempty"`
	Scopes                []string   `json:"scopes,omitempty"`
	Message               string     `json:"message,omitempty"`
}

// AuthResult is returned by the OAuth callback.
type AuthResult struct {
	MallID     string    `json:"mall_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	Scopes     []string  `json:"scopes"`
	AdminToken string    `json:"admin_token"`
}
