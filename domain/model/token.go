package model

import "time"

// OAuthToken is the single active Cafe24 credential for a mall.
type OAuthToken struct {
	MallID                string     `json:"mall_id"`
	AccessToken           string     `json:"access_token"`
	RefreshToken          string     `json:"refresh_token"`
	ExpiresAt             time.Time  `json:"expires_at"`
	RefreshTokenExpiresAt *time.Time `json:"refresh_token_expires_at,omitempty"`
	Scopes                []string   `json:"scopes"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// ExpiresWithin reports whether the access token expires less than d after now.
func (t *OAuthToken) ExpiresWithin(now time.Time, d time.Duration) bool {
	return t.ExpiresAt.Sub(now) < d
}
