package repository

import (
	"context"

	"review-enhancer/domain/model"
)

// IOAuthToken stores one active token per mall. GetToken returns (nil, nil) when absent.
type IOAuthToken interface {
	GetToken(ctx context.Context, mallID string) (*model.OAuthToken, error)
	// SaveToken replaces the whole record, as after an authorization code exchange.
	SaveToken(ctx context.Context, token *model.OAuthToken) error
	// UpdateToken rewrites credentials and expiry, keeping created_at.
	UpdateToken(ctx context.Context, token *model.OAuthToken) error
}
