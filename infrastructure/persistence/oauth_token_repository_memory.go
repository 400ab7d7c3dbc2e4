package persistence

import (
	"context"
	"fmt"
	"sync"

	"review-enhancer/domain/apperror"
	"review-enhancer/domain/model"
)

// OAuthTokenRepositoryMemory keeps tokens in process memory. Records are copied
// on the way in and out so readers never observe a partial update.
type OAuthTokenRepositoryMemory struct {
	mu     sync.RWMutex
	tokens map[string]model.OAuthToken
}

func NewOAuthTokenRepositoryMemory() *OAuthTokenRepositoryMemory {
	return &OAuthTokenRepositoryMemory{tokens: make(map[string]model.OAuthToken)}
}

func (r *OAuthTokenRepositoryMemory) GetToken(_ context.Context, mallID string) (*model.OAuthToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[mallID]
	if !ok {
		return nil, nil
	}
	return copyToken(t), nil
}

func (r *OAuthTokenRepositoryMemory) SaveToken(_ context.Context, t *model.OAuthToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.MallID] = *copyToken(*t)
	return nil
}

func (r *OAuthTokenRepositoryMemory) UpdateToken(_ context.Context, t *model.OAuthToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.tokens[t.MallID]
	if !ok {
		return fmt.Errorf("update token for mall %s: %w", t.MallID, apperror.ErrNoToken)
	}
	next := *copyToken(*t)
	next.CreatedAt = cur.CreatedAt
	r.tokens[t.MallID] = next
	return nil
}

func copyToken(t model.OAuthToken) *model.OAuthToken {
	out := t
	if t.Scopes != nil {
		out.Scopes = append([]string(nil), t.Scopes...)
	}
	if t.RefreshTokenExpiresAt != nil {
		v := *t.RefreshTokenExpiresAt
		out.RefreshTokenExpiresAt = &v
	}
	return &out
}
