package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
	"review-enhancer/domain/apperror"
	"review-enhancer/domain/model"
	"review-enhancer/domain/repository"
	"review-enhancer/infrastructure/logger"
	"review-enhancer/infrastructure/utils"
)

// RefreshLookahead is how long before expiry an access token is renewed.
const RefreshLookahead = 30 * time.Minute

// defaultTokenLifetime applies when the token response carries no expiry at all.
const defaultTokenLifetime = 2 * time.Hour

// refreshTimeout bounds the shared refresh grant.
const refreshTimeout = 30 * time.Second

// Cafe24 reports expires_at in Korea Standard Time without an offset.
var kst = time.FixedZone("KST", 9*60*60)

type ITokenManager interface {
	GetValidToken(ctx context.Context) (*model.OAuthToken, error)
	RefreshToken(ctx context.Context) (*model.OAuthToken, error)
	ExchangeCodeForToken(ctx context.Context, code string) (*model.OAuthToken, error)
	CurrentToken(ctx context.Context) (*model.OAuthToken, error)
	AuthCodeURL(state string) string
}

type TokenManagerConfig struct {
	MallID       string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthorizeURL string
	TokenURL     string
	Scopes       []string
	HTTPClient   *http.Client
}

// TokenManager owns the OAuth token of one mall.
type TokenManager struct {
	mallID     string
	oauth      *oauth2.Config
	store      repository.IOAuthToken
	clock      utils.Clock
	httpClient *http.Client
	refreshes  singleflight.Group
}

func NewTokenManager(cfg TokenManagerConfig, store repository.IOAuthToken, clock utils.Clock) *TokenManager {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &TokenManager{
		mallID: cfg.MallID,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthorizeURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		store:      store,
		clock:      clock,
		httpClient: cfg.HTTPClient,
	}
}

// AuthCodeURL builds the authorize redirect for /auth/start.
func (m *TokenManager) AuthCodeURL(state string) string {
	return m.oauth.AuthCodeURL(state)
}

// CurrentToken returns the stored record without refreshing it.
func (m *TokenManager) CurrentToken(ctx context.Context) (*model.OAuthToken, error) {
	token, err := m.store.GetToken(ctx, m.mallID)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if token == nil {
		return nil, apperror.ErrNoToken
	}
	return token, nil
}

// GetValidToken returns the stored token, refreshing it first when it expires
// within RefreshLookahead.
func (m *TokenManager) GetValidToken(ctx context.Context) (*model.OAuthToken, error) {
	token, err := m.CurrentToken(ctx)
	if err != nil {
		return nil, err
	}
	if token.ExpiresWithin(m.clock.Now(), RefreshLookahead) {
		logger.GetLogger().WithFields(map[string]interface{}{
			"mall_id":    m.mallID,
			"expires_at": token.ExpiresAt.Format(time.RFC3339),
		}).Info("Token expiring soon, refreshing")
		return m.RefreshToken(ctx)
	}
	return token, nil
}

// RefreshToken runs a refresh_token grant. Concurrent callers share one
// upstream request, detached from any one caller's cancellation. Each caller
// stops waiting when its own ctx ends.
func (m *TokenManager) RefreshToken(ctx context.Context) (*model.OAuthToken, error) {
	ch := m.refreshes.DoChan(m.mallID, func() (interface{}, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return m.refresh(refreshCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.GetLogger().WithField("mall_id", m.mallID).Debug("Joined in-flight token refresh")
		}
		return res.Val.(*model.OAuthToken), nil
	}
}

func (m *TokenManager) refresh(ctx context.Context) (*model.OAuthToken, error) {
	current, err := m.store.GetToken(ctx, m.mallID)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if current == nil || current.RefreshToken == "" {
		return nil, apperror.ErrNoRefreshToken
	}

	tok, err := m.oauth.TokenSource(m.clientContext(ctx), &oauth2.Token{RefreshToken: current.RefreshToken}).Token()
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"mall_id": m.mallID,
			"error":   err.Error(),
		}).Error("Failed to refresh token")
		return nil, &apperror.TokenRefreshError{Detail: retrieveDetail(err), Err: err}
	}

	updated := m.toRecord(tok, current)
	if err := m.store.UpdateToken(ctx, updated); err != nil {
		return nil, fmt.Errorf("update token: %w", err)
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"mall_id":    m.mallID,
		"expires_at": updated.ExpiresAt.Format(time.RFC3339),
	}).Info("Token refreshed successfully")
	return updated, nil
}

// ExchangeCodeForToken runs the authorization_code grant and replaces the
// stored record.
func (m *TokenManager) ExchangeCodeForToken(ctx context.Context, code string) (*model.OAuthToken, error) {
	tok, err := m.oauth.Exchange(m.clientContext(ctx), code)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"mall_id": m.mallID,
			"error":   err.Error(),
		}).Error("Token exchange failed")
		return nil, &apperror.CodeExchangeError{Description: retrieveDetail(err), Err: err}
	}

	record := m.toRecord(tok, nil)
	if err := m.store.SaveToken(ctx, record); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"mall_id": record.MallID,
		"scopes":  strings.Join(record.Scopes, " "),
	}).Info("Token exchange successful")
	return record, nil
}

func (m *TokenManager) clientContext(ctx context.Context) context.Context {
	if m.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
}

// toRecord maps a token response onto the stored record. prev is the record
// being refreshed, nil for a fresh exchange.
func (m *TokenManager) toRecord(tok *oauth2.Token, prev *model.OAuthToken) *model.OAuthToken {
	now := m.clock.Now()
	record := &model.OAuthToken{
		MallID:       m.mallID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    now.Add(defaultTokenLifetime),
		Scopes:       extraStrings(tok.Extra("scopes")),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if t, ok := parseTokenTime(tok.Extra("expires_at")); ok {
		record.ExpiresAt = t
	} else if !tok.Expiry.IsZero() {
		record.ExpiresAt = tok.Expiry
	}
	if t, ok := parseTokenTime(tok.Extra("refresh_token_expires_at")); ok {
		record.RefreshTokenExpiresAt = &t
	}
	if mall, ok := tok.Extra("mall_id").(string); ok && mall != "" && mall != m.mallID {
		logger.GetLogger().WithFields(map[string]interface{}{
			"configured": m.mallID,
			"issued_for": mall,
		}).Warn("Token issued for a different mall")
	}

	if prev != nil {
		record.CreatedAt = prev.CreatedAt
		if record.RefreshToken == "" {
			record.RefreshToken = prev.RefreshToken
		}
		if len(record.Scopes) == 0 {
			record.Scopes = prev.Scopes
		}
		if record.RefreshTokenExpiresAt == nil {
			record.RefreshTokenExpiresAt = prev.RefreshTokenExpiresAt
		}
	}
	return record
}

func parseTokenTime(v interface{}) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	for _, layout := range []string{"2006-01-02T15:04:05.000", "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, kst); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func extraStrings(v interface{}) []string {
	switch s := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	case string:
		return strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	}
	return nil
}

// retrieveDetail prefers the upstream error_description.
func retrieveDetail(err error) string {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.ErrorDescription != "" {
			return re.ErrorDescription
		}
		if re.ErrorCode != "" {
			return re.ErrorCode
		}
		return strings.TrimSpace(string(re.Body))
	}
	return err.Error()
}
