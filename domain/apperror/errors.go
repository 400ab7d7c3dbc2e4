package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNoToken             = errors.New("no access token stored, please authenticate at /auth/start")
	ErrNoRefreshToken      = errors.New("no refresh token available, please authenticate at /auth/start")
	ErrReviewBoardNotFound = errors.New("review board not found, please check your mall settings")

	ErrInvalidState = errors.New("invalid or expired oauth state")
	ErrValidation   = errors.New("validation error")
)

// TokenRefreshError reports a rejected refresh_token grant. It is never retried.
type TokenRefreshError struct {
	Detail string
	Err    error
}

func (e *TokenRefreshError) Error() string {
	msg := "failed to refresh token, please re-authenticate at /auth/start"
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *TokenRefreshError) Unwrap() error { return e.Err }

// CodeExchangeError reports a failed authorization_code grant.
type CodeExchangeError struct {
	Description string
	Err         error
}

func (e *CodeExchangeError) Error() string {
	if e.Description != "" {
		return "failed to exchange authorization code: " + e.Description
	}
	if e.Err != nil {
		return "failed to exchange authorization code: " + e.Err.Error()
	}
	return "failed to exchange authorization code"
}

func (e *CodeExchangeError) Unwrap() error { return e.Err }

// APIRequestError is a non-retryable (or retry-exhausted) admin API failure.
type APIRequestError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIRequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("cafe24 api %s %s: %v", e.Method, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("cafe24 api %s %s: status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
}

func (e *APIRequestError) Unwrap() error { return e.Err }
