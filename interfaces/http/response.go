package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"review-enhancer/domain/apperror"
	"review-enhancer/infrastructure/logger"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// respondError writes {success:false, message, error} with the status that
// matches err.
func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	body := gin.H{"success": false, "message": err.Error(), "error": errorDetail(err)}
	if status >= http.StatusInternalServerError {
		logger.GetLogger().WithFields(map[string]interface{}{
			"path":   c.FullPath(),
			"status": status,
			"error":  err.Error(),
		}).Error("Request failed")
	}
	c.JSON(status, body)
}

func respondBadRequest(c *gin.Context, message string, err error) {
	detail := message
	if err != nil {
		detail = err.Error()
	}
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message, "error": detail})
}

// StatusFor maps domain errors onto HTTP statuses.
func StatusFor(err error) int {
	var refreshErr *apperror.TokenRefreshError
	var exchangeErr *apperror.CodeExchangeError
	var apiErr *apperror.APIRequestError

	switch {
	case errors.Is(err, apperror.ErrNoToken),
		errors.Is(err, apperror.ErrNoRefreshToken),
		errors.As(err, &refreshErr):
		return http.StatusUnauthorized
	case errors.As(err, &exchangeErr),
		errors.Is(err, apperror.ErrInvalidState),
		errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrReviewBoardNotFound):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized,
			apiErr.StatusCode == http.StatusTooManyRequests,
			apiErr.StatusCode < 400,
			apiErr.StatusCode >= 500:
			return http.StatusBadGateway
		default:
			return apiErr.StatusCode
		}
	}
	return http.StatusInternalServerError
}

// errorDetail exposes the upstream body for API errors, as JSON when it is JSON.
func errorDetail(err error) interface{} {
	var apiErr *apperror.APIRequestError
	if errors.As(err, &apiErr) && apiErr.Body != "" {
		if json.Valid([]byte(apiErr.Body)) {
			return json.RawMessage(apiErr.Body)
		}
		return apiErr.Body
	}
	return err.Error()
}
