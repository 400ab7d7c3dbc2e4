package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventAppInstalled   = "app.installed"
	EventAppUninstalled = "app.uninstalled"
	EventAppUpdated     = "app.updated"
	EventReviewCreated  = "review.created"
	EventReviewUpdated  = "review.updated"
	EventReviewDeleted  = "review.deleted"
)

// Event is a lifecycle notification emitted to the configured broker.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	MallID     string                 `json:"mall_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

func NewEvent(eventType, mallID string, at time.Time, data map[string]interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		MallID:     mallID,
		OccurredAt: at,
		Data:       data,
	}
}
