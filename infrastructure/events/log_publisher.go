package events

import (
	"context"

	"review-enhancer/domain/model"
	"review-enhancer/infrastructure/logger"
)

// LogPublisher writes events to the structured log when no broker is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher { return &LogPublisher{} }

func (LogPublisher) Publish(_ context.Context, event model.Event) error {
	logger.GetLogger().WithFields(map[string]interface{}{
		"event_id": event.ID,
		"type":     event.Type,
		"mall_id":  event.MallID,
		"data":     event.Data,
	}).Info("domain event")
	return nil
}
