package repository

import (
	"context"

	"review-enhancer/domain/model"
)

type IEventPublisher interface {
	Publish(ctx context.Context, event model.Event) error
}
