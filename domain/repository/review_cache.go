package repository

import (
	"context"

	"review-enhancer/domain/model"
)

// IReviewCache returns (nil, nil) for missing or expired entries.
type IReviewCache interface {
	Get(ctx context.Context, key string) (*model.ReviewPayload, error)
	Set(ctx context.Context, key string, payload *model.ReviewPayload) error
}
