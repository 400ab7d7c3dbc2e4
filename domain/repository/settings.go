package repository

import (
	"context"

	"review-enhancer/domain/model"
)

type ISettings interface {
	GetSettings(ctx context.Context, mallID string) (*model.MallSettings, error)
	SaveSettings(ctx context.Context, settings *model.MallSettings) error
	DeleteSettings(ctx context.Context, mallID string) error
}
