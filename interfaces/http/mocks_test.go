package http_test

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
	"review-enhancer/domain/dto"
	"review-enhancer/domain/model"
)

type MockReviewUsecase struct {
	mock.Mock
}

func page(args mock.Arguments) (*model.ReviewPage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReviewPage), args.Error(1)
}

func raw(args mock.Arguments) (json.RawMessage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockReviewUsecase) GetProductReviews(ctx context.Context, productNo int, q dto.ReviewQuery) (*model.ReviewPage, error) {
	return page(m.Called(ctx, productNo, q))
}

func (m *MockReviewUsecase) GetAllReviews(ctx context.Context, q dto.ReviewQuery) (*model.ReviewPage, error) {
	return page(m.Called(ctx, q))
}

func (m *MockReviewUsecase) GetReview(ctx context.Context, articleNo int) (json.RawMessage, error) {
	return raw(m.Called(ctx, articleNo))
}

func (m *MockReviewUsecase) CreateReview(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return raw(m.Called(ctx, body))
}

func (m *MockReviewUsecase) UpdateReview(ctx context.Context, articleNo int, body json.RawMessage) (json.RawMessage, error) {
	return raw(m.Called(ctx, articleNo, body))
}

func (m *MockReviewUsecase) DeleteReview(ctx context.Context, articleNo int) (json.RawMessage, error) {
	return raw(m.Called(ctx, articleNo))
}

func (m *MockReviewUsecase) ReviewBoardNo(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockAppUsecase struct {
	mock.Mock
}

func (m *MockAppUsecase) Install(ctx context.Context, req dto.WebhookRequest) (*dto.InstallResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InstallResult), args.Error(1)
}

func (m *MockAppUsecase) Uninstall(ctx context.Context, req dto.WebhookRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAppUsecase) Update(ctx context.Context, req dto.WebhookRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAppUsecase) GetSettings(ctx context.Context, mallID string) (*model.MallSettings, error) {
	args := m.Called(ctx, mallID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MallSettings), args.Error(1)
}

func (m *MockAppUsecase) UpdateSettings(ctx context.Context, mallID string, req dto.SettingsUpdateRequest) (*model.MallSettings, error) {
	args := m.Called(ctx, mallID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MallSettings), args.Error(1)
}

type MockTokenManager struct {
	mock.Mock
}

func token(args mock.Arguments) (*model.OAuthToken, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OAuthToken), args.Error(1)
}

func (m *MockTokenManager) GetValidToken(ctx context.Context) (*model.OAuthToken, error) {
	return token(m.Called(ctx))
}

func (m *MockTokenManager) RefreshToken(ctx context.Context) (*model.OAuthToken, error) {
	return token(m.Called(ctx))
}

func (m *MockTokenManager) ExchangeCodeForToken(ctx context.Context, code string) (*model.OAuthToken, error) {
	return token(m.Called(ctx, code))
}

func (m *MockTokenManager) CurrentToken(ctx context.Context) (*model.OAuthToken, error) {
	return token(m.Called(ctx))
}

func (m *MockTokenManager) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}
