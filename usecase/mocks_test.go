package usecase_test

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
	"review-enhancer/domain/dto"
	"review-enhancer/domain/model"
)

type MockCafe24 struct {
	mock.Mock
}

func raw(args mock.Arguments) (json.RawMessage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockCafe24) Request(ctx context.Context, method, endpoint string, body interface{}) (json.RawMessage, error) {
	return raw(m.Called(ctx, method, endpoint, body))
}

func (m *MockCafe24) ListProducts(ctx context.Context, params dto.ProductListParams) (json.RawMessage, error) {
	return raw(m.Called(ctx, params))
}

func (m *MockCafe24) GetProduct(ctx context.Context, productNo int) (json.RawMessage, error) {
	return raw(m.Called(ctx, productNo))
}

func (m *MockCafe24) ListBoards(ctx context.Context) ([]model.Board, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Board), args.Error(1)
}

func (m *MockCafe24) GetBoard(ctx context.Context, boardNo int) (json.RawMessage, error) {
	return raw(m.Called(ctx, boardNo))
}

func (m *MockCafe24) ListArticles(ctx context.Context, boardNo int, params dto.ArticleListParams) ([]model.Review, error) {
	args := m.Called(ctx, boardNo, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// hand out a copy, the usecase sorts in place
	src := args.Get(0).([]model.Review)
	out := make([]model.Review, len(src))
	copy(out, src)
	return out, args.Error(1)
}

func (m *MockCafe24) GetArticle(ctx context.Context, boardNo, articleNo int) (json.RawMessage, error) {
	return raw(m.Called(ctx, boardNo, articleNo))
}

func (m *MockCafe24) CreateArticle(ctx context.Context, boardNo int, body json.RawMessage) (json.RawMessage, error) {
	return raw(m.Called(ctx, boardNo, body))
}

func (m *MockCafe24) UpdateArticle(ctx context.Context, boardNo, articleNo int, body json.RawMessage) (json.RawMessage, error) {
	return raw(m.Called(ctx, boardNo, articleNo, body))
}

func (m *MockCafe24) DeleteArticle(ctx context.Context, boardNo, articleNo int) (json.RawMessage, error) {
	return raw(m.Called(ctx, boardNo, articleNo))
}

func (m *MockCafe24) ListOrders(ctx context.Context, params dto.OrderListParams) (json.RawMessage, error) {
	return raw(m.Called(ctx, params))
}

func (m *MockCafe24) GetOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	return raw(m.Called(ctx, orderID))
}

func (m *MockCafe24) ListCustomers(ctx context.Context, params dto.CustomerListParams) (json.RawMessage, error) {
	return raw(m.Called(ctx, params))
}

func (m *MockCafe24) GetCustomer(ctx context.Context, memberID string) (json.RawMessage, error) {
	return raw(m.Called(ctx, memberID))
}

func (m *MockCafe24) ListScriptTags(ctx context.Context) ([]model.ScriptTag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScriptTag), args.Error(1)
}

func (m *MockCafe24) CreateScriptTag(ctx context.Context, req dto.ScriptTagRequest) (*model.ScriptTag, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScriptTag), args.Error(1)
}

func (m *MockCafe24) UpdateScriptTag(ctx context.Context, scriptNo string, req dto.ScriptTagRequest) (*model.ScriptTag, error) {
	args := m.Called(ctx, scriptNo, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScriptTag), args.Error(1)
}

func (m *MockCafe24) DeleteScriptTag(ctx context.Context, scriptNo string) error {
	return m.Called(ctx, scriptNo).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event model.Event) error {
	return m.Called(ctx, event).Error(0)
}
