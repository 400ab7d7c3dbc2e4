package usecase

import (
	"context"
	"encoding/json"

	"review-enhancer/domain/dto"
	"review-enhancer/domain/model"
	"review-enhancer/domain/repository"
)

const defaultProductLimit = 10

// IStoreUsecase proxies read-only store resources.
type IStoreUsecase interface {
	TestConnection(ctx context.Context) (json.RawMessage, error)
	ListProducts(ctx context.Context, params dto.ProductListParams) (json.RawMessage, error)
	GetProduct(ctx context.Context, productNo int) (json.RawMessage, error)
	ListBoards(ctx context.Context) ([]model.Board, error)
	ListOrders(ctx context.Context, params dto.OrderListParams) (json.RawMessage, error)
	GetOrder(ctx context.Context, orderID string) (json.RawMessage, error)
	ListCustomers(ctx context.Context, params dto.CustomerListParams) (json.RawMessage, error)
	GetCustomer(ctx context.Context, memberID string) (json.RawMessage, error)
}

type StoreUsecase struct {
	client repository.ICafe24
}

func NewStoreUsecase(client repository.ICafe24) *StoreUsecase {
	return &StoreUsecase{client: client}
}

// TestConnection lists a handful of products to prove the token works.
func (u *StoreUsecase) TestConnection(ctx context.Context) (json.RawMessage, error) {
	return u.client.ListProducts(ctx, dto.ProductListParams{Limit: 5})
}

func (u *StoreUsecase) ListProducts(ctx context.Context, params dto.ProductListParams) (json.RawMessage, error) {
	if params.Limit <= 0 {
		params.Limit = defaultProductLimit
	}
	return u.client.ListProducts(ctx, params)
}

func (u *StoreUsecase) GetProduct(ctx context.Context, productNo int) (json.RawMessage, error) {
	return u.client.GetProduct(ctx, productNo)
}

func (u *StoreUsecase) ListBoards(ctx context.Context) ([]model.Board, error) {
	boards, err := u.client.ListBoards(ctx)
	if err != nil {
		return nil, err
	}
	if boards == nil {
		boards = []model.Board{}
	}
	return boards, nil
}

func (u *StoreUsecase) ListOrders(ctx context.Context, params dto.OrderListParams) (json.RawMessage, error) {
	return u.client.ListOrders(ctx, params)
}

func (u *StoreUsecase) GetOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	return u.client.GetOrder(ctx, orderID)
}

func (u *StoreUsecase) ListCustomers(ctx context.Context, params dto.CustomerListParams) (json.RawMessage, error) {
	return u.client.ListCustomers(ctx, params)
}

func (u *StoreUsecase) GetCustomer(ctx context.Context, memberID string) (json.RawMessage, error) {
	return u.client.GetCustomer(ctx, memberID)
}
