package repository

import (
	"context"
	"encoding/json"

	"review-enhancer/domain/dto"
	"review-enhancer/domain/model"
)

// ICafe24 is the Cafe24 admin API. Pass-through resources are returned as raw JSON.
type ICafe24 interface {
	Request(ctx context.Context, method, endpoint string, body interface{}) (json.RawMessage, error)

	ListProducts(ctx context.Context, params dto.ProductListParams) (json.RawMessage, error)
	GetProduct(ctx context.Context, productNo int) (json.RawMessage, error)

	ListBoards(ctx context.Context) ([]model.Board, error)
	GetBoard(ctx context.Context, boardNo int) (json.RawMessage, error)

	ListArticles(ctx context.Context, boardNo int, params dto.ArticleListParams) ([]model.Review, error)
	GetArticle(ctx context.Context, boardNo, articleNo int) (json.RawMessage, error)
	CreateArticle(ctx context.Context, boardNo int, body json.RawMessage) (json.RawMessage, error)
	UpdateArticle(ctx context.Context, boardNo, articleNo int, body json.RawMessage) (json.RawMessage, error)
	DeleteArticle(ctx context.Context, boardNo, articleNo int) (json.RawMessage, error)

	ListOrders(ctx context.Context, params dto.OrderListParams) (json.RawMessage, error)
	GetOrder(ctx context.Context, orderID string) (json.RawMessage, error)
	ListCustomers(ctx context.Context, params dto.CustomerListParams) (json.RawMessage, error)
	GetCustomer(ctx context.Context, memberID string) (json.RawMessage, error)

	ListScriptTags(ctx context.Context) ([]model.ScriptTag, error)
	CreateScriptTag(ctx context.Context, req dto.ScriptTagRequest) (*model.ScriptTag, error)
	UpdateScriptTag(ctx context.Context, scriptNo string, req dto.ScriptTagRequest) (*model.ScriptTag, error)
	DeleteScriptTag(ctx context.Context, scriptNo string) error
}
