package http

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"review-enhancer/domain/dto"
	"review-enhancer/usecase"
)

type IReviewHandler interface {
	GetProductReviews(ctx *gin.Context)
	GetAllReviews(ctx *gin.Context)
	GetReview(ctx *gin.Context)
	CreateReview(ctx *gin.Context)
	UpdateReview(ctx *gin.Context)
	DeleteReview(ctx *gin.Context)
}

type ReviewHandler struct {
	reviewUsecase usecase.IReviewUsecase
}

func NewReviewHandler(reviewUsecase usecase.IReviewUsecase) IReviewHandler {
	return &ReviewHandler{reviewUsecase: reviewUsecase}
}

// reviewQuery reads the widget's listing options. The widget sends either
// sortBy or sort.
func reviewQuery(ctx *gin.Context) dto.ReviewQuery {
	q := dto.ReviewQuery{SortBy: ctx.Query("sortBy")}
	if q.SortBy == "" {
		q.SortBy = ctx.Query("sort")
	}
	if v, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		q.Limit = v
	}
	if v, err := strconv.Atoi(ctx.Query("offset")); err == nil {
		q.Offset = v
	}
	q.PhotoOnly = ctx.Query("photoOnly") == "true"
	return q
}

func intParam(ctx *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(ctx.Param(name))
	if err != nil || v <= 0 {
		respondBadRequest(ctx, "invalid "+name, nil)
		return 0, false
	}
	return v, true
}

func jsonBody(ctx *gin.Context) (json.RawMessage, bool) {
	body, err := ctx.GetRawData()
	if err != nil || !json.Valid(body) {
		respondBadRequest(ctx, "request body must be JSON", err)
		return nil, false
	}
	return body, true
}

// GetProductReviews handles GET /api/products/:productNo/reviews
func (h *ReviewHandler) GetProductReviews(ctx *gin.Context) {
	productNo, ok := intParam(ctx, "productNo")
	if !ok {
		return
	}
	page, err := h.reviewUsecase.GetProductReviews(ctx.Request.Context(), productNo, reviewQuery(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, page)
}

// GetAllReviews handles GET /api/reviews
func (h *ReviewHandler) GetAllReviews(ctx *gin.Context) {
	page, err := h.reviewUsecase.GetAllReviews(ctx.Request.Context(), reviewQuery(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, page)
}

func (h *ReviewHandler) GetReview(ctx *gin.Context) {
	articleNo, ok := intParam(ctx, "articleNo")
	if !ok {
		return
	}
	res, err := h.reviewUsecase.GetReview(ctx.Request.Context(), articleNo)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, res)
}

func (h *ReviewHandler) CreateReview(ctx *gin.Context) {
	body, ok := jsonBody(ctx)
	if !ok {
		return
	}
	res, err := h.reviewUsecase.CreateReview(ctx.Request.Context(), body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, res)
}

func (h *ReviewHandler) UpdateReview(ctx *gin.Context) {
	articleNo, ok := intParam(ctx, "articleNo")
	if !ok {
		return
	}
	body, ok := jsonBody(ctx)
	if !ok {
		return
	}
	res, err := h.reviewUsecase.UpdateReview(ctx.Request.Context(), articleNo, body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, res)
}

func (h *ReviewHandler) DeleteReview(ctx *gin.Context) {
	articleNo, ok := intParam(ctx, "articleNo")
	if !ok {
		return
	}
	res, err := h.reviewUsecase.DeleteReview(ctx.Request.Context(), articleNo)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, res)
}
