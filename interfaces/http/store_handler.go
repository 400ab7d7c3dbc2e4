package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"review-enhancer/domain/dto"
	"review-enhancer/usecase"
)

type IStoreHandler interface {
	Test(ctx *gin.Context)
	ListProducts(ctx *gin.Context)
	GetProduct(ctx *gin.Context)
	ListBoards(ctx *gin.Context)
	ListOrders(ctx *gin.Context)
	GetOrder(ctx *gin.Context)
	ListCustomers(ctx *gin.Context)
	GetCustomer(ctx *gin.Context)
}

type StoreHandler struct {
	storeUsecase usecase.IStoreUsecase
}

func NewStoreHandler(storeUsecase usecase.IStoreUsecase) IStoreHandler {
	return &StoreHandler{storeUsecase: storeUsecase}
}

// Test handles GET /api/test
func (h *StoreHandler) Test(ctx *gin.Context) {
	products, err := h.storeUsecase.TestConnection(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "API connection OK", "data": products})
}

// ListProducts handles GET /api/products
func (h *StoreHandler) ListProducts(ctx *gin.Context) {
	var params dto.ProductListParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		respondBadRequest(ctx, "invalid query", err)
		return
	}
	res, err := h.storeUsecase.ListProducts(ctx.Request.Context(), params)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, res)
}

func (h *StoreHandler) GetProduct(ctx *gin.Context) {
	productNo, ok := intParam(ctx, "productNo")
	if !ok {
		return
	}
	res, err := h.storeUsecase.GetProduct(ctx.Request.Context(), productNo)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, res)
}

func (h *StoreHandler) ListBoards(ctx *gin.Context) {
	boards, err := h.storeUsecase.ListBoards(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, gin.H{"boards": boards})
}

func (h *StoreHandler) ListOrders(ctx *gin.Context) {
	var params dto.OrderListParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		respondBadRequest(ctx, "invalid query", err)
		return
	}
	res, err := h.storeUsecase.ListOrders(ctx.Request.Context(), params)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, res)
}

func (h *StoreHandler) GetOrder(ctx *gin.Context) {
	res, err := h.storeUsecase.GetOrder(ctx.Request.Context(), ctx.Param("orderId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, res)
}

func (h *StoreHandler) ListCustomers(ctx *gin.Context) {
	var params dto.CustomerListParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		respondBadRequest(ctx, "invalid query", err)
		return
	}
	res, err := h.storeUsecase.ListCustomers(ctx.Request.Context(), params)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, res)
}

func (h *StoreHandler) GetCustomer(ctx *gin.Context) {
	res, err := h.storeUsecase.GetCustomer(ctx.Request.Context(), ctx.Param("memberId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, res)
}
