package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"review-enhancer/domain/dto"
	"review-enhancer/usecase"
)

type IWebhookHandler interface {
	Install(ctx *gin.Context)
	Uninstall(ctx *gin.Context)
	Update(ctx *gin.Context)
}

type WebhookHandler struct {
	appUsecase usecase.IAppUsecase
}

func NewWebhookHandler(appUsecase usecase.IAppUsecase) IWebhookHandler {
	return &WebhookHandler{appUsecase: appUsecase}
}

func bindWebhook(ctx *gin.Context) (dto.WebhookRequest, bool) {
	var req dto.WebhookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "invalid webhook payload", err)
		return req, false
	}
	return req, true
}

// Install handles POST /webhook/install
func (h *WebhookHandler) Install(ctx *gin.Context) {
	req, ok := bindWebhook(ctx)
	if !ok {
		return
	}
	result, err := h.appUsecase.Install(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	message := "App installed"
	if !result.AutoInstallation {
		message = "App installed, but script tags could not be registered automatically"
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": result})
}

// Uninstall handles POST /webhook/uninstall
func (h *WebhookHandler) Uninstall(ctx *gin.Context) {
	req, ok := bindWebhook(ctx)
	if !ok {
		return
	}
	if err := h.appUsecase.Uninstall(ctx.Request.Context(), req); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "App uninstalled", "mall_id": req.MallID})
}

// Update handles POST /webhook/update
func (h *WebhookHandler) Update(ctx *gin.Context) {
	req, ok := bindWebhook(ctx)
	if !ok {
		return
	}
	if err := h.appUsecase.Update(ctx.Request.Context(), req); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "App updated", "mall_id": req.MallID})
}
