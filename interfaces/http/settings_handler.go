package http

import (
	"github.com/gin-gonic/gin"
	"review-enhancer/domain/dto"
	"review-enhancer/usecase"
)

type ISettingsHandler interface {
	Get(ctx *gin.Context)
	Update(ctx *gin.Context)
}

type SettingsHandler struct {
	appUsecase usecase.IAppUsecase
}

func NewSettingsHandler(appUsecase usecase.IAppUsecase) ISettingsHandler {
	return &SettingsHandler{appUsecase: appUsecase}
}

// Get handles GET /api/settings/:mallId
func (h *SettingsHandler) Get(ctx *gin.Context) {
	settings, err := h.appUsecase.GetSettings(ctx.Request.Context(), ctx.Param("mallId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, settings)
}

// Update handles PUT /api/settings/:mallId
func (h *SettingsHandler) Update(ctx *gin.Context) {
	var req dto.SettingsUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "invalid settings", err)
		return
	}
	settings, err := h.appUsecase.UpdateSettings(ctx.Request.Context(), ctx.Param("mallId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, settings)
}
