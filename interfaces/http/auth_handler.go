package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"review-enhancer/domain/dto"
	"review-enhancer/domain/model"
	"review-enhancer/infrastructure/logger"
	"review-enhancer/infrastructure/utils"
	"review-enhancer/usecase"
)

// AdminTokenTTL is the lifetime of the admin token issued on callback.
const AdminTokenTTL = 24 * time.Hour

type IAuthHandler interface {
	Start(ctx *gin.Context)
	Callback(ctx *gin.Context)
	Status(ctx *gin.Context)
}

type AuthHandler struct {
	tokens    usecase.ITokenManager
	states    *usecase.StateStore
	secretKey string
	clock     utils.Clock
}

func NewAuthHandler(tokens usecase.ITokenManager, states *usecase.StateStore, secretKey string, clock utils.Clock) IAuthHandler {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &AuthHandler{tokens: tokens, states: states, secretKey: secretKey, clock: clock}
}

// Start handles GET /auth/start
func (h *AuthHandler) Start(ctx *gin.Context) {
	state, err := h.states.Issue()
	if err != nil {
		respondError(ctx, err)
		return
	}
	logger.GetLogger().Info("Starting OAuth flow")
	ctx.Redirect(http.StatusFound, h.tokens.AuthCodeURL(state))
}

// Callback handles GET /auth/callback
func (h *AuthHandler) Callback(ctx *gin.Context) {
	if oauthErr := ctx.Query("error"); oauthErr != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "OAuth error: " + oauthErr,
			"error":   ctx.Query("error_description"),
		})
		return
	}
	code := ctx.Query("code")
	if code == "" {
		respondBadRequest(ctx, "Authorization code not found", nil)
		return
	}
	if err := h.states.Consume(ctx.Query("state")); err != nil {
		respondError(ctx, err)
		return
	}

	token, err := h.tokens.ExchangeCodeForToken(ctx.Request.Context(), code)
	if err != nil {
		respondError(ctx, err)
		return
	}

	adminToken, err := h.issueAdminToken(token.MallID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondOK(ctx, dto.AuthResult{
		MallID:     token.MallID,
		ExpiresAt:  token.ExpiresAt,
		Scopes:     token.Scopes,
		AdminToken: adminToken,
	})
}

func (h *AuthHandler) issueAdminToken(mallID string) (string, error) {
	if h.secretKey == "" {
		return "", nil
	}
	now := h.clock.Now()
	return utils.GenerateToken(map[string]interface{}{
		"mall_id": mallID,
		"iss":     model.AdminTokenIssuer,
		"iat":     now.Unix(),
		"exp":     now.Add(AdminTokenTTL).Unix(),
	}, h.secretKey)
}

// Status handles GET /auth/status. It refreshes an expiring token like any
// API call would.
func (h *AuthHandler) Status(ctx *gin.Context) {
	token, err := h.tokens.GetValidToken(ctx.Request.Context())
	if err != nil {
		if StatusFor(err) != http.StatusUnauthorized {
			logger.GetLogger().WithField("error", err.Error()).Warn("Token status check failed")
		}
		ctx.JSON(http.StatusOK, dto.TokenStatus{Authenticated: false, Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.TokenStatus{
		Authenticated:         true,
		MallID:                token.MallID,
		ExpiresAt:             &token.ExpiresAt,
		RefreshTokenExpiresAt: token.RefreshTokenExpiresAt,
		Scopes:                token.Scopes,
	})
}
