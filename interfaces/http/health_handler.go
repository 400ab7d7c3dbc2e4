package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"review-enhancer/infrastructure/utils"
)

type IHealthHandler interface {
	Health(ctx *gin.Context)
}

type HealthHandler struct {
	env     string
	version string
	clock   utils.Clock
}

func NewHealthHandler(env, version string, clock utils.Clock) IHealthHandler {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &HealthHandler{env: env, version: version, clock: clock}
}

func (h *HealthHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   h.clock.Now().Format(time.RFC3339),
		"environment": h.env,
		"version":     h.version,
	})
}
