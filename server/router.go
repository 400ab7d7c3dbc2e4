package server

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	httpHandler "review-enhancer/interfaces/http"
	"review-enhancer/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth     httpHandler.IAuthHandler
	Review   httpHandler.IReviewHandler
	Store    httpHandler.IStoreHandler
	Webhook  httpHandler.IWebhookHandler
	Settings httpHandler.ISettingsHandler
	Health   httpHandler.IHealthHandler
}

type RouterConfig struct {
	// AllowOrigins empty means any storefront origin may call the public API.
	AllowOrigins []string
	SecretKey    string
	PublicDir    string
}

var widgetAssets = []string{"review-enhancer.js", "review-enhancer.css"}

func InitiateRouter(h Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	router.GET("/health", h.Health.Health)

	auth := router.Group("/auth")
	{
		auth.GET("/start", h.Auth.Start)
		auth.GET("/callback", h.Auth.Callback)
		auth.GET("/status", h.Auth.Status)
	}

	webhook := router.Group("/webhook")
	{
		webhook.POST("/install", h.Webhook.Install)
		webhook.POST("/uninstall", h.Webhook.Uninstall)
		webhook.POST("/update", h.Webhook.Update)
	}

	admin := middleware.AdminAuth(cfg.SecretKey)

	api := router.Group("/api")
	{
		api.GET("/test", h.Store.Test)

		api.GET("/products", h.Store.ListProducts)
		api.GET("/products/:productNo", h.Store.GetProduct)
		api.GET("/products/:productNo/reviews", h.Review.GetProductReviews)

		api.GET("/reviews", h.Review.GetAllReviews)
		api.GET("/reviews/:articleNo", h.Review.GetReview)
		api.POST("/reviews", h.Review.CreateReview)
		api.PUT("/reviews/:articleNo", h.Review.UpdateReview)
		api.DELETE("/reviews/:articleNo", h.Review.DeleteReview)

		api.GET("/boards", h.Store.ListBoards)

		api.GET("/settings/:mallId", h.Settings.Get)
		api.PUT("/settings/:mallId", admin, h.Settings.Update)

		api.GET("/orders", admin, h.Store.ListOrders)
		api.GET("/orders/:orderId", admin, h.Store.GetOrder)
		api.GET("/customers", admin, h.Store.ListCustomers)
		api.GET("/customers/:memberId", admin, h.Store.GetCustomer)
	}

	for _, asset := range widgetAssets {
		path := filepath.Join(cfg.PublicDir, asset)
		if _, err := os.Stat(path); err == nil {
			router.StaticFile("/"+asset, path)
		}
	}

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
