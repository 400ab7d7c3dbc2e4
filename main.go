package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"review-enhancer/domain/repository"
	"review-enhancer/infrastructure/cache"
	"review-enhancer/infrastructure/clients/cafe24"
	"review-enhancer/infrastructure/configuration"
	"review-enhancer/infrastructure/events"
	"review-enhancer/infrastructure/logger"
	"review-enhancer/infrastructure/persistence"
	"review-enhancer/infrastructure/pubsub"
	"review-enhancer/infrastructure/servicebus"
	"review-enhancer/infrastructure/utils"
	httpHandler "review-enhancer/interfaces/http"
	"review-enhancer/server"
	"review-enhancer/usecase"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

// backends holds the optional connections opened at startup so they can be
// closed on shutdown.
type backends struct {
	psql    *sql.DB
	mssql   *sql.DB
	mongo   *mongo.Client
	closers []func(context.Context)
}

func (b *backends) close(ctx context.Context) {
	for _, c := range b.closers {
		c(ctx)
	}
	if b.psql != nil {
		_ = b.psql.Close()
	}
	if b.mssql != nil {
		_ = b.mssql.Close()
	}
	if b.mongo != nil {
		_ = b.mongo.Disconnect(ctx)
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")
	configuration.Reload()
	cfg := configuration.C
	logger.Configure(cfg.App.Env, cfg.Logger.Format, cfg.Logger.Level, os.Getenv("LOG_TO_FILE") == "true")

	clock := utils.SystemClock{}
	b := &backends{}

	tokenStore := newTokenStore(b, cfg.Storage.TokenStore)
	reviewCache := newReviewCache(ctx, b, cfg, clock)
	settingsStore := newSettingsStore(ctx, b, cfg)
	publisher := newEventPublisher(ctx, b, cfg)

	logger.GetLogger().WithFields(map[string]interface{}{
		"mall_id":         cfg.Cafe24.MallID,
		"api_version":     cfg.Cafe24.APIVersion,
		"token_store":     cfg.Storage.TokenStore,
		"cache_driver":    cfg.Storage.CacheDriver,
		"settings_store":  cfg.Storage.SettingsStore,
		"event_publisher": cfg.Storage.EventPublisher,
	}).Info("Backends selected")

	tokenManager := usecase.NewTokenManager(usecase.TokenManagerConfig{
		MallID:       cfg.Cafe24.MallID,
		ClientID:     cfg.Cafe24.ClientID,
		ClientSecret: cfg.Cafe24.ClientSecret,
		RedirectURI:  cfg.Cafe24.RedirectURI,
		AuthorizeURL: cfg.Cafe24.AuthorizeURL(),
		TokenURL:     cfg.Cafe24.TokenURL(),
		Scopes:       cfg.Cafe24.Scopes,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}, tokenStore, clock)

	client := cafe24.NewClient(cafe24.Config{
		AdminURL:   cfg.Cafe24.AdminURL(),
		APIVersion: cfg.Cafe24.APIVersion,
	}, tokenManager)

	reviewUsecase := usecase.NewReviewUsecase(cfg.Cafe24.MallID, client, reviewCache, settingsStore, publisher, clock, cfg.Review.PerPage)
	storeUsecase := usecase.NewStoreUsecase(client)
	appUsecase := usecase.NewAppUsecase(client, settingsStore, publisher, clock, scriptBaseURL(cfg))

	router := server.InitiateRouter(server.Handlers{
		Auth:     httpHandler.NewAuthHandler(tokenManager, usecase.NewStateStore(clock), cfg.App.SecretKey, clock),
		Review:   httpHandler.NewReviewHandler(reviewUsecase),
		Store:    httpHandler.NewStoreHandler(storeUsecase),
		Webhook:  httpHandler.NewWebhookHandler(appUsecase),
		Settings: httpHandler.NewSettingsHandler(appUsecase),
		Health:   httpHandler.NewHealthHandler(cfg.App.Env, cfg.App.Version, clock),
	}, server.RouterConfig{
		AllowOrigins: cfg.App.AllowOrigins,
		SecretKey:    cfg.App.SecretKey,
		PublicDir:    cfg.App.PublicDir,
	})

	g, ctx := errgroup.WithContext(ctx)

	app := cfg.App
	logger.GetLogger().WithFields(map[string]interface{}{"port": app.Port, "tls": app.TLSEnabled}).Info("Starting application")
	httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		var err error
		if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile)
		} else {
			if app.TLSEnabled {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			}
			err = httpServer.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server shutdown failed")
	}
	b.close(shutdownCtx)

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

func scriptBaseURL(cfg configuration.Config) string {
	if cfg.Cafe24.ScriptBaseURL != "" {
		return cfg.Cafe24.ScriptBaseURL
	}
	scheme := "http"
	if cfg.App.TLSEnabled {
		scheme = "https"
	}
	return fmt.Sprintf("%s://localhost:%d", scheme, cfg.App.Port)
}

func (b *backends) postgres() *sql.DB {
	if b.psql != nil {
		return b.psql
	}
	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("PostgreSQL not available")
		return nil
	}
	b.psql = db
	return db
}

func (b *backends) sqlServer() *sql.DB {
	if b.mssql != nil {
		return b.mssql
	}
	db, err := persistence.NewMSSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("SQL Server not available")
		return nil
	}
	b.mssql = db
	return db
}

func newTokenStore(b *backends, driver string) repository.IOAuthToken {
	switch driver {
	case "postgres":
		if db := b.postgres(); db != nil {
			if err := persistence.EnsureOAuthTokenSchema(db); err != nil {
				logger.GetLogger().WithField("error", err).Error("failed ensuring oauth token schema")
				break
			}
			return persistence.NewOAuthTokenRepository(db)
		}
	case "mssql":
		if db := b.sqlServer(); db != nil {
			if err := persistence.EnsureOAuthTokenSchemaMSSQL(db); err != nil {
				logger.GetLogger().WithField("error", err).Error("failed ensuring oauth token schema")
				break
			}
			return persistence.NewOAuthTokenRepositoryMSSQL(db)
		}
	case "memory":
		return persistence.NewOAuthTokenRepositoryMemory()
	}
	logger.GetLogger().WithField("token_store", driver).Warn("Falling back to in-memory token store")
	return persistence.NewOAuthTokenRepositoryMemory()
}

func newReviewCache(ctx context.Context, b *backends, cfg configuration.Config, clock utils.Clock) repository.IReviewCache {
	ttl := cfg.Review.TTL()
	switch cfg.Storage.CacheDriver {
	case "redis":
		addr := fmt.Sprintf("%s:%s", cfg.RedisClient.Host, cfg.RedisClient.Port)
		client, err := cache.NewCache(ctx, addr, cfg.RedisClient.Username, cfg.RedisClient.Password, cfg.RedisClient.DB)
		if err == nil {
			b.closers = append(b.closers, func(context.Context) { _ = client.Close() })
			return cache.NewReviewCache(client, ttl, clock)
		}
		logger.GetLogger().WithField("error", err).Warn("Redis not available")
	case "postgres":
		if db := b.postgres(); db != nil {
			if err := persistence.EnsureReviewCacheSchema(db); err != nil {
				logger.GetLogger().WithField("error", err).Error("failed ensuring review cache schema")
				break
			}
			return persistence.NewReviewCacheRepository(db, ttl, clock)
		}
	case "mssql":
		if db := b.sqlServer(); db != nil {
			if err := persistence.EnsureReviewCacheSchemaMSSQL(db); err != nil {
				logger.GetLogger().WithField("error", err).Error("failed ensuring review cache schema")
				break
			}
			return persistence.NewReviewCacheRepositoryMSSQL(db, ttl, clock)
		}
	case "memory":
		return cache.NewMemoryCache(ttl, clock)
	}
	logger.GetLogger().WithField("cache_driver", cfg.Storage.CacheDriver).Warn("Falling back to in-memory review cache")
	return cache.NewMemoryCache(ttl, clock)
}

func newSettingsStore(ctx context.Context, b *backends, cfg configuration.Config) repository.ISettings {
	switch cfg.Storage.SettingsStore {
	case "mongo":
		mongoCfg := cfg.Database.Mongo
		client, err := persistence.NewMongoDb(mongoCfg.Host, mongoCfg.Port, mongoCfg.User, mongoCfg.Password, mongoCfg.Name)
		if err == nil {
			err = client.Ping(ctx, nil)
		}
		if err == nil {
			b.mongo = client
			logger.GetLogger().Info("MongoDB connected successfully")
			return persistence.NewSettingsRepositoryMongo(client, mongoCfg.Name)
		}
		logger.GetLogger().WithField("error", err).Warn("MongoDB not available")
	case "postgres":
		if db := b.postgres(); db != nil {
			if err := persistence.EnsureSettingsSchema(db); err != nil {
				logger.GetLogger().WithField("error", err).Error("failed ensuring settings schema")
				break
			}
			return persistence.NewSettingsRepository(db)
		}
	case "memory":
		return persistence.NewSettingsRepositoryMemory()
	}
	logger.GetLogger().WithField("settings_store", cfg.Storage.SettingsStore).Warn("Falling back to in-memory settings store")
	return persistence.NewSettingsRepositoryMemory()
}

func newEventPublisher(ctx context.Context, b *backends, cfg configuration.Config) repository.IEventPublisher {
	switch cfg.Storage.EventPublisher {
	case "pubsub":
		client, err := pubsub.NewPubSub(ctx, cfg.Pubsub.ProjectID)
		if err == nil {
			publisher := pubsub.NewEventPublisher(client, cfg.Pubsub.Topic)
			b.closers = append(b.closers, func(context.Context) {
				publisher.Close()
				_ = client.Close()
			})
			return publisher
		}
		logger.GetLogger().WithField("error", err).Warn("PubSub not available")
	case "servicebus":
		client, err := servicebus.NewServiceBus(ctx, cfg.ServiceBus.Namespace, cfg.ServiceBus.ConnectionString)
		if err == nil {
			var publisher *servicebus.EventPublisher
			publisher, err = servicebus.NewEventPublisher(client, cfg.ServiceBus.Queue)
			if err == nil {
				b.closers = append(b.closers, func(ctx context.Context) {
					publisher.Close(ctx)
					_ = client.Close(ctx)
				})
				return publisher
			}
		}
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available")
	}
	return events.NewLogPublisher()
}
