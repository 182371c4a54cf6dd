package di

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/duscraft/garry/internal/app"
	"github.com/duscraft/garry/internal/config"
	"github.com/duscraft/garry/internal/database"
	"github.com/duscraft/garry/internal/http/handler"
	"github.com/duscraft/garry/internal/http/middleware"
	"github.com/duscraft/garry/internal/http/router"
	"github.com/duscraft/garry/internal/repository"
	"github.com/duscraft/garry/internal/security"
	"github.com/duscraft/garry/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(provideLogger)

var RuntimeInfraSet = wire.NewSet(provideDB, provideRedisClient)

var RepositorySet = wire.NewSet(repository.NewWarrantyRepository)

var SecuritySet = wire.NewSet(provideJWTManager)

var ServiceSet = wire.NewSet(provideStatsCache, provideReceiptStorage)

var HTTPSet = wire.NewSet(
	handler.NewWarrantyHandler,
	handler.NewCategoryHandler,
	provideHealthHandler,
	provideRateLimiter,
	provideRouterDependencies,
	router.New,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelDebug
	if cfg.IsProduction() {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func provideDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// provideRedisClient returns nil when REDIS_URL is unset; callers treat
// a nil client as "redis not configured" and fall back to local
// implementations.
func provideRedisClient(cfg *config.Config, logger *slog.Logger) (redis.UniversalClient, error) {
	if cfg.RedisURL == "" {
		logger.Info("redis not configured, using in-process fallbacks")
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTSecret)
}

func provideStatsCache(client redis.UniversalClient, cfg *config.Config) service.StatsCache {
	if client == nil {
		return service.NewNoopStatsCache()
	}
	return service.NewRedisStatsCache(client, "garry:stats", cfg.StatsCacheTTL)
}

func provideReceiptStorage(cfg *config.Config, logger *slog.Logger) (service.ReceiptStorage, error) {
	if !cfg.MinIOConfigured() {
		logger.Info("object storage not configured, receipt uploads use static paths")
		return service.NewLocalReceiptStorage(), nil
	}
	return service.NewMinIOReceiptStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL)
}

func provideRateLimiter(client redis.UniversalClient, cfg *config.Config, jwtMgr *security.JWTManager) *middleware.RateLimiter {
	var limiter middleware.Limiter
	if client != nil {
		limiter = middleware.NewRedisFixedWindowLimiter(client, "garry:ratelimit")
	} else {
		limiter = middleware.NewLocalFixedWindowLimiter()
	}
	return middleware.NewRateLimiter(limiter, cfg.RateLimitPerMin, time.Minute, middleware.FailOpen, middleware.SubjectOrIPKeyFunc(jwtMgr))
}

func provideHealthHandler(db *gorm.DB, client redis.UniversalClient) *handler.HealthHandler {
	return handler.NewHealthHandler(db, client)
}

func provideRouterDependencies(
	warrantyHandler *handler.WarrantyHandler,
	categoryHandler *handler.CategoryHandler,
	healthHandler *handler.HealthHandler,
	jwtMgr *security.JWTManager,
	rateLimiter *middleware.RateLimiter,
	logger *slog.Logger,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		WarrantyHandler: warrantyHandler,
		CategoryHandler: categoryHandler,
		HealthHandler:   healthHandler,
		JWTManager:      jwtMgr,
		RateLimiter:     rateLimiter,
		CORSOrigins:     cfg.CORSOrigins,
		Logger:          logger,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
