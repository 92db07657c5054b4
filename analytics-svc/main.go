package main

import (
	httpapi "github.com/nazarkrivolesov/kitchen-2.0/analytics-svc/internal/api/http"
	"github.com/nazarkrivolesov/kitchen-2.0/analytics-svc/internal/service"
	"github.com/nazarkrivolesov/kitchen-2.0/analytics-svc/internal/storage"
	"github.com/nazarkrivolesov/kitchen-2.0/config"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

func main() {
	cfg := config.Load("8083")
	logger := config.NewLogger("analytics-svc")
	if cfg.UsesDevSecret() {
		logger.Warn().Msg("JWT_SECRET is not set, using the development secret")
	}

	db := config.MustInitPostgres(logger)
	defer db.Close()

	rdb := config.MustInitRedis(logger)
	defer rdb.Close()

	analyticsService := service.NewAnalyticsService(rdb, storage.NewPostgresDishNames(db), logger)

	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL, session.NewRedisRevocations(rdb))
	router := httpapi.NewRouter(httpapi.NewHandler(analyticsService), sessions, logger)

	if err := httpapi.StartServer(":"+cfg.Port, router, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
