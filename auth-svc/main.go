package main

import (
	"context"
	"time"

	httpapi "github.com/nazarkrivolesov/kitchen-2.0/auth-svc/internal/api/http"
	"github.com/nazarkrivolesov/kitchen-2.0/auth-svc/internal/service"
	"github.com/nazarkrivolesov/kitchen-2.0/auth-svc/internal/storage"
	"github.com/nazarkrivolesov/kitchen-2.0/config"
	"github.com/nazarkrivolesov/kitchen-2.0/ratelim"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

func main() {
	cfg := config.Load("8084")
	logger := config.NewLogger("auth-svc")
	if cfg.UsesDevSecret() {
		logger.Warn().Msg("JWT_SECRET is not set, using the development secret")
	}
	ctx := context.Background()

	db := config.MustInitPostgres(logger)
	defer db.Close()

	rdb := config.MustInitRedis(logger)
	defer rdb.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL, session.NewRedisRevocations(rdb))
	attempts := storage.NewRedisLoginAttempts(rdb, 5, 15*time.Minute)
	authService := service.NewAuthService(repo, attempts, sessions, logger)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authService.Bootstrap(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Fatal().Err(err).Msg("failed to bootstrap admin account")
		}
	} else {
		logger.Warn().Msg("ADMIN_EMAIL/ADMIN_PASSWORD not set, no admin account bootstrapped")
	}

	handler := httpapi.NewHandler(authService, ratelim.NewRateLimiter(10, 5))
	router := httpapi.NewRouter(handler, sessions, logger)

	if err := httpapi.StartServer(":"+cfg.Port, router, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
