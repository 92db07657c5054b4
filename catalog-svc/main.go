package main

import (
	"context"
	"time"

	httpapi "github.com/nazarkrivolesov/kitchen-2.0/catalog-svc/internal/api/http"
	"github.com/nazarkrivolesov/kitchen-2.0/catalog-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/catalog-svc/internal/service"
	"github.com/nazarkrivolesov/kitchen-2.0/catalog-svc/internal/storage"
	"github.com/nazarkrivolesov/kitchen-2.0/config"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

func main() {
	cfg := config.Load("8081")
	logger := config.NewLogger("catalog-svc")
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
	if n, err := repo.SeedMenu(ctx, domain.StarterMenu()); err != nil {
		logger.Error().Err(err).Msg("failed to seed menu")
	} else if n > 0 {
		logger.Info().Int("dishes", n).Msg("seeded starter menu")
	}

	carts := storage.NewRedisCartStore(rdb, 7*24*time.Hour)
	notifier := storage.NewRedisNotifier(rdb)
	blobs := storage.NewLocalBlobStore(cfg.UploadDir)

	dishService := service.NewDishService(repo, carts, notifier, blobs, service.NewJPEGProcessor(), logger)
	cartService := service.NewCartService(carts, repo)

	if menu, err := repo.ListDishes(ctx); err == nil {
		if err := notifier.PublishMenu(ctx, menu); err != nil {
			logger.Warn().Err(err).Msg("initial menu snapshot not published")
		}
	}

	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL, session.NewRedisRevocations(rdb))
	handler := httpapi.NewHandler(dishService, cartService, cfg.UploadDir)
	router := httpapi.NewRouter(handler, sessions, logger)

	if err := httpapi.StartServer(":"+cfg.Port, router, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
