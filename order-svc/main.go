package main

import (
	"context"
	"net/http"
	"time"

	"github.com/nazarkrivolesov/kitchen-2.0/config"
	httpapi "github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/api/http"
	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/service"
	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/storage"
	"github.com/nazarkrivolesov/kitchen-2.0/ratelim"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

func main() {
	cfg := config.Load("8082")
	logger := config.NewLogger("order-svc")
	if cfg.UsesDevSecret() {
		logger.Warn().Msg("JWT_SECRET is not set, using the development secret")
	}
	ctx := context.Background()

	mongoDB := config.MustInitMongo(ctx, logger, cfg)
	defer mongoDB.Client().Disconnect(ctx)

	rdb := config.MustInitRedis(logger)
	defer rdb.Close()

	kafkaWriter := config.NewKafkaWriter(storage.OrdersTopic)
	defer kafkaWriter.Close()

	repo := storage.NewMongoRepository(mongoDB)
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to ensure order indexes")
	}

	carts := storage.NewHTTPCartClient(cfg.CatalogSvcURL, &http.Client{Timeout: 5 * time.Second})
	orderService := service.NewOrderService(
		repo,
		carts,
		storage.NewKafkaPublisher(kafkaWriter),
		storage.NewRedisNotifier(rdb),
		service.NewTrackingQRGenerator(cfg.PublicBaseURL),
		logger,
	)

	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL, session.NewRedisRevocations(rdb))
	handler := httpapi.NewHandler(orderService, ratelim.NewRateLimiter(10, 5))
	router := httpapi.NewRouter(handler, sessions, logger)

	if err := httpapi.StartServer(":"+cfg.Port, router, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
