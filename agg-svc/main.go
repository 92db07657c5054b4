package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/nazarkrivolesov/kitchen-2.0/agg-svc/internal/service"
	"github.com/nazarkrivolesov/kitchen-2.0/agg-svc/internal/storage"
	"github.com/nazarkrivolesov/kitchen-2.0/config"
)

func main() {
	config.Load("")
	logger := config.NewLogger("agg-svc")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(logger)
	defer rdb.Close()

	reader := config.NewKafkaReader(config.GetEnv("KAFKA_TOPIC", "orders"), config.GetEnv("KAFKA_GROUP_ID", "agg-svc"))
	defer reader.Close()

	consumer := service.NewConsumer(reader, storage.NewStore(rdb), logger)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("consumer stopped")
	}
	logger.Info().Msg("consumer shut down")
}
