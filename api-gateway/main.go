package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/nazarkrivolesov/kitchen-2.0/api-gateway/internal/gateway"
	"github.com/nazarkrivolesov/kitchen-2.0/api-gateway/internal/realtime"
	"github.com/nazarkrivolesov/kitchen-2.0/config"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

func main() {
	cfg := config.Load("8080")
	logger := config.NewLogger("api-gateway")
	if cfg.UsesDevSecret() {
		logger.Warn().Msg("JWT_SECRET is not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(logger)
	defer rdb.Close()

	hub := realtime.NewHub(logger)
	go func() {
		for {
			err := realtime.NewSubscriber(rdb, hub, logger).Run(ctx)
			if ctx.Err() != nil {
				return
			}
			logger.Error().Err(err).Msg("realtime subscriber stopped, restarting")
			time.Sleep(time.Second)
		}
	}()

	gw := gateway.NewGateway(gateway.Config{
		CatalogSvcURL:   cfg.CatalogSvcURL,
		OrderSvcURL:     cfg.OrderSvcURL,
		AuthSvcURL:      cfg.AuthSvcURL,
		AnalyticsSvcURL: cfg.AnalyticsSvcURL,
	}, &http.Client{Timeout: 30 * time.Second}, logger)

	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL, session.NewRedisRevocations(rdb))
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: c.Handler(gw.SetupRoutes(hub, sessions))}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", server.Addr).Msg("api gateway starting")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
