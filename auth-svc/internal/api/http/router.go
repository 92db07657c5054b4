package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/nazarkrivolesov/kitchen-2.0/middleware"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

func NewRouter(handler *Handler, sessions *session.Manager, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.AccessLog(logger))
	r.Use(sessions.Middleware)
	handler.RegisterRoutes(r)
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)
}

func StartServer(addr string, handler http.Handler, logger zerolog.Logger) error {
	logger.Info().Str("addr", addr).Msg("auth service starting")
	return http.ListenAndServe(addr, handler)
}
