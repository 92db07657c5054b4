package gateway

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nazarkrivolesov/kitchen-2.0/api-gateway/internal/realtime"
	"github.com/nazarkrivolesov/kitchen-2.0/middleware"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

// SetupRoutes mounts the health check, the websocket feeds and the proxy.
// The menu feed is public; the orders feed needs an administrator token.
func (g *Gateway) SetupRoutes(hub *realtime.Hub, sessions *session.Manager) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.AccessLog(g.logger))
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	if hub != nil {
		r.Handle("/ws/menu", hub.Feed(realtime.MenuChannel)).Methods("GET")
		r.Handle("/ws/orders", sessions.Middleware(session.RequireAdmin(hub.Feed(realtime.OrdersChannel)))).Methods("GET")
	}
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}
