package gateway

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	CatalogSvcURL   string
	OrderSvcURL     string
	AuthSvcURL      string
	AnalyticsSvcURL string
}

type route struct {
	prefix  string
	service string
	target  string
}

type Gateway struct {
	routes []route
	client HTTPClient
	logger zerolog.Logger
}

func NewGateway(config Config, client HTTPClient, logger zerolog.Logger) *Gateway {
	return &Gateway{
		routes: []route{
			{prefix: "/api/dishes", service: "catalog-svc", target: config.CatalogSvcURL},
			{prefix: "/api/categories", service: "catalog-svc", target: config.CatalogSvcURL},
			{prefix: "/api/carts", service: "catalog-svc", target: config.CatalogSvcURL},
			{prefix: "/api/images", service: "catalog-svc", target: config.CatalogSvcURL},
			{prefix: "/uploads", service: "catalog-svc", target: config.CatalogSvcURL},
			{prefix: "/api/orders", service: "order-svc", target: config.OrderSvcURL},
			{prefix: "/api/auth", service: "auth-svc", target: config.AuthSvcURL},
			{prefix: "/api/analytics", service: "analytics-svc", target: config.AnalyticsSvcURL},
		},
		client: client,
		logger: logger,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	apperr.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "api-gateway",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (g *Gateway) match(path string) (route, bool) {
	for _, rt := range g.routes {
		if path == rt.prefix || strings.HasPrefix(path, rt.prefix+"/") {
			return rt, true
		}
	}
	return route{}, false
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, rt route) {
	url := rt.target + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.logger.Error().Err(err).Str("url", url).Msg("build upstream request")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		if prior := r.Header.Get("X-Forwarded-For"); prior != "" {
			host = prior + ", " + host
		}
		req.Header.Set("X-Forwarded-For", host)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error().Err(err).Str("upstream", rt.service).Str("path", r.URL.Path).Msg("proxy failed")
		apperr.Write(w, apperr.External(rt.service, r.Method+" "+r.URL.Path, err))
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil && !errors.Is(err, r.Context().Err()) {
		g.logger.Warn().Err(err).Str("upstream", rt.service).Msg("copy upstream response")
	}
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	rt, ok := g.match(r.URL.Path)
	if !ok {
		http.Error(w, "route not found", http.StatusNotFound)
		return
	}
	g.ProxyRequest(w, r, rt)
}
