package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/nazarkrivolesov/kitchen-2.0/analytics-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/analytics-svc/internal/service"
	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

type Handler struct {
	Analytics service.AnalyticsInterface
}

func NewHandler(svc service.AnalyticsInterface) *Handler {
	return &Handler{Analytics: svc}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.Handle("/api/analytics/top-dishes", session.RequireAdminFunc(h.getTopDishes)).Methods("GET")
	r.Handle("/api/analytics/summary", session.RequireAdminFunc(h.getSummary)).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	apperr.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "analytics-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getTopDishes(w http.ResponseWriter, r *http.Request) {
	query := domain.TopQuery{Period: domain.Period(r.URL.Query().Get("period"))}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			v := &apperr.ValidationError{}
			v.Add("limit", "must be a number")
			apperr.Write(w, v)
			return
		}
		query.Limit = limit
	}

	stats, err := h.Analytics.TopDishes(r.Context(), query)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Analytics.Summary(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		apperr.Write(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, summary)
}
