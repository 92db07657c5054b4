package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
	"github.com/nazarkrivolesov/kitchen-2.0/auth-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/auth-svc/internal/service"
	"github.com/nazarkrivolesov/kitchen-2.0/ratelim"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

type Handler struct {
	Auth  service.AuthServiceInterface
	Login *ratelim.RateLimiter
}

func NewHandler(auth service.AuthServiceInterface, loginLimiter *ratelim.RateLimiter) *Handler {
	return &Handler{Auth: auth, Login: loginLimiter}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	login := http.Handler(http.HandlerFunc(h.login))
	if h.Login != nil {
		login = h.Login.Limit(login)
	}
	r.Handle("/api/auth/login", login).Methods("POST")
	r.HandleFunc("/api/auth/logout", h.logout).Methods("POST")
	r.HandleFunc("/api/auth/session", h.session).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	apperr.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "auth-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	result, err := h.Auth.Login(r.Context(), creds)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context(), session.BearerToken(r)); err != nil {
		apperr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	AdminID       string     `json:"admin_id,omitempty"`
	Email         string     `json:"email,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{}
	if admin, ok := session.Admin(session.FromContext(r.Context())); ok {
		resp = sessionResponse{Authenticated: true, AdminID: admin.AdminID, Email: admin.Email, ExpiresAt: &admin.ExpiresAt}
	}
	apperr.WriteJSON(w, http.StatusOK, resp)
}
