package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/service"
	"github.com/nazarkrivolesov/kitchen-2.0/ratelim"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

type Handler struct {
	Orders   service.OrderServiceInterface
	Checkout *ratelim.RateLimiter
}

func NewHandler(orderSvc service.OrderServiceInterface, checkoutLimiter *ratelim.RateLimiter) *Handler {
	return &Handler{
		Orders:   orderSvc,
		Checkout: checkoutLimiter,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	placeOrder := http.Handler(http.HandlerFunc(h.placeOrder))
	if h.Checkout != nil {
		placeOrder = h.Checkout.Limit(placeOrder)
	}
	r.Handle("/api/orders", placeOrder).Methods("POST")
	r.Handle("/api/orders", session.RequireAdminFunc(h.listOrders)).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getQRCode).Methods("GET")
	r.Handle("/api/orders/{id}/status", session.RequireAdminFunc(h.updateStatus)).Methods("POST")
	r.Handle("/api/orders/{id}/cancel", session.RequireAdminFunc(h.cancelOrder)).Methods("POST")
}

type placeOrderRequest struct {
	CartID   string          `json:"cart_id"`
	Customer domain.Customer `json:"customer"`
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	apperr.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.PlaceOrder(r.Context(), req.CartID, req.Customer)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	apperr.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"order":   order,
		"summary": order.Summary(),
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context(), domain.Status(r.URL.Query().Get("status")))
	if err != nil {
		apperr.Write(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, orders)
}

// getOrder serves the tracking page. Only administrators see the customer.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if _, ok := session.Admin(session.FromContext(r.Context())); ok {
		apperr.WriteJSON(w, http.StatusOK, order)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, order.Tracking())
}

func (h *Handler) getQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Orders.TrackingQRCode(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		apperr.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status domain.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Status == "" {
		http.Error(w, "status is required", http.StatusBadRequest)
		return
	}

	actor := session.Actor(session.FromContext(r.Context()))
	order, err := h.Orders.AdvanceStatus(r.Context(), mux.Vars(r)["id"], payload.Status, actor)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	actor := session.Actor(session.FromContext(r.Context()))
	order, err := h.Orders.CancelOrder(r.Context(), mux.Vars(r)["id"], actor)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	apperr.WriteJSON(w, http.StatusOK, order)
}
