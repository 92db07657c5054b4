package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
	"github.com/nazarkrivolesov/kitchen-2.0/catalog-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/catalog-svc/internal/service"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

const maxUploadSize = 10 << 20

type Handler struct {
	Dishes    service.DishServiceInterface
	Carts     service.CartServiceInterface
	UploadDir string
}

func NewHandler(dishSvc service.DishServiceInterface, cartSvc service.CartServiceInterface, uploadDir string) *Handler {
	return &Handler{
		Dishes:    dishSvc,
		Carts:     cartSvc,
		UploadDir: uploadDir,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/categories", h.getCategories).Methods("GET")

	r.HandleFunc("/api/dishes", h.getDishes).Methods("GET")
	r.HandleFunc("/api/dishes/{id}", h.getDish).Methods("GET")
	r.Handle("/api/dishes", session.RequireAdminFunc(h.createDish)).Methods("POST")
	r.Handle("/api/dishes/{id}", session.RequireAdminFunc(h.updateDish)).Methods("PUT")
	r.Handle("/api/dishes/{id}", session.RequireAdminFunc(h.deleteDish)).Methods("DELETE")
	r.Handle("/api/dishes/{id}/image", session.RequireAdminFunc(h.uploadDishImage)).Methods("POST")
	r.Handle("/api/images", session.RequireAdminFunc(h.uploadImage)).Methods("POST")

	r.HandleFunc("/api/carts", h.createCart).Methods("POST")
	r.HandleFunc("/api/carts/{id}", h.getCart).Methods("GET")
	r.HandleFunc("/api/carts/{id}", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/carts/{id}/items", h.addToCart).Methods("POST")
	r.HandleFunc("/api/carts/{id}/items/{dishId}", h.updateQuantity).Methods("PATCH")
	r.HandleFunc("/api/carts/{id}/items/{dishId}", h.removeFromCart).Methods("DELETE")

	if h.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadDir)))).Methods("GET")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	apperr.WriteJSON(w, status, payload)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "catalog-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	categories := append([]domain.Category{domain.CategoryAll}, domain.Categories...)
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) getDishes(w http.ResponseWriter, r *http.Request) {
	category := domain.Category(r.URL.Query().Get("category"))
	dishes, err := h.Dishes.List(r.Context(), category)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dishes)
}

func (h *Handler) getDish(w http.ResponseWriter, r *http.Request) {
	dish, err := h.Dishes.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

func (h *Handler) createDish(w http.ResponseWriter, r *http.Request) {
	var dish domain.Dish
	if err := json.NewDecoder(r.Body).Decode(&dish); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Dishes.Create(r.Context(), &dish); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dish)
}

func (h *Handler) updateDish(w http.ResponseWriter, r *http.Request) {
	var dish domain.Dish
	if err := json.NewDecoder(r.Body).Decode(&dish); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	dish.ID = mux.Vars(r)["id"]
	if err := h.Dishes.Update(r.Context(), &dish); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	if err := h.Dishes.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		apperr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) uploadDishImage(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, mux.Vars(r)["id"])
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, "")
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request, dishID string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Error retrieving the file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var imageURL string
	if dishID == "" {
		imageURL, err = h.Dishes.StoreImage(r.Context(), file)
	} else {
		imageURL, err = h.Dishes.UploadImage(r.Context(), dishID, file)
	}
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message":   "Image uploaded successfully",
		"image_url": imageURL,
	})
}

func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Carts.Create(r.Context())
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cart.View())
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Carts.Get(r.Context(), mux.Vars(r)["id"])
	h.writeCart(w, cart, err)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DishID string `json:"dish_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.DishID == "" {
		http.Error(w, "dish_id is required", http.StatusBadRequest)
		return
	}
	cart, err := h.Carts.Add(r.Context(), mux.Vars(r)["id"], payload.DishID)
	h.writeCart(w, cart, err)
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Delta *int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Delta == nil {
		http.Error(w, "delta is required", http.StatusBadRequest)
		return
	}
	vars := mux.Vars(r)
	cart, err := h.Carts.UpdateQuantity(r.Context(), vars["id"], vars["dishId"], *payload.Delta)
	h.writeCart(w, cart, err)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cart, err := h.Carts.Remove(r.Context(), vars["id"], vars["dishId"])
	h.writeCart(w, cart, err)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Carts.Clear(r.Context(), mux.Vars(r)["id"])
	h.writeCart(w, cart, err)
}

func (h *Handler) writeCart(w http.ResponseWriter, cart *domain.Cart, err error) {
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart.View())
}
