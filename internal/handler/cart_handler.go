package handler

import (
	"net/http"

	"planet-beauty/internal/middleware"
	"planet-beauty/internal/model"
	"planet-beauty/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles the authenticated cart endpoints. Routes are mounted behind RequireAuth.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	cart, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, cart, "")
}

// Add handles POST /api/cart. Quantity defaults to 1.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req model.AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "Product ID is required", h.logger)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.service.Add(r.Context(), userID, req.ProductID, quantity)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, cart, "Item added to cart")
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), userID); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, nil, "Cart cleared")
}

// Update handles PATCH /api/cart/{productId}.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req model.UpdateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.SetQuantity(r.Context(), userID, chi.URLParam(r, "productId"), req.Quantity)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, cart, "Cart updated")
}

// Remove handles DELETE /api/cart/{productId}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	cart, err := h.service.Remove(r.Context(), userID, chi.URLParam(r, "productId"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, cart, "Item removed from cart")
}

// Merge handles POST /api/cart/merge.
func (h *CartHandler) Merge(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req model.MergeCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	result, err := h.service.Merge(r.Context(), userID, req.Items)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, result, "Cart merged")
}

func (h *CartHandler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity := middleware.IdentityFrom(r.Context())
	if identity == nil {
		writeServiceError(w, r, model.ErrUnauthenticated, h.logger)
		return "", false
	}
	return identity.UserID.String(), true
}
