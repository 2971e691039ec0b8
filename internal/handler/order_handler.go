package handler

import (
	"net/http"

	"planet-beauty/internal/middleware"
	"planet-beauty/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// OrderHandler handles the caller's order history.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /api/orders?page=&limit=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	orders, err := h.service.List(r.Context(), middleware.IdentityFrom(r.Context()), page, limit)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, orders, "")
}

// GetByID handles GET /api/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"), "order")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), middleware.IdentityFrom(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, order, "")
}
