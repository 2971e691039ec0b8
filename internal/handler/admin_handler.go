package handler

import (
	"net/http"

	"planet-beauty/internal/middleware"
	"planet-beauty/internal/model"
	"planet-beauty/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AdminHandler serves the back-office endpoints. Routes are mounted behind RequireAdmin.
type AdminHandler struct {
	orders   service.OrderService
	bookings service.BookingService
	logger   zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(orders service.OrderService, bookings service.BookingService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		orders:   orders,
		bookings: bookings,
		logger:   logger.With().Str("handler", "admin").Logger(),
	}
}

// ListOrders handles GET /api/admin/orders. Admin identities see every order.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
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

	orders, err := h.orders.List(r.Context(), middleware.IdentityFrom(r.Context()), page, limit)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, orders, "")
}

// UpdateOrderStatus handles PATCH /api/admin/orders/{id}/status.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"), "order")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	var req model.OrderStatusUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	h.logger.Info().
		Str("order_id", id.String()).
		Str("status", string(order.Status)).
		Msg("order status updated")
	writeSuccess(w, http.StatusOK, order, "Order updated successfully")
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, stats, "")
}

// ListBookings handles GET /api/admin/bookings?status=.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter := model.BookingFilter{Status: model.BookingStatus(r.URL.Query().Get("status"))}

	bookings, err := h.bookings.List(r.Context(), middleware.IdentityFrom(r.Context()), filter)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, bookings, "")
}

func (h *AdminHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"), "booking")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	booking, err := h.bookings.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, booking, "")
}

func (h *AdminHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"), "booking")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	var req model.BookingUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	booking, err := h.bookings.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, booking, "Booking updated successfully")
}

func (h *AdminHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"), "booking")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if err := h.bookings.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, nil, "Booking deleted successfully")
}
