package handler

import (
	"net/http"
	"strconv"

	"planet-beauty/internal/middleware"
	"planet-beauty/internal/model"
	"planet-beauty/internal/service"

	"github.com/rs/zerolog"
)

// BookingHandler handles salon services and customer bookings.
type BookingHandler struct {
	service service.BookingService
	logger  zerolog.Logger
}

func NewBookingHandler(service service.BookingService, logger zerolog.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		logger:  logger.With().Str("handler", "booking").Logger(),
	}
}

// ListServices handles GET /api/salon/services?category=&featured=.
func (h *BookingHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	filter := model.SalonServiceFilter{Category: r.URL.Query().Get("category")}
	if raw := r.URL.Query().Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid featured parameter", h.logger)
			return
		}
		filter.Featured = featured
	}

	services, err := h.service.ListServices(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, services, "")
}

// Create handles POST /api/salon/bookings. Guests may book.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	booking, err := h.service.Create(r.Context(), middleware.IdentityFrom(r.Context()), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusCreated, booking, "Booking created successfully")
}

// List handles GET /api/salon/bookings?status= for the caller.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.BookingFilter{Status: model.BookingStatus(r.URL.Query().Get("status"))}

	bookings, err := h.service.List(r.Context(), middleware.IdentityFrom(r.Context()), filter)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, bookings, "")
}
