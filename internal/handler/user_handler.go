package handler

import (
	"net/http"

	"planet-beauty/internal/middleware"
	"planet-beauty/internal/model"
	"planet-beauty/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// UserHandler serves account profiles.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("handler", "user").Logger(),
	}
}

// GetByID handles GET /api/users/{id}.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"), "user")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	user, err := h.service.Get(r.Context(), middleware.IdentityFrom(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, user, "")
}

// Update handles PUT /api/users/{id}. Fields outside UserUpdate are ignored.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"), "user")
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	var req model.UserUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	user, err := h.service.Update(r.Context(), middleware.IdentityFrom(r.Context()), id, &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, user, "Profile updated successfully")
}

// List handles GET /api/admin/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	users, err := h.service.List(r.Context(), middleware.IdentityFrom(r.Context()), page, limit)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, users, "")
}
