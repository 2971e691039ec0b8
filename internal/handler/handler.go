// Package handler adapts services to the JSON HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"planet-beauty/internal/model"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

var errInvalidJSON = model.NewDomainError(model.KindValidation, model.ErrCodeInvalidJSON, "Invalid JSON body")

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeSuccess writes a success envelope.
func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, Response{Success: true, Data: data, Message: message})
}

// writeError writes an error envelope with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Debug().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, Response{Success: false, Error: message})
}

// writeServiceError maps a service error onto the envelope. Errors that are not
// DomainErrors are logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	de, ok := model.AsDomainError(err)
	if !ok {
		logger.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("unhandled service error")
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal server error"})
		return
	}

	status := statusFor(de)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("code", de.Code).
			Msg("service failure")
	}
	writeError(w, status, de.Message, logger)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(de *model.DomainError) int {
	switch de.Kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindAuth:
		return http.StatusUnauthorized
	case model.KindForbidden:
		return http.StatusForbidden
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindConflict:
		// A taken slot is reported to the booking form as a bad request.
		if de.Code == model.ErrCodeSlotTaken {
			return http.StatusBadRequest
		}
		return http.StatusConflict
	case model.KindUpstream:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.Invalid("request body too large")
		}
		if errors.Is(err, io.EOF) {
			return model.Invalid("request body is required")
		}
		return errInvalidJSON
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.Invalid("invalid %s parameter", key)
	}
	return n, nil
}

func parseUUID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.Invalid("invalid %s ID format", what)
	}
	return id, nil
}
