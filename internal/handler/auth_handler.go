package handler

import (
	"net/http"
	"time"

	"planet-beauty/internal/middleware"
	"planet-beauty/internal/model"
	"planet-beauty/internal/service"

	"github.com/rs/zerolog"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler handles signup, login and session endpoints.
type AuthHandler struct {
	service service.AuthService
	cookie  CookieConfig
	logger  zerolog.Logger
}

func NewAuthHandler(service service.AuthService, cookie CookieConfig, logger zerolog.Logger) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	return &AuthHandler{
		service: service,
		cookie:  cookie,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	h.setCookie(w, resp.Token, h.cookie.TTL)
	writeSuccess(w, http.StatusCreated, resp, "Account created successfully")
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	h.setCookie(w, resp.Token, h.cookie.TTL)
	writeSuccess(w, http.StatusOK, resp, "Login successful")
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setCookie(w, "", -1)
	writeSuccess(w, http.StatusOK, nil, "Logged out successfully")
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Me(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, user, "")
}

// setCookie writes the session cookie. A negative ttl deletes it.
func (h *AuthHandler) setCookie(w http.ResponseWriter, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
