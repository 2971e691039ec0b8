package handler

import (
	"io"
	"net/http"

	"planet-beauty/internal/middleware"
	"planet-beauty/internal/model"
	"planet-beauty/internal/payment"
	"planet-beauty/internal/service"

	"github.com/rs/zerolog"
)

// WebhookParser verifies a provider webhook delivery.
type WebhookParser func(payload []byte, signature, secret string) (*payment.WebhookEvent, error)

// CheckoutHandler handles session creation, verification and provider webhooks.
type CheckoutHandler struct {
	checkout      service.CheckoutService
	orders        service.OrderService
	webhookSecret string
	parseWebhook  WebhookParser
	logger        zerolog.Logger
}

func NewCheckoutHandler(
	checkout service.CheckoutService,
	orders service.OrderService,
	webhookSecret string,
	logger zerolog.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:      checkout,
		orders:        orders,
		webhookSecret: webhookSecret,
		parseWebhook:  payment.ParseWebhook,
		logger:        logger.With().Str("handler", "checkout").Logger(),
	}
}

// Create handles POST /api/checkout. Authentication is optional.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	session, err := h.checkout.CreateSession(r.Context(), middleware.IdentityFrom(r.Context()), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, session, "")
}

// Verify handles GET /api/checkout/verify?session_id=.
func (h *CheckoutHandler) Verify(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "Session ID is required", h.logger)
		return
	}

	result, err := h.orders.Reconcile(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	message := "Order already created"
	if result.Created {
		message = "Order created successfully"
	}
	writeSuccess(w, http.StatusOK, result.Order, message)
}

// Webhook handles POST /api/webhooks/stripe. Permanent reconcile failures are
// acknowledged so the provider stops retrying; transient ones return 500.
func (h *CheckoutHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret == "" {
		writeError(w, http.StatusServiceUnavailable, "Webhooks are not configured", h.logger)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body", h.logger)
		return
	}

	event, err := h.parseWebhook(payload, r.Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		h.logger.Warn().Err(err).Msg("rejected webhook")
		writeError(w, http.StatusBadRequest, "Invalid signature", h.logger)
		return
	}

	if event.Type != payment.EventCheckoutCompleted || event.SessionID == "" {
		h.logger.Debug().Str("event_id", event.ID).Str("type", event.Type).Msg("ignoring webhook event")
		writeSuccess(w, http.StatusOK, nil, "Event ignored")
		return
	}

	result, err := h.orders.Reconcile(r.Context(), event.SessionID)
	if err != nil {
		de, ok := model.AsDomainError(err)
		if ok && statusFor(de) < http.StatusInternalServerError {
			h.logger.Warn().Err(err).
				Str("event_id", event.ID).
				Str("session_id", event.SessionID).
				Msg("webhook session not reconcilable")
			writeSuccess(w, http.StatusOK, nil, de.Message)
			return
		}
		writeServiceError(w, r, err, h.logger)
		return
	}

	h.logger.Info().
		Str("event_id", event.ID).
		Str("order_id", result.Order.ID.String()).
		Bool("created", result.Created).
		Msg("webhook reconciled order")
	writeSuccess(w, http.StatusOK, nil, "Event processed")
}
