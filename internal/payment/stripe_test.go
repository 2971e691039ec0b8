package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *StripeProvider {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return NewStripeProvider("sk_test_123", backend, zerolog.Nop())
}

func writeStripeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestStripeProvider_CreateSession(t *testing.T) {
	var form map[string][]string
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = r.PostForm

		writeStripeJSON(w, http.StatusOK, map[string]any{
			"id":             "cs_test_1",
			"object":         "checkout.session",
			"url":            "https://checkout.stripe.com/c/pay/cs_test_1",
			"payment_status": "unpaid",
		})
	})

	s, err := provider.CreateSession(context.Background(), CreateSessionParams{
		Currency:      "usd",
		CustomerEmail: "guest@example.com",
		SuccessURL:    "http://shop/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     "http://shop/cart",
		Metadata:      map[string]string{MetaCartItems: `[{"productId":"P1","quantity":2}]`},
		LineItems: []LineItem{
			{Name: "Serum", Description: "Planet", Image: "https://img/x.jpg", UnitAmount: 2500, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_1", s.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", s.URL)
	assert.False(t, s.Paid)

	assert.Equal(t, []string{"payment"}, form["mode"])
	assert.Equal(t, []string{"card"}, form["payment_method_types[0]"])
	assert.Equal(t, []string{"guest@example.com"}, form["customer_email"])
	assert.Equal(t, []string{"2500"}, form["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, []string{"usd"}, form["line_items[0][price_data][currency]"])
	assert.Equal(t, []string{"Serum"}, form["line_items[0][price_data][product_data][name]"])
	assert.Equal(t, []string{"2"}, form["line_items[0][quantity]"])
	assert.Equal(t, []string{`[{"productId":"P1","quantity":2}]`}, form["metadata[cart_items]"])
	assert.Equal(t, []string{"http://shop/success?session_id={CHECKOUT_SESSION_ID}"}, form["success_url"])
}

func TestStripeProvider_GetSession(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)

		switch r.URL.Path {
		case "/v1/checkout/sessions/cs_paid":
			writeStripeJSON(w, http.StatusOK, map[string]any{
				"id":               "cs_paid",
				"object":           "checkout.session",
				"payment_status":   "paid",
				"amount_total":     5000,
				"customer_details": map[string]any{"email": "buyer@example.com"},
				"metadata":         map[string]string{"user_id": "u1"},
			})
		case "/v1/checkout/sessions/cs_missing":
			writeStripeJSON(w, http.StatusNotFound, map[string]any{
				"error": map[string]any{
					"type":    "invalid_request_error",
					"code":    "resource_missing",
					"message": "No such checkout.session: 'cs_missing'",
				},
			})
		default:
			writeStripeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": map[string]any{"type": "api_error", "message": "boom"},
			})
		}
	})

	t.Run("Paid session", func(t *testing.T) {
		s, err := provider.GetSession(context.Background(), "cs_paid")
		require.NoError(t, err)
		assert.True(t, s.Paid)
		assert.Equal(t, "paid", s.PaymentStatus)
		assert.Equal(t, int64(5000), s.AmountTotal)
		assert.Equal(t, "buyer@example.com", s.CustomerEmail)
		assert.Equal(t, "u1", s.Metadata["user_id"])
	})

	t.Run("Unknown session", func(t *testing.T) {
		_, err := provider.GetSession(context.Background(), "cs_missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Provider failure", func(t *testing.T) {
		_, err := provider.GetSession(context.Background(), "cs_broken")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrSessionNotFound)
		assert.Contains(t, err.Error(), "failed to retrieve checkout session")
	})
}
