// Package router assembles the HTTP routes and middleware chain.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"planet-beauty/internal/handler"
	"planet-beauty/internal/metrics"
	"planet-beauty/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the feature handlers mounted under /api.
type Handlers struct {
	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Orders   *handler.OrderHandler
	Bookings *handler.BookingHandler
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Admin    *handler.AdminHandler
}

// Options configures the cross-cutting middleware.
type Options struct {
	Tokens         middleware.TokenParser
	CookieName     string
	AllowedOrigins []string
	RequestTimeout time.Duration
	MetricsAPIKey  string
	Metrics        *metrics.ServerMetrics
	DB             Pinger
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Order: RequestID -> RealIP -> Recovery -> Logging -> Metrics -> CORS -> Identify
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.Identify(opts.Tokens, opts.CookieName, logger))

	r.Get("/health", health(opts.DB, logger))

	if opts.Metrics != nil {
		r.Group(func(r chi.Router) {
			if opts.MetricsAPIKey != "" {
				r.Use(middleware.APIKeyAuth(opts.MetricsAPIKey, logger))
			}
			r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
		})
	}

	r.Route("/api", func(r chi.Router) {
		// The webhook body must reach the signature check untouched, so it skips the timeout.
		r.Post("/webhooks/stripe", h.Checkout.Webhook)

		r.Group(func(r chi.Router) {
			if opts.RequestTimeout > 0 {
				r.Use(chimw.Timeout(opts.RequestTimeout))
			}

			r.Get("/products", h.Products.List)
			r.Get("/products/{id}", h.Products.GetByID)
			r.Get("/salon/services", h.Bookings.ListServices)

			r.Post("/auth/signup", h.Auth.Signup)
			r.Post("/auth/login", h.Auth.Login)
			r.Post("/auth/logout", h.Auth.Logout)

			r.Post("/checkout", h.Checkout.Create)
			r.Get("/checkout/verify", h.Checkout.Verify)
			r.Post("/salon/bookings", h.Bookings.Create)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)

				r.Get("/auth/me", h.Auth.Me)
				r.Get("/users/{id}", h.Users.GetByID)
				r.Put("/users/{id}", h.Users.Update)

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", h.Cart.Get)
					r.Post("/", h.Cart.Add)
					r.Delete("/", h.Cart.Clear)
					r.Post("/merge", h.Cart.Merge)
					r.Patch("/{productId}", h.Cart.Update)
					r.Delete("/{productId}", h.Cart.Remove)
				})

				r.Get("/orders", h.Orders.List)
				r.Get("/orders/{id}", h.Orders.GetByID)
				r.Get("/salon/bookings", h.Bookings.List)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.RequireAdmin)

				r.Get("/orders", h.Admin.ListOrders)
				r.Patch("/orders/{id}/status", h.Admin.UpdateOrderStatus)
				r.Get("/stats", h.Admin.Stats)
				r.Get("/users", h.Users.List)
				r.Get("/bookings", h.Admin.ListBookings)
				r.Get("/bookings/{id}", h.Admin.GetBooking)
				r.Patch("/bookings/{id}", h.Admin.UpdateBooking)
				r.Delete("/bookings/{id}", h.Admin.DeleteBooking)
			})
		})
	})

	return r
}

func health(db Pinger, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "healthy", http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				logger.Warn().Err(err).Msg("health check failed")
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}
