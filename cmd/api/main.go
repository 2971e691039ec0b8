package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"planet-beauty/internal/auth"
	"planet-beauty/internal/cache"
	"planet-beauty/internal/config"
	"planet-beauty/internal/database"
	"planet-beauty/internal/handler"
	"planet-beauty/internal/metrics"
	"planet-beauty/internal/notify"
	"planet-beauty/internal/payment"
	"planet-beauty/internal/repository"
	"planet-beauty/internal/router"
	"planet-beauty/internal/service"
	"planet-beauty/internal/validation"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting planet-beauty API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Repositories
	productRepo := repository.NewProductRepository(pool, logger)
	serviceRepo := repository.NewSalonServiceRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	bookingRepo := repository.NewBookingRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	var cartRepo repository.CartRepository
	switch cfg.Cart.Backend {
	case "mongo":
		db, err := repository.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize cart store: %w", err)
		}
		defer func() {
			disconnectCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := db.Client().Disconnect(disconnectCtx); err != nil {
				logger.Warn().Err(err).Msg("failed to disconnect from MongoDB")
			}
		}()
		if err := repository.CreateCartIndexes(ctx, db); err != nil {
			return fmt.Errorf("failed to create cart indexes: %w", err)
		}
		cartRepo = repository.NewMongoCartRepository(db, logger)
		logger.Info().Str("database", cfg.Mongo.Database).Msg("using MongoDB cart store")
	default:
		cartRepo = repository.NewCartRepository(pool, logger)
	}

	var cartCache cache.CartCache
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			// The cart works without its cache, so a dead Redis only costs latency.
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, cart cache disabled")
		} else {
			cartCache = cache.NewRedisCache(client, cfg.Redis.TTL)
		}
	}

	// Payment provider
	var provider payment.Provider = payment.NewStripeProvider(cfg.Stripe.SecretKey, nil, logger)
	if cfg.Stripe.BreakerEnabled {
		provider = payment.NewBreakerProvider(provider, payment.BreakerSettings{
			MaxFailures: uint32(cfg.Stripe.BreakerMaxFails),
			OpenTimeout: cfg.Stripe.BreakerOpenDelay,
		}, logger)
	}

	dispatcher, closeDispatcher, err := newDispatcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize notifications: %w", err)
	}
	notifier := notify.NewAsync(dispatcher, cfg.Notify.Timeout, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	validator := validation.New()

	// Services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, cartCache, logger)
	checkoutService := service.NewCheckoutService(service.CheckoutConfig{
		Currency:   cfg.Stripe.Currency,
		SuccessURL: cfg.Stripe.SuccessURL,
		CancelURL:  cfg.Stripe.CancelURL,
	}, productRepo, cartRepo, provider, validator, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, cartService, provider, notifier, logger)
	bookingService := service.NewBookingService(bookingRepo, serviceRepo, validator, notifier, logger)
	authService := service.NewAuthService(userRepo, tokens, validator, logger)
	userService := service.NewUserService(userRepo, validator, logger)

	// HTTP handlers
	handlers := router.Handlers{
		Products: handler.NewProductHandler(productService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, orderService, cfg.Stripe.WebhookSecret, logger),
		Orders:   handler.NewOrderHandler(orderService, logger),
		Bookings: handler.NewBookingHandler(bookingService, logger),
		Auth: handler.NewAuthHandler(authService, handler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
			TTL:    cfg.Auth.TokenTTL,
		}, logger),
		Users: handler.NewUserHandler(userService, logger),
		Admin: handler.NewAdminHandler(orderService, bookingService, logger),
	}

	mux := router.New(handlers, router.Options{
		Tokens:         tokens,
		CookieName:     cfg.Auth.CookieName,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		MetricsAPIKey:  cfg.Server.MetricsAPIKey,
		Metrics:        metrics.NewServerMetrics(nil, "api"),
		DB:             pool,
	}, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	// Let in-flight confirmations finish before their transport goes away.
	notifier.Wait()
	if err := closeDispatcher(); err != nil {
		logger.Warn().Err(err).Msg("failed to close notification dispatcher")
	}

	logger.Info().Msg("server shutdown completed")
	return nil
}

// newDispatcher builds the delivery transport for cfg.Notify.Mode.
func newDispatcher(cfg *config.Config, logger zerolog.Logger) (notify.Dispatcher, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Notify.Mode {
	case "smtp":
		logger.Info().Str("host", cfg.SMTP.Host).Msg("sending confirmations over SMTP")
		return notify.NewSMTPDispatcher(notify.SMTPConfig{
			Addr:     cfg.SMTP.Address(),
			Host:     cfg.SMTP.Host,
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		}, nil), noop, nil
	case "kafka":
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing confirmations to Kafka")
		d := notify.NewKafkaDispatcher(notify.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		return d, d.Close, nil
	case "log", "":
		return notify.NewLogDispatcher(logger), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown notify mode %q", cfg.Notify.Mode)
	}
}
