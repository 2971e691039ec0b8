package payment

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// BreakerSettings tunes the circuit around the provider.
type BreakerSettings struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

type breakerProvider struct {
	next    Provider
	breaker *gobreaker.CircuitBreaker[*Session]
}

// NewBreakerProvider wraps next so consecutive upstream failures open the circuit and
// calls fail fast with ErrUnavailable. A missing session is not counted as a failure.
func NewBreakerProvider(next Provider, settings BreakerSettings, logger zerolog.Logger) Provider {
	log := logger.With().Str("component", "payment_breaker").Logger()
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker[*Session](gobreaker.Settings{
		Name:        "payment-provider",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrSessionNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit state changed")
		},
	})

	return &breakerProvider{next: next, breaker: cb}
}

func (b *breakerProvider) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	return b.execute(func() (*Session, error) {
		return b.next.CreateSession(ctx, params)
	})
}

func (b *breakerProvider) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	return b.execute(func() (*Session, error) {
		return b.next.GetSession(ctx, sessionID)
	})
}

func (b *breakerProvider) execute(fn func() (*Session, error)) (*Session, error) {
	s, err := b.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	return s, err
}
