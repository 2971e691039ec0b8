package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Async sends on a background goroutine so callers never wait on, or fail because of,
// delivery. Failures are logged.
type Async struct {
	next    Dispatcher
	timeout time.Duration
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

func NewAsync(next Dispatcher, timeout time.Duration, logger zerolog.Logger) *Async {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Async{
		next:    next,
		timeout: timeout,
		logger:  logger.With().Str("component", "notify_async").Logger(),
	}
}

// Send schedules delivery and returns nil immediately. The request context is not
// inherited so delivery survives the end of the request.
func (a *Async) Send(_ context.Context, msg Message) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error().Interface("panic", r).Str("kind", msg.Kind).Msg("notification panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		if err := a.next.Send(ctx, msg); err != nil {
			a.logger.Warn().Err(err).
				Str("kind", msg.Kind).
				Str("reference", msg.Reference).
				Msg("failed to send notification")
			return
		}
		a.logger.Debug().Str("kind", msg.Kind).Str("reference", msg.Reference).Msg("notification sent")
	}()
	return nil
}

// Wait blocks until all scheduled sends finish.
func (a *Async) Wait() {
	a.wg.Wait()
}
