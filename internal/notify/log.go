package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogDispatcher records messages instead of delivering them.
type LogDispatcher struct {
	logger zerolog.Logger
}

func NewLogDispatcher(logger zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger.With().Str("component", "notify_log").Logger()}
}

func (d *LogDispatcher) Send(_ context.Context, msg Message) error {
	d.logger.Info().
		Str("kind", msg.Kind).
		Str("to", msg.To).
		Str("reference", msg.Reference).
		Msg("notification")
	return nil
}
