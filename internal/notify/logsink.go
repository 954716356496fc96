package notify

import (
	"context"

	"github.com/rs/zerolog"

	"aquatrack/internal/scheduler"
)

// LogSink writes delivered notifications to the log. Stands in for the
// platform notification surface in the daemon.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a logging sink.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Deliver implements Sink.
func (s *LogSink) Deliver(_ context.Context, n scheduler.Notification) error {
	s.logger.Info().
		Str("kind", string(n.Kind)).
		Str("title_key", n.TitleKey).
		Str("body_key", n.BodyKey).
		Msg("notification delivered")
	return nil
}
