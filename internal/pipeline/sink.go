package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/flowline-styler/internal/domain"
)

// LogSink implements BatchLoader by logging each event. It is the sink when
// no broker is configured.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) LoadBatch(_ context.Context, events []domain.ChangeEvent) error {
	for _, e := range events {
		s.logger.Info("style changed",
			"layer", e.Layer,
			"param", e.Param,
			"revision", e.Revision,
			"changed_at", e.At,
		)
	}
	return nil
}
