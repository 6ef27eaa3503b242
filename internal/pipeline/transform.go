package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/flowline-styler/internal/domain"
)

// Coalescer implements BatchTransformer. A client only needs the newest
// change per layer to know what to redraw.
type Coalescer struct {
	logger *slog.Logger
}

// NewCoalescer creates a Coalescer.
func NewCoalescer(logger *slog.Logger) *Coalescer {
	return &Coalescer{logger: logger}
}

func (c *Coalescer) TransformBatch(_ context.Context, events []domain.ChangeEvent) []domain.ChangeEvent {
	out := domain.Coalesce(events)
	if len(out) < len(events) {
		c.logger.Debug("coalesced change events", "in", len(events), "out", len(out))
	}
	return out
}
