package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/couchcryptid/flowline-styler/internal/domain"
	"github.com/jonboulle/clockwork"
)

// ErrSourceClosed is returned once the subscription channel is closed and drained.
var ErrSourceClosed = errors.New("change source closed")

// SubscriptionExtractor batches events from a style store subscription. A
// batch is returned when it is full or flushInterval after its first event.
type SubscriptionExtractor struct {
	events        <-chan domain.ChangeEvent
	flushInterval time.Duration
	clock         clockwork.Clock
}

// NewSubscriptionExtractor reads from events, as returned by style.Store.Subscribe.
func NewSubscriptionExtractor(events <-chan domain.ChangeEvent, flushInterval time.Duration, clock clockwork.Clock) *SubscriptionExtractor {
	return &SubscriptionExtractor{events: events, flushInterval: flushInterval, clock: clock}
}

// ExtractBatch blocks until at least one event arrives.
func (e *SubscriptionExtractor) ExtractBatch(ctx context.Context, batchSize int) ([]domain.ChangeEvent, error) {
	var batch []domain.ChangeEvent
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ev, ok := <-e.events:
		if !ok {
			return nil, ErrSourceClosed
		}
		batch = append(batch, ev)
	}

	timer := e.clock.NewTimer(e.flushInterval)
	defer timer.Stop()

	for len(batch) < batchSize {
		select {
		case <-ctx.Done():
			return batch, nil
		case <-timer.Chan():
			return batch, nil
		case ev, ok := <-e.events:
			if !ok {
				return batch, nil
			}
			batch = append(batch, ev)
		}
	}
	return batch, nil
}
