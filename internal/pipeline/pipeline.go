package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/flowline-styler/internal/domain"
	"github.com/couchcryptid/flowline-styler/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchExtractor reads up to batchSize change events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.ChangeEvent, error)
}

// BatchTransformer reduces an extracted batch to the events worth publishing.
type BatchTransformer interface {
	TransformBatch(ctx context.Context, events []domain.ChangeEvent) []domain.ChangeEvent
}

// BatchLoader writes change events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.ChangeEvent) error
}

// Pipeline fans style changes out to a sink as redraw signals.
type Pipeline struct {
	extractor   BatchExtractor
	transformer BatchTransformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int

	// pending holds a batch that failed to load. It is retried before
	// anything new is extracted.
	pending []domain.ChangeEvent
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t BatchTransformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil while the pipeline loop is running.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("change pipeline is not running")
	}
	return nil
}

// Run executes the extract-transform-load loop until the context is
// cancelled or the source closes.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	p.ready.Store(true)
	defer func() {
		p.ready.Store(false)
		p.metrics.PipelineRunning.Set(0)
		if len(p.pending) > 0 {
			p.logger.Warn("pipeline stopped with unpublished changes", "count", len(p.pending))
		}
	}()

	backoff := initialBackoff
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff) {
			return nil
		}
	}
}

// processBatch runs one extract-transform-load cycle, or retries the pending
// batch after a failed load. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration) bool {
	if len(p.pending) > 0 {
		return p.load(ctx, p.pending, time.Now(), backoff)
	}

	raw, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		if errors.Is(err, ErrSourceClosed) {
			p.logger.Info("pipeline source closed")
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff)
	}
	if len(raw) == 0 {
		return ctx.Err() == nil
	}

	start := time.Now()
	p.metrics.BatchSize.Observe(float64(len(raw)))
	for _, e := range raw {
		p.metrics.StyleChanges.WithLabelValues(string(e.Layer)).Inc()
		p.metrics.StyleRevision.Set(float64(e.Revision))
	}

	batch := p.transformer.TransformBatch(ctx, raw)
	if len(batch) == 0 {
		return true
	}
	return p.load(ctx, batch, start, backoff)
}

// load publishes batch. A failed batch is kept as pending and the loop backs off.
func (p *Pipeline) load(ctx context.Context, batch []domain.ChangeEvent, start time.Time, backoff *time.Duration) bool {
	if err := p.loader.LoadBatch(ctx, batch); err != nil {
		p.metrics.PublishErrors.Inc()
		p.pending = batch
		p.logger.Error("load batch failed", "error", err, "batch_size", len(batch))
		return p.backoffOrStop(ctx, backoff)
	}

	p.pending = nil
	*backoff = initialBackoff
	p.metrics.ChangesPublished.Add(float64(len(batch)))
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	return true
}

// backoffOrStop sleeps with the current backoff and advances it. Returns
// false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoff)
	return true
}
