// Package pipeline fans published snapshots out to an external sink. The
// telemetry loop hands snapshots to Listen, which never blocks; Run drains
// them in batches and retries failed loads with capped exponential backoff.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
	"github.com/couchcryptid/soundscape-telemetry/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchLoader writes multiple snapshots to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, snaps []domain.Snapshot) error
}

// Pipeline buffers snapshots between the telemetry loop and a BatchLoader.
type Pipeline struct {
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	queue     chan domain.Snapshot
	batchSize int
}

// New creates a Pipeline holding at most bufferSize unsent snapshots and
// loading at most batchSize per call.
func New(l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, bufferSize, batchSize int) *Pipeline {
	return &Pipeline{
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		queue:     make(chan domain.Snapshot, max(bufferSize, 1)),
		batchSize: max(batchSize, 1),
	}
}

// Listen enqueues s for publishing. When the buffer is full the snapshot is
// dropped and counted; the caller is never blocked.
func (p *Pipeline) Listen(s domain.Snapshot) {
	select {
	case p.queue <- s:
	default:
		p.metrics.SnapshotsDropped.Inc()
		p.logger.Warn("snapshot buffer full, dropping snapshot", "timestamp", s.Timestamp)
	}
}

// Run loads queued snapshots until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("snapshot pipeline started", "buffer", cap(p.queue), "batch_size", p.batchSize)

	backoff := initialBackoff
	for {
		batch, ok := p.nextBatch(ctx)
		if !ok {
			p.logger.Info("snapshot pipeline stopping", "reason", ctx.Err(), "pending", len(p.queue))
			return nil
		}
		if !p.load(ctx, batch, &backoff) {
			p.logger.Info("snapshot pipeline stopping", "reason", ctx.Err(), "unsent", len(batch)+len(p.queue))
			return nil
		}
	}
}

// nextBatch waits for one snapshot, then takes whatever else is already
// queued up to the batch size. Returns false if the context is cancelled.
func (p *Pipeline) nextBatch(ctx context.Context) ([]domain.Snapshot, bool) {
	var first domain.Snapshot
	select {
	case <-ctx.Done():
		return nil, false
	case first = <-p.queue:
	}

	batch := []domain.Snapshot{first}
	for len(batch) < p.batchSize {
		select {
		case s := <-p.queue:
			batch = append(batch, s)
		default:
			return batch, true
		}
	}
	return batch, true
}

// load retries the batch until it succeeds. Returns false if the context is
// cancelled first.
func (p *Pipeline) load(ctx context.Context, batch []domain.Snapshot, backoff *time.Duration) bool {
	for {
		start := time.Now()
		err := p.loader.LoadBatch(ctx, batch)
		if err == nil {
			p.metrics.SnapshotsPublished.Add(float64(len(batch)))
			p.metrics.PublishDuration.Observe(time.Since(start).Seconds())
			*backoff = initialBackoff
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		p.metrics.PublishErrors.Inc()
		p.logger.Error("load snapshot batch failed", "error", err, "batch_size", len(batch), "retry_in", *backoff)
		if !retry.SleepWithContext(ctx, *backoff) {
			return false
		}
		*backoff = retry.NextBackoff(*backoff, maxBackoff)
	}
}
