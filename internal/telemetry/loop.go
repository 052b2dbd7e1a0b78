// Package telemetry runs the mock telemetry loop: it owns the current noise
// snapshot, perturbs it on a fixed cadence, and publishes each new snapshot
// to registered listeners.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
	"github.com/couchcryptid/soundscape-telemetry/internal/observability"
)

// DefaultInterval is the tick cadence when none is configured.
const DefaultInterval = 5 * time.Second

// ErrTickPanic wraps a panic recovered while computing a tick.
var ErrTickPanic = errors.New("telemetry tick panicked")

// State is the loop lifecycle state.
type State int32

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Listener receives every published snapshot. Listeners run in registration
// order on the goroutine that produced the tick. A listener may unsubscribe,
// Stop, or Start the loop; it must not call Refresh.
type Listener = func(domain.Snapshot)

type subscription struct {
	fn     Listener
	active atomic.Bool
}

// session is one Running period, from Start until Stop or context cancellation.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{} // closed when the run's goroutine exits
}

// Loop owns the current snapshot and refreshes it on a ticker.
type Loop struct {
	entropy  domain.Entropy
	clock    clockwork.Clock
	interval time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics

	// tickMu serialises ticks from the ticker goroutine and Refresh.
	tickMu sync.Mutex

	mu      sync.RWMutex
	current domain.Snapshot
	lastErr error

	loading     atomic.Bool
	ready       atomic.Bool
	dispatching atomic.Int32

	subsMu sync.Mutex
	subs   []*subscription

	// lifeMu orders Start, Stop and run teardown. It is never held while a
	// tick runs.
	lifeMu sync.Mutex
	active atomic.Pointer[session]
}

// New creates an idle Loop holding seed as its current snapshot.
func New(seed domain.Snapshot, entropy domain.Entropy, clock clockwork.Clock, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		entropy:  entropy,
		clock:    clock,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
		current:  seed,
	}
}

// Start publishes one snapshot immediately and then one per interval until
// Stop is called or ctx is cancelled. Calling Start on a running loop does nothing.
func (l *Loop) Start(ctx context.Context) {
	l.lifeMu.Lock()
	if l.State() == Running {
		l.lifeMu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	r := &session{ctx: runCtx, cancel: cancel, done: make(chan struct{})}
	l.active.Store(r)
	l.metrics.LoopRunning.Set(1)
	l.logger.Info("telemetry loop started", "interval", l.interval)
	l.lifeMu.Unlock()

	// A listener restarting the loop already holds tickMu, so the first tick
	// moves onto the new goroutine.
	if l.dispatching.Load() > 0 {
		go func() {
			_, _ = l.tick(r.ctx)
			l.run(r, l.clock.NewTicker(l.interval))
		}()
		return
	}
	_, _ = l.tick(r.ctx)
	go l.run(r, l.clock.NewTicker(l.interval))
}

// Stop cancels the ticker and waits for the loop goroutine to exit. When
// called while listeners are being dispatched, including from a listener, it
// returns without waiting; no further tick of the stopped run starts either
// way. Calling Stop on an idle loop does nothing.
func (l *Loop) Stop() {
	l.lifeMu.Lock()
	r := l.active.Swap(nil)
	if r != nil {
		r.cancel()
		l.metrics.LoopRunning.Set(0)
		l.logger.Info("telemetry loop stopped", "reason", "stop")
	}
	l.lifeMu.Unlock()

	if r == nil || l.dispatching.Load() > 0 {
		return
	}
	<-r.done
}

func (l *Loop) run(r *session, ticker clockwork.Ticker) {
	defer close(r.done)
	defer ticker.Stop()
	defer l.finish(r)

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.Chan():
			_, _ = l.tick(r.ctx)
		}
	}
}

// finish marks the loop idle when r ended through context cancellation and
// no later Start or Stop has replaced it.
func (l *Loop) finish(r *session) {
	l.lifeMu.Lock()
	defer l.lifeMu.Unlock()
	if l.active.CompareAndSwap(r, nil) {
		l.metrics.LoopRunning.Set(0)
		l.logger.Info("telemetry loop stopped", "reason", context.Cause(r.ctx))
	}
}

// Refresh runs one tick synchronously regardless of state and returns the
// resulting current snapshot.
func (l *Loop) Refresh() (domain.Snapshot, error) {
	return l.tick(context.Background())
}

// Current returns the latest snapshot and whether a tick is in progress.
func (l *Loop) Current() (domain.Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current, l.loading.Load()
}

// Err returns the error from the last tick, or nil if it succeeded.
func (l *Loop) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}

// State reports whether the loop is ticking. A run whose Start context has
// been cancelled counts as idle.
func (l *Loop) State() State {
	if r := l.active.Load(); r != nil && r.ctx.Err() == nil {
		return Running
	}
	return Idle
}

// CheckReadiness returns nil once the loop has published a snapshot.
func (l *Loop) CheckReadiness(_ context.Context) error {
	if !l.ready.Load() {
		return errors.New("telemetry loop has not published a snapshot yet")
	}
	return nil
}

// OnUpdate registers fn for every later snapshot and returns a function that
// unregisters it. The returned function is idempotent and may be called from
// inside a listener; once it returns, no later tick delivers to fn.
func (l *Loop) OnUpdate(fn Listener) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	l.subsMu.Lock()
	l.subs = append(l.subs, sub)
	l.subsMu.Unlock()
	l.metrics.Listeners.Inc()

	return func() {
		if !sub.active.CompareAndSwap(true, false) {
			return
		}
		l.subsMu.Lock()
		l.subs = slices.DeleteFunc(l.subs, func(s *subscription) bool { return s == sub })
		l.subsMu.Unlock()
		l.metrics.Listeners.Dec()
	}
}

// tick perturbs the current snapshot and publishes the result. On failure the
// previous snapshot stays current and nothing is published. A tick whose run
// has ended by the time it acquires tickMu is skipped.
func (l *Loop) tick(ctx context.Context) (domain.Snapshot, error) {
	l.tickMu.Lock()
	defer l.tickMu.Unlock()

	if err := ctx.Err(); err != nil {
		prev, _ := l.Current()
		return prev, err
	}

	start := l.clock.Now()
	l.loading.Store(true)

	prev, _ := l.Current()
	next, err := l.perturb(prev)

	l.loading.Store(false)
	l.metrics.TickDuration.Observe(l.clock.Since(start).Seconds())

	if err != nil {
		l.metrics.TickErrors.Inc()
		l.logger.Error("telemetry tick failed, keeping previous snapshot", "error", err)
		l.mu.Lock()
		l.lastErr = err
		l.mu.Unlock()
		return prev, err
	}

	l.mu.Lock()
	l.current = next
	l.lastErr = nil
	l.mu.Unlock()

	l.ready.Store(true)
	l.metrics.Ticks.Inc()
	l.logger.Debug("telemetry tick",
		"timestamp", next.Timestamp,
		"average_noise", next.Stats.AverageNoise,
		"trend", next.Stats.Trend,
	)

	l.publish(next)
	return next, nil
}

func (l *Loop) perturb(prev domain.Snapshot) (next domain.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTickPanic, r)
		}
	}()
	return domain.Perturb(prev, l.entropy, l.clock.Now())
}

func (l *Loop) publish(s domain.Snapshot) {
	l.dispatching.Add(1)
	defer l.dispatching.Add(-1)

	l.subsMu.Lock()
	subs := slices.Clone(l.subs)
	l.subsMu.Unlock()

	for i, sub := range subs {
		if !sub.active.Load() {
			continue
		}
		l.deliver(i, sub.fn, s)
	}
}

func (l *Loop) deliver(idx int, fn Listener, s domain.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("snapshot listener panicked", "listener", idx, "panic", r)
		}
	}()
	fn(s)
}
