package poller

import (
	"context"
	"sync"
	"time"

	domain "github.com/oshokin/security-panel/internal/domain/alarm"
	"github.com/oshokin/security-panel/internal/logger"
	"github.com/oshokin/security-panel/internal/metrics"
)

// DefaultPollInterval defines the fixed polling interval for alarm status checks.
const DefaultPollInterval = 5 * time.Second

// StatusSource reports the authoritative device active flag.
type StatusSource interface {
	GetAlarmStatus(ctx context.Context) (bool, error)
}

// Store receives poll results.
type Store interface {
	Dispatch(ctx context.Context, event domain.Event) domain.State
}

// Poller periodically refreshes the alarm status.
type Poller struct {
	// source answers status requests.
	source StatusSource
	// store holds the operator-visible state.
	store Store
	// interval is the delay between ticks.
	interval time.Duration
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval overrides DefaultPollInterval. Non-positive values are ignored.
func WithInterval(interval time.Duration) Option {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// New creates a Poller. Call Start to begin polling.
func New(source StatusSource, store Store, opts ...Option) *Poller {
	p := &Poller{
		source:   source,
		store:    store,
		interval: DefaultPollInterval,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// CancelHandle stops a started poller.
type CancelHandle struct {
	// cancel stops the polling context.
	cancel context.CancelFunc
	// done is closed when the loop has exited.
	done chan struct{}
	// once guards cancel.
	once sync.Once
}

// Cancel stops all future polling and waits for the loop to exit.
// It is safe to call more than once.
func (h *CancelHandle) Cancel() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the loop has exited, either through Cancel or because
// the parent context ended.
func (h *CancelHandle) Done() <-chan struct{} {
	return h.done
}

// Start issues one status request immediately and then one per interval
// until the handle is cancelled or ctx ends. Starting the same poller twice
// without cancelling creates two independent loops.
func (p *Poller) Start(ctx context.Context) *CancelHandle {
	ctx = logger.WithName(ctx, "poller")
	ctx, cancel := context.WithCancel(ctx)

	handle := &CancelHandle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	logger.InfoKV(ctx, "Polling alarm status", "interval", p.interval.String())

	go p.loop(ctx, handle.done)

	return handle
}

// loop polls until ctx is cancelled.
func (p *Poller) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug(ctx, "Polling stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll fetches the status once and dispatches it on success.
func (p *Poller) poll(ctx context.Context) {
	active, err := p.source.GetAlarmStatus(ctx)

	// A response that lands after cancellation must not reach the state.
	if ctx.Err() != nil {
		return
	}

	metrics.IncPoll(metrics.Result(err))

	if err != nil {
		logger.DebugKV(ctx, "Poll failed, waiting for next tick", "error", err)
		return
	}

	p.store.Dispatch(ctx, domain.PollEvent(active))
}
