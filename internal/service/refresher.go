package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/rcliao/tasktimeline/internal/logging"
	"github.com/rcliao/tasktimeline/internal/metrics"
)

// ErrPassInFlight is returned by TryRefresh when another pass is running.
// The request is not lost: one more pass runs when the current one ends.
var ErrPassInFlight = errors.New("refresh already in flight")

// RefreshFunc runs one pass.
type RefreshFunc func(ctx context.Context) (*Pass, error)

// Refresher serializes passes. Requests that arrive while a pass runs are
// coalesced into a single rerun.
type Refresher struct {
	refresh RefreshFunc
	logger  *logging.Logger
	metrics *metrics.Metrics
	onPass  func(*Pass, error)

	// running holds a token while any pass runs.
	running chan struct{}

	mu       sync.Mutex
	inFlight bool
	pending  bool
	last     *Pass
}

type RefresherOption func(*Refresher)

// WithPassHandler is called after every pass, including reruns.
func WithPassHandler(fn func(*Pass, error)) RefresherOption {
	return func(r *Refresher) { r.onPass = fn }
}

func WithRefresherMetrics(m *metrics.Metrics) RefresherOption {
	return func(r *Refresher) { r.metrics = m }
}

func NewRefresher(refresh RefreshFunc, logger *logging.Logger, opts ...RefresherOption) *Refresher {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Refresher{
		refresh: refresh,
		logger:  logger.Named("refresher"),
		running: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TryRefresh runs a pass unless one is already running, in which case it
// schedules a rerun and returns ErrPassInFlight. The returned pass is the
// last one run by this call.
func (r *Refresher) TryRefresh(ctx context.Context) (*Pass, error) {
	r.mu.Lock()
	if r.inFlight {
		r.pending = true
		r.mu.Unlock()
		r.metrics.ObserveDropped()
		return nil, ErrPassInFlight
	}
	r.inFlight = true
	r.mu.Unlock()

	for {
		pass, err := r.run(ctx, r.refresh)

		r.mu.Lock()
		if err == nil {
			r.last = pass
		}
		rerun := r.pending && ctx.Err() == nil
		r.pending = false
		if !rerun {
			r.inFlight = false
		}
		r.mu.Unlock()

		if r.onPass != nil {
			r.onPass(pass, err)
		}
		if !rerun {
			return pass, err
		}
		r.logger.Debug(ctx, "running coalesced refresh")
	}
}

// RefreshWith runs fn as a one-off pass, waiting for any running pass to
// finish first. The result is neither recorded as Last nor sent to the pass
// handler.
func (r *Refresher) RefreshWith(ctx context.Context, fn RefreshFunc) (*Pass, error) {
	return r.run(ctx, fn)
}

func (r *Refresher) run(ctx context.Context, fn RefreshFunc) (*Pass, error) {
	select {
	case r.running <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-r.running }()

	return fn(ctx)
}

// Last returns the most recent successful pass, or nil.
func (r *Refresher) Last() *Pass {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Run refreshes once per trigger until ctx is done or triggers is closed.
// Triggers already queued when a pass starts are folded into it.
func (r *Refresher) Run(ctx context.Context, triggers <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-triggers:
			if !ok {
				return nil
			}
			drain(triggers)

			_, err := r.TryRefresh(ctx)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil && !errors.Is(err, ErrPassInFlight) {
				r.logger.Error(ctx, "refresh failed", zap.Error(err))
			}
		}
	}
}

func drain(ch <-chan struct{}) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
