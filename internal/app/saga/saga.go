// Package saga coordinates multi-step processes. A Saga turns events into
// commands while it is started; a Task pairs one fallible action with an
// infallible compensation; a Sequence runs tasks in order and unwinds the
// finished ones when a later step fails.
package saga

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jsamuelsen11/go-eventcore/internal/platform/logging"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// State is the lifecycle state of a Saga.
type State int

const (
	Created State = iota
	Started
	Cancelled
	Finalized
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Started:
		return "started"
	case Cancelled:
		return "cancelled"
	case Finalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Option configures a Saga.
type Option func(*options)

type options struct {
	name    string
	metrics *telemetry.Metrics
}

// WithName labels logs and metrics.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithMetrics counts the commands the saga produces.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(o *options) { o.metrics = metrics }
}

// Saga maps events, by key K, to the handler that turns them into a
// command. State transitions are unconditional; Handle only dispatches
// while the saga is Started.
type Saga[K comparable, E, C any] struct {
	mu       sync.RWMutex
	state    State
	keyOf    func(E) K
	handlers map[K]ports.EventHandler[E, C]
	opts     options
}

// New returns a saga keyed by the event value itself.
func New[E comparable, C any](opts ...Option) *Saga[E, E, C] {
	return NewKeyed[E, E, C](func(e E) E { return e }, opts...)
}

// NewKeyed returns a saga keyed by keyOf(evt).
func NewKeyed[K comparable, E, C any](keyOf func(E) K, opts ...Option) *Saga[K, E, C] {
	o := options{name: "saga"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Saga[K, E, C]{
		keyOf:    keyOf,
		handlers: make(map[K]ports.EventHandler[E, C]),
		opts:     o,
	}
}

// Name returns the saga's label.
func (s *Saga[K, E, C]) Name() string { return s.opts.name }

// State returns the current state.
func (s *Saga[K, E, C]) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Start moves the saga to Started.
func (s *Saga[K, E, C]) Start() { s.set(Started) }

// Cancel moves the saga to Cancelled.
func (s *Saga[K, E, C]) Cancel() { s.set(Cancelled) }

// Finalize moves the saga to Finalized.
func (s *Saga[K, E, C]) Finalize() { s.set(Finalized) }

func (s *Saga[K, E, C]) set(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Register binds h to key, replacing any earlier registration.
func (s *Saga[K, E, C]) Register(key K, h ports.EventHandler[E, C]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[key] = h
}

// Handle returns the command produced for evt and true, or the zero command
// and false when the saga is not started or has no handler for evt.
func (s *Saga[K, E, C]) Handle(ctx context.Context, evt E) (C, bool) {
	key := s.keyOf(evt)

	s.mu.RLock()
	state := s.state
	h, ok := s.handlers[key]
	s.mu.RUnlock()

	var zero C
	if state != Started || !ok {
		logging.FromContext(ctx).DebugContext(ctx, "saga ignored event",
			slog.String("operation", "Saga.Handle"),
			slog.String("saga", s.opts.name),
			slog.String("state", state.String()),
			slog.Bool("registered", ok),
			slog.Any("key", key),
		)
		return zero, false
	}

	cmd := h.Handle(ctx, evt)
	s.opts.metrics.RecordSagaCommand(ctx, s.opts.name)
	return cmd, true
}
