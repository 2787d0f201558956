// Package memjournal is an in-memory event journal. Streams are
// append-only slices guarded by one RWMutex; every read returns a copy.
package memjournal

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jsamuelsen11/go-eventcore/internal/domain"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.EventJournal[any] = (*Journal[any])(nil)
	_ ports.HealthChecker     = (*Journal[any])(nil)
)

// ErrVersionConflict is returned by Append when the stream moved past the
// caller's expected version.
var ErrVersionConflict = fmt.Errorf("%w: stream version conflict", domain.ErrConflict)

// Option configures a Journal.
type Option func(*options)

type options struct {
	name     string
	capacity int
}

// WithName sets the name reported to health checks. Defaults to "journal".
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithInitialCapacity preallocates each new stream for n events.
func WithInitialCapacity(n int) Option {
	return func(o *options) { o.capacity = max(n, 0) }
}

// Journal stores events of type E by stream id.
type Journal[E any] struct {
	mu      sync.RWMutex
	streams map[string][]E
	opts    options
}

// New returns an empty journal.
func New[E any](opts ...Option) *Journal[E] {
	o := options{name: "journal"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Journal[E]{streams: make(map[string][]E), opts: o}
}

// Load returns a copy of the stream and its version. An unknown stream is
// empty at version 0.
func (j *Journal[E]) Load(ctx context.Context, streamID string) ([]E, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	stream := j.streams[streamID]
	return slices.Clone(stream), len(stream), nil
}

// Append adds events to the stream if its version still equals
// expectedVersion.
func (j *Journal[E]) Append(ctx context.Context, streamID string, expectedVersion int, events []E) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	stream, ok := j.streams[streamID]
	if got := len(stream); got != expectedVersion {
		return fmt.Errorf("%w: stream %s is at version %d, expected %d", ErrVersionConflict, streamID, got, expectedVersion)
	}
	if len(events) == 0 {
		return nil
	}
	if !ok {
		stream = make([]E, 0, max(j.opts.capacity, len(events)))
	}
	j.streams[streamID] = append(stream, events...)
	return nil
}

// Streams returns the ids of all non-empty streams, sorted.
func (j *Journal[E]) Streams() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()

	ids := make([]string, 0, len(j.streams))
	for id := range j.streams {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Name implements ports.HealthChecker.
func (j *Journal[E]) Name() string { return j.opts.name }

// HealthCheck implements ports.HealthChecker. The in-memory journal is
// always available.
func (j *Journal[E]) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}
