// Package dispatch routes messages to the handler registered for them.
//
// A Registry is a lookup table from a message key to exactly one
// ports.MessageHandler. Messages without a registration are a silent
// success: Handle logs them at debug and returns nil. Handler errors are
// returned unchanged so callers can tell "ran and failed" from "nothing to
// do".
package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jsamuelsen11/go-eventcore/internal/platform/logging"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// Compile-time interface check.
var _ ports.MessageHandler[string] = (*Registry[string, string])(nil)

// Registry maps message keys of type K to handlers for messages of type M.
// It is safe for concurrent use; handlers run without the lock held.
type Registry[K comparable, M any] struct {
	mu       sync.RWMutex
	keyOf    func(M) K
	handlers map[K]ports.MessageHandler[M]
}

// New returns a registry keyed by the message value itself. Two messages
// that compare equal share a handler.
func New[M comparable]() *Registry[M, M] {
	return NewKeyed(func(m M) M { return m })
}

// NewKeyed returns a registry keyed by keyOf(msg), for message types that
// are not comparable or that should be routed by a derived name.
func NewKeyed[K comparable, M any](keyOf func(M) K) *Registry[K, M] {
	return &Registry[K, M]{
		keyOf:    keyOf,
		handlers: make(map[K]ports.MessageHandler[M]),
	}
}

// Register binds h to key, replacing any earlier registration.
func (r *Registry[K, M]) Register(key K, h ports.MessageHandler[M]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[key] = h
}

// Unregister removes the handler bound to key. It reports whether one was
// bound.
func (r *Registry[K, M]) Unregister(key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handlers[key]
	delete(r.handlers, key)
	return ok
}

// Registered reports whether a handler is bound to key.
func (r *Registry[K, M]) Registered(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[key]
	return ok
}

// Len returns the number of registrations.
func (r *Registry[K, M]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Handle routes msg to its handler. See the package doc for semantics.
func (r *Registry[K, M]) Handle(ctx context.Context, msg M) error {
	key := r.keyOf(msg)

	r.mu.RLock()
	h, ok := r.handlers[key]
	r.mu.RUnlock()

	if !ok {
		logging.FromContext(ctx).DebugContext(ctx, "no handler registered",
			slog.String("operation", "dispatch.Handle"),
			slog.Any("key", key),
		)
		return nil
	}

	return h.Handle(ctx, msg)
}
