package ports

import (
	"context"

	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
)

// MessageHandler processes one message. It is consumed by the dispatch
// registry and by units of work.
type MessageHandler[M any] interface {
	// Handle processes msg. A returned error means the handler ran and
	// failed; callers distinguish this from "no handler registered".
	Handle(ctx context.Context, msg M) error
}

// MessageHandlerFunc adapts a function to MessageHandler.
type MessageHandlerFunc[M any] func(ctx context.Context, msg M) error

// Handle implements MessageHandler.
func (f MessageHandlerFunc[M]) Handle(ctx context.Context, msg M) error {
	return f(ctx, msg)
}

// CorrelationProvider derives the correlation metadata a message passes on
// to the messages it causes. Providers have no failure mode.
type CorrelationProvider interface {
	CorrelationFor(msg message.Message) message.MetaData
}

// EventHandler converts one event into exactly one command. Used by sagas.
type EventHandler[E, C any] interface {
	Handle(ctx context.Context, evt E) C
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc[E, C any] func(ctx context.Context, evt E) C

// Handle implements EventHandler.
func (f EventHandlerFunc[E, C]) Handle(ctx context.Context, evt E) C {
	return f(ctx, evt)
}
