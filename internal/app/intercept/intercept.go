// Package intercept provides cross-cutting wrappers for message handlers.
//
// An Interceptor decorates a ports.MessageHandler. Chain composes them with
// the first interceptor outermost, so
//
//	intercept.Chain(h, Logging[M](), Tracing[M](tracer), Retry[M](cfg.Retry))
//
// logs around the span, and the span covers every retry attempt.
package intercept

import (
	"context"

	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// Interceptor wraps a handler.
type Interceptor[M any] func(next ports.MessageHandler[M]) ports.MessageHandler[M]

// Chain wraps h with interceptors, the first one outermost.
func Chain[M any](h ports.MessageHandler[M], interceptors ...Interceptor[M]) ports.MessageHandler[M] {
	for i := len(interceptors) - 1; i >= 0; i-- {
		h = interceptors[i](h)
	}
	return h
}

func handlerFunc[M any](fn func(ctx context.Context, msg M) error) ports.MessageHandler[M] {
	return ports.MessageHandlerFunc[M](fn)
}

func nameOf[M any](msg M) string {
	return message.NameOf(msg)
}
