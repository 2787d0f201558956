package dispatch

import (
	"context"
	"errors"

	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// Broadcast returns a handler that passes each message to every handler in
// order. All handlers run even if one fails; their errors are joined.
func Broadcast[M any](handlers ...ports.MessageHandler[M]) ports.MessageHandler[M] {
	return ports.MessageHandlerFunc[M](func(ctx context.Context, msg M) error {
		var errs []error
		for _, h := range handlers {
			if err := h.Handle(ctx, msg); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
