package intercept

import (
	"context"
	"log/slog"
	"time"

	"github.com/jsamuelsen11/go-eventcore/internal/platform/logging"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// Logging logs every handled message with its duration. Failures are
// logged at warn with the error; successes at debug.
func Logging[M any]() Interceptor[M] {
	return func(next ports.MessageHandler[M]) ports.MessageHandler[M] {
		return handlerFunc(func(ctx context.Context, msg M) error {
			start := time.Now()
			err := next.Handle(ctx, msg)

			logger := logging.FromContext(ctx)
			attrs := []any{
				slog.String("operation", "intercept.Logging"),
				slog.String("message", nameOf(msg)),
				slog.Duration("elapsed", time.Since(start)),
			}
			if err != nil {
				logger.WarnContext(ctx, "message handler failed", append(attrs, slog.Any("error", err))...)
				return err
			}
			logger.DebugContext(ctx, "message handled", attrs...)
			return nil
		})
	}
}
