package intercept

import (
	"context"

	"github.com/jsamuelsen11/go-eventcore/internal/domain"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// Metrics counts handled messages by outcome: handled, rejected for domain
// errors, failed otherwise.
func Metrics[M any](metrics *telemetry.Metrics) Interceptor[M] {
	return func(next ports.MessageHandler[M]) ports.MessageHandler[M] {
		return handlerFunc(func(ctx context.Context, msg M) error {
			err := next.Handle(ctx, msg)
			metrics.RecordDispatch(ctx, nameOf(msg), outcomeOf(err))
			return err
		})
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeHandled
	case domain.IsRejection(err):
		return telemetry.OutcomeRejected
	default:
		return telemetry.OutcomeFailed
	}
}
