package intercept

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

const tracerName = "github.com/jsamuelsen11/go-eventcore/internal/app/intercept"

// Tracing opens a "dispatch <name>" span around the handler. A nil tracer
// uses the global provider.
func Tracing[M any](tracer trace.Tracer) Interceptor[M] {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return func(next ports.MessageHandler[M]) ports.MessageHandler[M] {
		return handlerFunc(func(ctx context.Context, msg M) error {
			name := nameOf(msg)
			ctx, span := tracer.Start(ctx, "dispatch "+name,
				trace.WithSpanKind(trace.SpanKindConsumer),
				trace.WithAttributes(attribute.String("message.name", name)),
			)
			defer span.End()

			err := next.Handle(ctx, msg)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return err
		})
	}
}
