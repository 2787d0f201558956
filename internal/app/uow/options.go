package uow

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-eventcore/internal/platform/telemetry"
)

// Option configures a UnitOfWork.
type Option func(*options)

type options struct {
	name     string
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *telemetry.Metrics
	listener func(from, to Phase)
}

// WithName labels spans, logs, and metrics. Defaults to the message's
// command or event name when it has one.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger. By default it is read from the context passed
// to Begin.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTracer sets the tracer used for the uow.begin span.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) { o.tracer = tracer }
}

// WithMetrics records duration and outcome per unit of work.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(o *options) { o.metrics = metrics }
}

// WithPhaseListener calls fn after every phase transition, on the goroutine
// that drives the transition.
func WithPhaseListener(fn func(from, to Phase)) Option {
	return func(o *options) { o.listener = fn }
}
