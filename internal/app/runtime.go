package app

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-eventcore/internal/domain/aggregate"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/logging"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/telemetry"
)

const tracerName = "github.com/jsamuelsen11/go-eventcore/internal/app"

// RuntimeOption configures a Runtime.
type RuntimeOption func(*runtimeOptions)

type runtimeOptions struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *telemetry.Metrics
}

// WithRuntimeLogger sets the runtime's logger. By default the logger is taken from
// the context passed to Execute.
func WithRuntimeLogger(logger *slog.Logger) RuntimeOption {
	return func(o *runtimeOptions) { o.logger = logger }
}

// WithRuntimeTracer sets the tracer used for execute spans. Defaults to the global
// tracer provider.
func WithRuntimeTracer(tracer trace.Tracer) RuntimeOption {
	return func(o *runtimeOptions) { o.tracer = tracer }
}

// WithRuntimeMetrics records decided event counts. Nil disables recording.
func WithRuntimeMetrics(metrics *telemetry.Metrics) RuntimeOption {
	return func(o *runtimeOptions) { o.metrics = metrics }
}

// Result is the outcome of one Execute call.
type Result[S, E any] struct {
	// State is the rehydrated state the command was decided against.
	State S
	// Events are the newly decided events, not yet applied to State.
	Events []E
}

// Runtime executes commands against one aggregate type with a fixed service
// context. It holds no mutable state and performs no locking.
type Runtime[S aggregate.Root[S, C, E, Svc], C, E, Svc any] struct {
	name    string
	svc     Svc
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *telemetry.Metrics
}

// NewRuntime returns a runtime for the aggregate called name.
func NewRuntime[S aggregate.Root[S, C, E, Svc], C, E, Svc any](name string, svc Svc, opts ...RuntimeOption) *Runtime[S, C, E, Svc] {
	o := &runtimeOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	return &Runtime[S, C, E, Svc]{
		name:    name,
		svc:     svc,
		logger:  o.logger,
		tracer:  o.tracer,
		metrics: o.metrics,
	}
}

// Name returns the aggregate name.
func (r *Runtime[S, C, E, Svc]) Name() string { return r.name }

// Load rehydrates the current state from history.
func (r *Runtime[S, C, E, Svc]) Load(history []E) S {
	return aggregate.Rehydrate[S](history)
}

// Execute rehydrates the aggregate from history and decides cmd.
func (r *Runtime[S, C, E, Svc]) Execute(ctx context.Context, history []E, cmd C) (Result[S, E], error) {
	ctx, span := r.tracer.Start(ctx, "aggregate."+r.name+".execute",
		trace.WithAttributes(
			attribute.String("aggregate.name", r.name),
			attribute.Int("aggregate.history", len(history)),
		),
	)
	defer span.End()

	logger := r.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	state, events, err := aggregate.Execute[S](ctx, history, cmd, r.svc)
	span.SetAttributes(attribute.Int("aggregate.version", state.Version()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.InfoContext(ctx, "command rejected",
			slog.String("operation", "Runtime.Execute"),
			slog.String("aggregate", r.name),
			slog.Int("version", state.Version()),
			slog.Any("error", err),
		)
		return Result[S, E]{State: state}, err
	}

	span.SetAttributes(attribute.Int("aggregate.events", len(events)))
	r.metrics.RecordEvents(ctx, r.name, len(events))

	logger.DebugContext(ctx, "command decided",
		slog.String("operation", "Runtime.Execute"),
		slog.String("aggregate", r.name),
		slog.Int("version", state.Version()),
		slog.Int("events", len(events)),
	)

	return Result[S, E]{State: state, Events: events}, nil
}
