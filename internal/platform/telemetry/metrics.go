package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome values recorded for units of work and dispatches.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
	OutcomeHandled    = "handled"
	OutcomeUnhandled  = "unhandled"
	OutcomeFailed     = "failed"
	OutcomeRejected   = "rejected"
)

// Metric label keys.
var (
	AttrMessage   = attribute.Key("message.name")
	AttrAggregate = attribute.Key("aggregate")
	AttrSaga      = attribute.Key("saga")
	AttrOutcome   = attribute.Key("outcome")
)

// Metrics holds the ledger's instruments. A nil *Metrics records nothing,
// so callers built without telemetry need no guards.
type Metrics struct {
	UnitOfWorkDuration   metric.Float64Histogram
	UnitOfWorkTotal      metric.Int64Counter
	DispatchTotal        metric.Int64Counter
	SagaCommandsTotal    metric.Int64Counter
	AggregateEventsTotal metric.Int64Counter
}

// NewMetrics registers every instrument on the meter named scope.
func NewMetrics(mp metric.MeterProvider, scope string) (*Metrics, error) {
	meter := mp.Meter(scope)
	m := &Metrics{}

	var err error
	if m.UnitOfWorkDuration, err = meter.Float64Histogram("uow.duration",
		metric.WithDescription("Time from Begin to Commit or Rollback"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("registering uow.duration: %w", err)
	}

	counters := []struct {
		dst        *metric.Int64Counter
		name, desc string
		unit       string
	}{
		{&m.UnitOfWorkTotal, "uow.outcome.total", "Units of work by terminal outcome", "{unit}"},
		{&m.DispatchTotal, "dispatch.handled.total", "Messages passed to handlers, by outcome", "{message}"},
		{&m.SagaCommandsTotal, "saga.commands.total", "Commands produced by sagas", "{command}"},
		{&m.AggregateEventsTotal, "aggregate.events.total", "Events decided by aggregates", "{event}"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name,
			metric.WithDescription(c.desc),
			metric.WithUnit(c.unit),
		); err != nil {
			return nil, fmt.Errorf("registering %s: %w", c.name, err)
		}
	}

	return m, nil
}

// RecordUnitOfWork records how long one unit of work took and how it ended.
func (m *Metrics) RecordUnitOfWork(ctx context.Context, name, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	labels := metric.WithAttributes(AttrMessage.String(name), AttrOutcome.String(outcome))
	m.UnitOfWorkDuration.Record(ctx, elapsed.Seconds(), labels)
	m.UnitOfWorkTotal.Add(ctx, 1, labels)
}

// RecordDispatch counts one message passed through a handler chain.
func (m *Metrics) RecordDispatch(ctx context.Context, name, outcome string) {
	if m == nil {
		return
	}
	m.DispatchTotal.Add(ctx, 1, metric.WithAttributes(AttrMessage.String(name), AttrOutcome.String(outcome)))
}

// RecordSagaCommand counts one command produced by the named saga.
func (m *Metrics) RecordSagaCommand(ctx context.Context, saga string) {
	if m == nil {
		return
	}
	m.SagaCommandsTotal.Add(ctx, 1, metric.WithAttributes(AttrSaga.String(saga)))
}

// RecordEvents counts events decided by the named aggregate.
func (m *Metrics) RecordEvents(ctx context.Context, aggregate string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.AggregateEventsTotal.Add(ctx, int64(n), metric.WithAttributes(AttrAggregate.String(aggregate)))
}
