package intercept_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen11/go-eventcore/internal/app/intercept"
	"github.com/jsamuelsen11/go-eventcore/internal/domain"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/config"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

func counting(calls *int, errs ...error) ports.MessageHandler[message.CommandMessage] {
	return ports.MessageHandlerFunc[message.CommandMessage](func(context.Context, message.CommandMessage) error {
		i := *calls
		*calls++
		if i < len(errs) {
			return errs[i]
		}
		return nil
	})
}

func cmd() message.CommandMessage {
	return message.NewCommandMessage("account.open", nil)
}

var fastRetry = config.RetryConfig{
	MaxAttempts:     3,
	InitialInterval: time.Millisecond,
	MaxInterval:     2 * time.Millisecond,
	Multiplier:      2,
}

// --- Chain tests ---

func TestChain_FirstIsOutermost(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) intercept.Interceptor[string] {
		return func(next ports.MessageHandler[string]) ports.MessageHandler[string] {
			return ports.MessageHandlerFunc[string](func(ctx context.Context, msg string) error {
				order = append(order, name+">")
				err := next.Handle(ctx, msg)
				order = append(order, "<"+name)
				return err
			})
		}
	}

	h := intercept.Chain[string](
		ports.MessageHandlerFunc[string](func(context.Context, string) error {
			order = append(order, "handler")
			return nil
		}),
		tag("a"), tag("b"),
	)
	if err := h.Handle(context.Background(), "x"); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	want := []string{"a>", "b>", "handler", "<b", "<a"}
	if !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

// --- Retry tests ---

func TestRetry_RetriesUnavailable(t *testing.T) {
	t.Parallel()

	calls := 0
	transient := fmt.Errorf("%w: journal busy", domain.ErrUnavailable)
	h := intercept.Chain(counting(&calls, transient, transient), intercept.Retry[message.CommandMessage](fastRetry))

	if err := h.Handle(context.Background(), cmd()); err != nil {
		t.Fatalf("Handle() error = %v, want nil after retries", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	transient := fmt.Errorf("%w: journal busy", domain.ErrUnavailable)
	h := intercept.Chain(counting(&calls, transient, transient, transient, transient),
		intercept.Retry[message.CommandMessage](fastRetry))

	if err := h.Handle(context.Background(), cmd()); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("Handle() error = %v, want %v", err, domain.ErrUnavailable)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_DoesNotRetryRejections(t *testing.T) {
	t.Parallel()

	calls := 0
	rejected := fmt.Errorf("%w: missing member", domain.ErrValidation)
	h := intercept.Chain(counting(&calls, rejected), intercept.Retry[message.CommandMessage](fastRetry))

	if err := h.Handle(context.Background(), cmd()); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Handle() error = %v, want %v", err, domain.ErrValidation)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetry_DoesNotRetryAfterAppend(t *testing.T) {
	t.Parallel()

	calls := 0
	published := fmt.Errorf("%w: publishing account.opened: %w", domain.ErrAlreadyApplied, domain.ErrUnavailable)
	h := intercept.Chain(counting(&calls, published), intercept.Retry[message.CommandMessage](fastRetry))

	err := h.Handle(context.Background(), cmd())
	if !errors.Is(err, domain.ErrAlreadyApplied) {
		t.Fatalf("Handle() error = %v, want %v", err, domain.ErrAlreadyApplied)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	h := intercept.Chain(
		ports.MessageHandlerFunc[message.CommandMessage](func(context.Context, message.CommandMessage) error {
			calls++
			cancel()
			return domain.ErrUnavailable
		}),
		intercept.Retry[message.CommandMessage](config.RetryConfig{
			MaxAttempts: 5, InitialInterval: time.Hour, MaxInterval: time.Hour, Multiplier: 1,
		}),
	)

	err := h.Handle(ctx, cmd())
	if !errors.Is(err, context.Canceled) || !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("Handle() error = %v, want canceled joined with unavailable", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

// --- RateLimit tests ---

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	t.Parallel()

	calls := 0
	h := intercept.Chain(counting(&calls), intercept.RateLimit[message.CommandMessage](config.RateLimitConfig{}))
	for range 100 {
		_ = h.Handle(context.Background(), cmd())
	}
	if calls != 100 {
		t.Errorf("calls = %d, want 100", calls)
	}
}

func TestRateLimit_WaitHonoursContext(t *testing.T) {
	t.Parallel()

	calls := 0
	h := intercept.Chain(counting(&calls),
		intercept.RateLimit[message.CommandMessage](config.RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1}))

	if err := h.Handle(context.Background(), cmd()); err != nil {
		t.Fatalf("first Handle() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := h.Handle(ctx, cmd()); err == nil {
		t.Fatal("second Handle() error = nil, want rate limit error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

// --- CircuitBreaker tests ---

func breakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{MaxFailures: 2, Timeout: time.Minute, HalfOpenLimit: 1}
}

func TestCircuitBreaker_OpensAfterFaults(t *testing.T) {
	t.Parallel()

	b := intercept.NewBreaker("journal", breakerConfig(), nil)
	calls := 0
	fault := errors.New("disk full")
	h := intercept.Chain(counting(&calls, fault, fault, fault), intercept.CircuitBreaker[message.CommandMessage](b))

	for range 2 {
		if err := h.Handle(context.Background(), cmd()); !errors.Is(err, fault) {
			t.Fatalf("Handle() error = %v, want %v", err, fault)
		}
	}

	if b.State() != "open" {
		t.Fatalf("State() = %q, want %q", b.State(), "open")
	}
	if err := h.Handle(context.Background(), cmd()); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("Handle() while open error = %v, want %v", err, domain.ErrUnavailable)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if err := b.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() = nil, want error while open")
	}
}

func TestCircuitBreaker_RejectionsDoNotTrip(t *testing.T) {
	t.Parallel()

	b := intercept.NewBreaker("journal", breakerConfig(), nil)
	calls := 0
	rejected := fmt.Errorf("%w: already opened", domain.ErrConflict)
	h := intercept.Chain(counting(&calls, rejected, rejected, rejected), intercept.CircuitBreaker[message.CommandMessage](b))

	for range 3 {
		if err := h.Handle(context.Background(), cmd()); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("Handle() error = %v, want %v", err, domain.ErrConflict)
		}
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want %q", b.State(), "closed")
	}
	if err := b.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil", err)
	}
}

// --- Tracing tests ---

func TestTracing_RecordsSpan(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	calls := 0
	h := intercept.Chain(counting(&calls, errors.New("boom")),
		intercept.Tracing[message.CommandMessage](tp.Tracer("test")))
	_ = h.Handle(context.Background(), cmd())

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("len(spans) = %d, want 1", len(spans))
	}
	if spans[0].Name() != "dispatch account.open" {
		t.Errorf("span name = %q, want %q", spans[0].Name(), "dispatch account.open")
	}
	if len(spans[0].Events()) == 0 {
		t.Error("span has no events, want a recorded error")
	}
}

// --- Metrics tests ---

func TestMetrics_CountsOutcomes(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := telemetry.NewMetrics(mp, "test")
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	calls := 0
	h := intercept.Chain(counting(&calls, nil, fmt.Errorf("%w: bad", domain.ErrValidation), errors.New("fault")),
		intercept.Metrics[message.CommandMessage](metrics))
	for range 3 {
		_ = h.Handle(context.Background(), cmd())
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	var total int64
	points := 0
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "dispatch.handled.total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("dispatch.handled.total data = %T, want Sum[int64]", m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
				points++
			}
		}
	}
	if total != 3 || points != 3 {
		t.Errorf("dispatch.handled.total = %d over %d series, want 3 over 3", total, points)
	}
}

func TestLogging_PassesErrorThrough(t *testing.T) {
	t.Parallel()

	calls := 0
	boom := errors.New("boom")
	h := intercept.Chain(counting(&calls, boom), intercept.Logging[message.CommandMessage]())
	if err := h.Handle(context.Background(), cmd()); !errors.Is(err, boom) {
		t.Fatalf("Handle() error = %v, want %v", err, boom)
	}
}
