// Package main is the entry point for the ledger. It wires all dependencies
// using samber/do v2, reads JSON Lines commands from stdin, runs each one in
// its own unit of work, and writes the resulting events to stdout. It stops
// at end of input or on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/samber/do/v2"

	"github.com/jsamuelsen11/go-eventcore/internal/adapters/jsonl"
	"github.com/jsamuelsen11/go-eventcore/internal/adapters/memjournal"
	"github.com/jsamuelsen11/go-eventcore/internal/app"
	"github.com/jsamuelsen11/go-eventcore/internal/app/correlation"
	"github.com/jsamuelsen11/go-eventcore/internal/app/dispatch"
	"github.com/jsamuelsen11/go-eventcore/internal/app/intercept"
	"github.com/jsamuelsen11/go-eventcore/internal/app/uow"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/account"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/card"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/config"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/health"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/logging"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/random"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	otelShutdownTimeout = 5 * time.Second
	summaryWorkers      = 8
	cardNumberLength    = 16
	breakerName         = "ledger-dispatch"
)

type (
	accountService = app.CommandService[account.Account, account.Command, account.Event, account.Services]
	cardService    = app.CommandService[card.Card, card.Command, card.Event, card.Services]
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Correlation.FallbackTraceID == "" {
		cfg.Correlation.FallbackTraceID = uuid.NewString()
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer otelCancel()
		if err := otel.Shutdown(otelCtx); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}()

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	runID := uuid.NewString()
	registerDependencies(injector, cfg, logger, runID)

	// Resolve the command handler (eagerly wires the full graph).
	handler, err := do.Invoke[ports.MessageHandler[message.CommandMessage]](injector)
	if err != nil {
		return fmt.Errorf("resolving command handler: %w", err)
	}

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(do.MustInvoke[*memjournal.Journal[account.Event]](injector))
	registry.Register(do.MustInvoke[*memjournal.Journal[card.Event]](injector))
	registry.Register(do.MustInvoke[*intercept.Breaker](injector))

	process := do.MustInvoke[*app.CardProcess](injector)
	defer process.Stop()

	logger.Info("ledger started",
		slog.String("profile", profile),
		slog.String("run_id", runID),
	)

	stats := consume(ctx, jsonl.NewDecoder(os.Stdin, commandTable()), handler, cfg, otel.metrics)

	summarize(context.WithoutCancel(ctx), injector)
	if err := registry.Report(ctx); err != nil {
		logger.Warn("unhealthy components", slog.Any("error", err))
	}

	logger.Info("ledger stopped",
		slog.Int("processed", stats.processed),
		slog.Int("failed", stats.failed),
	)
	if stats.failed > 0 {
		return fmt.Errorf("%d of %d commands failed", stats.failed, stats.processed)
	}
	return nil
}

type runStats struct {
	processed int
	failed    int
}

// consume runs every decoded command in its own unit of work until the input
// ends, the input cannot be read, or ctx is cancelled.
func consume(
	ctx context.Context,
	dec *jsonl.Decoder,
	handler ports.MessageHandler[message.CommandMessage],
	cfg *config.Config,
	metrics *telemetry.Metrics,
) runStats {
	logger := logging.FromContext(ctx)
	var stats runStats

	for ctx.Err() == nil {
		msg, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		stats.processed++
		if err != nil {
			stats.failed++
			if !jsonl.IsLineError(err) {
				logger.Error("reading input", slog.Int("line", dec.Line()), slog.Any("error", err))
				break
			}
			logger.Warn("skipping input line", slog.Int("line", dec.Line()), slog.Any("error", err))
			continue
		}

		if err := runCommand(ctx, msg, handler, cfg, metrics); err != nil {
			stats.failed++
			logger.Error("command failed",
				slog.Int("line", dec.Line()),
				slog.String("command", msg.CommandName()),
				slog.Any("error", err),
			)
		}
	}
	return stats
}

func runCommand(
	ctx context.Context,
	msg message.CommandMessage,
	handler ports.MessageHandler[message.CommandMessage],
	cfg *config.Config,
	metrics *telemetry.Metrics,
) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Dispatch.HandlerTimeout)
	defer cancel()

	logger := logging.FromContext(ctx).With(slog.String("message_id", msg.Identifier().ID()))
	work := uow.New(msg, handler,
		uow.WithLogger(logger),
		uow.WithMetrics(metrics),
	)
	if err := work.OnRollback(func(_ context.Context, v uow.View[message.CommandMessage], cause string) {
		logger.Debug("command rolled back",
			slog.String("command", v.Message().CommandName()),
			slog.String("cause", cause),
		)
	}); err != nil {
		return err
	}

	err := work.Begin(ctx)
	if closeErr := work.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return err
}

// summarize logs how many accounts and cards ended in each status.
func summarize(ctx context.Context, injector do.Injector) {
	logger := logging.FromContext(ctx)

	accountLog := do.MustInvoke[*memjournal.Journal[account.Event]](injector)
	accounts, err := do.MustInvoke[*accountService](injector).States(ctx, accountLog.Streams(), summaryWorkers)
	if err != nil {
		logger.Warn("loading account states", slog.Any("error", err))
	}
	byAccountStatus := make(map[string]int)
	for _, a := range accounts {
		byAccountStatus[a.Status.String()]++
	}

	cardLog := do.MustInvoke[*memjournal.Journal[card.Event]](injector)
	cards, err := do.MustInvoke[*cardService](injector).States(ctx, cardLog.Streams(), summaryWorkers)
	if err != nil {
		logger.Warn("loading card states", slog.Any("error", err))
	}
	byCardStatus := make(map[string]int)
	for _, c := range cards {
		byCardStatus[c.Status.String()]++
	}

	logger.Info("ledger summary",
		slog.Int("accounts", len(accounts)),
		slog.Any("accounts_by_status", byAccountStatus),
		slog.Int("cards", len(cards)),
		slog.Any("cards_by_status", byCardStatus),
	)
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger, runID string) {
	do.Provide(injector, func(_ do.Injector) (*memjournal.Journal[account.Event], error) {
		return memjournal.New[account.Event](
			memjournal.WithName("account-journal"),
			memjournal.WithInitialCapacity(cfg.Journal.InitialCapacity),
		), nil
	})

	do.Provide(injector, func(_ do.Injector) (*memjournal.Journal[card.Event], error) {
		return memjournal.New[card.Event](
			memjournal.WithName("card-journal"),
			memjournal.WithInitialCapacity(cfg.Journal.InitialCapacity),
		), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.CorrelationProvider, error) {
		return correlation.FromConfig(cfg.Correlation, runID), nil
	})

	do.Provide(injector, func(_ do.Injector) (*jsonl.Encoder, error) {
		return jsonl.NewEncoder(os.Stdout), nil
	})

	do.Provide(injector, func(i do.Injector) (*cardService, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		rt := app.NewRuntime[card.Card, card.Command, card.Event](card.AggregateName,
			card.Services{Numbers: random.Source{Length: cardNumberLength}},
			app.WithRuntimeLogger(logger),
			app.WithRuntimeMetrics(metrics),
		)
		return app.NewCommandService(rt,
			do.MustInvoke[*memjournal.Journal[card.Event]](i),
			do.MustInvoke[ports.CorrelationProvider](i),
			app.WithServiceLogger(logger),
			app.WithPublisher(do.MustInvoke[*jsonl.Encoder](i)),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.CardProcess, error) {
		return app.NewCardProcess(
			do.MustInvoke[*cardService](i),
			do.MustInvoke[ports.CorrelationProvider](i),
			do.MustInvoke[*telemetry.Metrics](i),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*accountService, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		process := do.MustInvoke[*app.CardProcess](i)

		events := dispatch.NewKeyed(message.EventMessage.EventName)
		events.Register(account.EventOpened, process)
		events.Register(account.EventClosed, process)

		rt := app.NewRuntime[account.Account, account.Command, account.Event](account.AggregateName,
			account.Services{},
			app.WithRuntimeLogger(logger),
			app.WithRuntimeMetrics(metrics),
		)
		return app.NewCommandService(rt,
			do.MustInvoke[*memjournal.Journal[account.Event]](i),
			do.MustInvoke[ports.CorrelationProvider](i),
			app.WithServiceLogger(logger),
			app.WithPublisher(dispatch.Broadcast[message.EventMessage](
				do.MustInvoke[*jsonl.Encoder](i),
				events,
			)),
		), nil
	})

	do.Provide(injector, func(_ do.Injector) (*intercept.Breaker, error) {
		return intercept.NewBreaker(breakerName, cfg.Dispatch.CircuitBreaker, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.MessageHandler[message.CommandMessage], error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		breaker := do.MustInvoke[*intercept.Breaker](i)

		return intercept.Chain(commandRegistry(
			do.MustInvoke[*accountService](i),
			do.MustInvoke[*cardService](i),
		),
			intercept.Logging[message.CommandMessage](),
			intercept.Tracing[message.CommandMessage](nil),
			intercept.Metrics[message.CommandMessage](metrics),
			intercept.RateLimit[message.CommandMessage](cfg.Dispatch.RateLimit),
			intercept.CircuitBreaker[message.CommandMessage](breaker),
			intercept.Retry[message.CommandMessage](cfg.Dispatch.Retry),
		), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})
}
