// Package uow implements the unit-of-work phase machine that wraps the
// handling of exactly one message:
//
//	NotStarted → Started → PrepareCommit → handler
//	    → Commit → AfterCommit → Cleanup    (success)
//	    → Rollback → Cleanup                (failure)
//	Cleanup → Closed                        (Close)
//
// Begin drives every phase in one call. Rollback consumers registered
// before Begin are notified once, in registration order, when the handler
// fails. A handler defers follow-up work to the commit with Defer.
// Hook panics are recovered and logged; Cleanup always runs.
package uow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/logging"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

const tracerName = "github.com/jsamuelsen11/go-eventcore/internal/app/uow"

var (
	// ErrAlreadyBegun is returned by Begin and the hook registration
	// methods once Begin has been called.
	ErrAlreadyBegun = errors.New("uow: already begun")

	// ErrNotFinished is returned by Close before the unit of work reaches
	// Cleanup.
	ErrNotFinished = errors.New("uow: not finished")

	// ErrRolledBack wraps every handler failure returned by Begin.
	ErrRolledBack = errors.New("uow: rolled back")
)

// View is the read-only face of a unit of work handed to hooks.
type View[M any] interface {
	Message() M
	Phase() Phase
}

// RollbackFunc is notified when the unit of work rolls back. cause is the
// handler error text.
type RollbackFunc[M any] func(ctx context.Context, uow View[M], cause string)

type track struct {
	current Phase
	log     []Phase
}

// UnitOfWork processes one message with one handler, exactly once.
type UnitOfWork[M any] struct {
	msg     M
	handler ports.MessageHandler[M]
	phase   *Cell[track]
	opts    options

	mu         sync.Mutex
	begun      bool
	onPrepare  []func(context.Context) error
	onRollback []RollbackFunc[M]
	onAfter    []func(context.Context) error
	onCleanup  []func(context.Context)
	deferred   []func(context.Context) error
}

// New wraps msg and handler in a unit of work in phase NotStarted.
func New[M any](msg M, handler ports.MessageHandler[M], opts ...Option) *UnitOfWork[M] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = message.NameOf(msg)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	return &UnitOfWork[M]{
		msg:     msg,
		handler: handler,
		phase:   NewCell(track{current: NotStarted, log: []Phase{NotStarted}}),
		opts:    o,
	}
}

// Message returns the wrapped message.
func (u *UnitOfWork[M]) Message() M { return u.msg }

// Phase returns the current phase.
func (u *UnitOfWork[M]) Phase() Phase {
	return u.phase.Get().current
}

// Transitions returns every phase entered so far, starting at NotStarted.
func (u *UnitOfWork[M]) Transitions() []Phase {
	var out []Phase
	u.phase.Read(func(t *track) { out = slices.Clone(t.log) })
	return out
}

// OnPrepareCommit registers fn to run in PrepareCommit, before the handler.
// An error from fn rolls the unit of work back without calling the handler.
func (u *UnitOfWork[M]) OnPrepareCommit(fn func(context.Context) error) error {
	return u.register(func() { u.onPrepare = append(u.onPrepare, fn) })
}

// OnRollback registers a rollback consumer.
func (u *UnitOfWork[M]) OnRollback(fn RollbackFunc[M]) error {
	return u.register(func() { u.onRollback = append(u.onRollback, fn) })
}

// OnAfterCommit registers fn to run in AfterCommit. Its error is logged and
// does not change the outcome.
func (u *UnitOfWork[M]) OnAfterCommit(fn func(context.Context) error) error {
	return u.register(func() { u.onAfter = append(u.onAfter, fn) })
}

// OnCleanup registers fn to run in Cleanup regardless of outcome.
func (u *UnitOfWork[M]) OnCleanup(fn func(context.Context)) error {
	return u.register(func() { u.onCleanup = append(u.onCleanup, fn) })
}

func (u *UnitOfWork[M]) register(add func()) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.begun {
		return ErrAlreadyBegun
	}
	add()
	return nil
}

// Begin processes the message. It returns nil when the handler succeeds and
// an error wrapping ErrRolledBack and the handler error when it fails or
// panics. A second call returns ErrAlreadyBegun.
func (u *UnitOfWork[M]) Begin(ctx context.Context) error {
	u.mu.Lock()
	if u.begun {
		u.mu.Unlock()
		return ErrAlreadyBegun
	}
	u.begun = true
	u.mu.Unlock()

	start := time.Now()
	ctx, span := u.opts.tracer.Start(ctx, "uow.begin",
		trace.WithAttributes(attribute.String("message.name", u.opts.name)),
	)
	defer span.End()

	logger := u.opts.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	logger = logger.With(slog.String("message", u.opts.name))

	u.enter(Started)
	u.enter(PrepareCommit)

	err := u.prepare(ctx)
	if err == nil {
		err = u.invoke(withCurrent(ctx, u))
	}

	u.mu.Lock()
	deferred := u.deferred
	u.deferred = nil
	u.mu.Unlock()

	outcome := telemetry.OutcomeCommitted
	if err != nil {
		outcome = telemetry.OutcomeRolledBack
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		u.enter(Rollback)
		logger.WarnContext(ctx, "unit of work rolled back",
			slog.String("operation", "UnitOfWork.Begin"),
			slog.Int("discarded_follow_ups", len(deferred)),
			slog.Any("error", err),
		)
		cause := err.Error()
		for _, fn := range u.onRollback {
			u.guard(ctx, logger, "rollback", func(ctx context.Context) error {
				fn(ctx, u, cause)
				return nil
			})
		}
		err = fmt.Errorf("%w: %w", ErrRolledBack, err)
	} else {
		u.enter(Commit)
		u.enter(AfterCommit)
		for _, fn := range slices.Concat(u.onAfter, deferred) {
			u.guard(ctx, logger, "after-commit", fn)
		}
	}

	u.enter(Cleanup)
	for _, fn := range u.onCleanup {
		u.guard(ctx, logger, "cleanup", func(ctx context.Context) error {
			fn(ctx)
			return nil
		})
	}

	span.SetAttributes(attribute.String("uow.outcome", outcome))
	u.opts.metrics.RecordUnitOfWork(ctx, u.opts.name, outcome, time.Since(start))
	logger.DebugContext(ctx, "unit of work finished",
		slog.String("operation", "UnitOfWork.Begin"),
		slog.String("outcome", outcome),
		slog.Duration("elapsed", time.Since(start)),
	)

	return err
}

// Close moves a finished unit of work to Closed. Closing twice is a no-op.
func (u *UnitOfWork[M]) Close() error {
	var err error
	var moved bool
	u.phase.Update(func(t *track) {
		switch t.current {
		case Closed:
		case Cleanup:
			t.current = Closed
			t.log = append(t.log, Closed)
			moved = true
		default:
			err = fmt.Errorf("%w: phase %s", ErrNotFinished, t.current)
		}
	})
	if moved && u.opts.listener != nil {
		u.opts.listener(Cleanup, Closed)
	}
	return err
}

func (u *UnitOfWork[M]) prepare(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("prepare commit: panic: %v", r)
		}
	}()
	for _, fn := range u.onPrepare {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("prepare commit: %w", err)
		}
	}
	return nil
}

func (u *UnitOfWork[M]) invoke(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return u.handler.Handle(ctx, u.msg)
}

// guard runs one hook. Errors and panics are logged and never change the
// outcome.
func (u *UnitOfWork[M]) guard(ctx context.Context, logger *slog.Logger, hook string, fn func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, hook+" hook panicked",
				slog.String("operation", "UnitOfWork.Begin"),
				slog.Any("panic", r),
			)
		}
	}()
	if err := fn(ctx); err != nil {
		logger.ErrorContext(ctx, hook+" hook failed",
			slog.String("operation", "UnitOfWork.Begin"),
			slog.Any("error", err),
		)
	}
}

func (u *UnitOfWork[M]) deferAfterCommit(fn func(context.Context) error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deferred = append(u.deferred, fn)
}

func (u *UnitOfWork[M]) enter(next Phase) {
	var prev Phase
	u.phase.Update(func(t *track) {
		prev = t.current
		t.current = next
		t.log = append(t.log, next)
	})
	if u.opts.listener != nil {
		u.opts.listener(prev, next)
	}
}
