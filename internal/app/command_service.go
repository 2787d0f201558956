// Package app wires aggregates to their journals and to each other: command
// services execute commands through the aggregate runtime and append the
// result, process managers turn events from one aggregate into commands for
// another.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/go-eventcore/internal/app/fanout"
	"github.com/jsamuelsen11/go-eventcore/internal/domain"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/aggregate"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/logging"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// Command is what a command service needs to route a command.
type Command interface {
	CommandName() string
	// AggregateID is the target stream, or empty when the aggregate
	// assigns the id itself.
	AggregateID() string
}

// Event is what a command service needs to store and publish an event.
type Event interface {
	EventName() string
	AggregateID() string
}

// ServiceOption configures a CommandService.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger    *slog.Logger
	publisher ports.MessageHandler[message.EventMessage]
}

// WithServiceLogger sets the logger. By default it is read from the context.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) { o.logger = logger }
}

// WithPublisher passes every appended event message to h. A publish error
// is returned to the caller wrapped in domain.ErrAlreadyApplied; the events
// stay appended.
func WithPublisher(h ports.MessageHandler[message.EventMessage]) ServiceOption {
	return func(o *serviceOptions) { o.publisher = h }
}

// CommandService executes commands for one aggregate type against an event
// journal.
type CommandService[S aggregate.Root[S, C, E, Svc], C Command, E Event, Svc any] struct {
	runtime     *Runtime[S, C, E, Svc]
	journal     ports.EventJournal[E]
	correlation ports.CorrelationProvider
	opts        serviceOptions
}

// NewCommandService returns a service that loads history from journal, runs
// commands through runtime, and correlates produced events via provider.
func NewCommandService[S aggregate.Root[S, C, E, Svc], C Command, E Event, Svc any](
	runtime *Runtime[S, C, E, Svc],
	journal ports.EventJournal[E],
	provider ports.CorrelationProvider,
	opts ...ServiceOption,
) *CommandService[S, C, E, Svc] {
	o := serviceOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return &CommandService[S, C, E, Svc]{
		runtime:     runtime,
		journal:     journal,
		correlation: provider,
		opts:        o,
	}
}

func (s *CommandService[S, C, E, Svc]) logger(ctx context.Context) *slog.Logger {
	if s.opts.logger != nil {
		return s.opts.logger
	}
	return logging.FromContext(ctx)
}

// Execute implements ports.CommandService.
func (s *CommandService[S, C, E, Svc]) Execute(ctx context.Context, cmd C, cause message.Message) ([]message.EventMessage, error) {
	logger := s.logger(ctx).With(
		slog.String("aggregate", s.runtime.Name()),
		slog.String("command", cmd.CommandName()),
	)
	streamID := cmd.AggregateID()
	logger.InfoContext(ctx, "executing command", slog.String("stream_id", streamID))

	var history []E
	var version int
	if streamID != "" {
		var err error
		history, version, err = s.journal.Load(ctx, streamID)
		if err != nil {
			logger.ErrorContext(ctx, "failed to load stream",
				slog.String("operation", "CommandService.Execute"),
				slog.String("stream_id", streamID),
				slog.Any("error", err),
			)
			return nil, fmt.Errorf("loading %s: %w", streamID, err)
		}
	}

	result, err := s.runtime.Execute(ctx, history, cmd)
	if err != nil {
		return nil, err
	}
	if len(result.Events) == 0 {
		logger.WarnContext(ctx, "command produced no events",
			slog.String("operation", "CommandService.Execute"),
			slog.String("stream_id", streamID),
			slog.Int("version", version),
		)
		return nil, nil
	}

	target := result.Events[0].AggregateID()
	if err := s.journal.Append(ctx, target, version, result.Events); err != nil {
		logger.ErrorContext(ctx, "failed to append events",
			slog.String("operation", "CommandService.Execute"),
			slog.String("stream_id", target),
			slog.Int("expected_version", version),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("appending to %s: %w", target, err)
	}

	msgs := make([]message.EventMessage, len(result.Events))
	for i, evt := range result.Events {
		msg := message.NewEventMessage(evt.EventName(), evt).
			WithMeta(message.StreamIDKey, evt.AggregateID()).
			WithMeta(message.StreamVersionKey, version+i+1)
		if cause != nil && s.correlation != nil {
			msg = msg.WithMetadata(s.correlation.CorrelationFor(cause))
		}
		msgs[i] = msg
	}

	if s.opts.publisher != nil {
		for _, msg := range msgs {
			if err := s.opts.publisher.Handle(ctx, msg); err != nil {
				logger.ErrorContext(ctx, "failed to publish appended event",
					slog.String("operation", "CommandService.Execute"),
					slog.String("stream_id", target),
					slog.String("event", msg.EventName()),
					slog.Any("error", err),
				)
				return msgs, fmt.Errorf("%w: publishing %s: %w", domain.ErrAlreadyApplied, msg.EventName(), err)
			}
		}
	}

	return msgs, nil
}

// State rehydrates the current state of one stream.
func (s *CommandService[S, C, E, Svc]) State(ctx context.Context, streamID string) (S, error) {
	history, _, err := s.journal.Load(ctx, streamID)
	if err != nil {
		var zero S
		return zero, fmt.Errorf("loading %s: %w", streamID, err)
	}
	return s.runtime.Load(history), nil
}

// States rehydrates many streams concurrently, at most workers at a time.
// States are returned in input order; streams that fail to load are left
// out and reported in the joined error.
func (s *CommandService[S, C, E, Svc]) States(ctx context.Context, streamIDs []string, workers int) ([]S, error) {
	return fanout.Collect(fanout.Run(ctx, workers, streamIDs, s.State))
}
