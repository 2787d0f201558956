package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen11/go-eventcore/internal/app/saga"
	"github.com/jsamuelsen11/go-eventcore/internal/app/uow"
	"github.com/jsamuelsen11/go-eventcore/internal/domain"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/account"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/card"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/logging"
	"github.com/jsamuelsen11/go-eventcore/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.CommandService[account.Command]      = (*CommandService[account.Account, account.Command, account.Event, account.Services])(nil)
	_ ports.CommandService[card.Command]         = (*CommandService[card.Card, card.Command, card.Event, card.Services])(nil)
	_ ports.MessageHandler[message.EventMessage] = (*CardProcess)(nil)
)

// CardProcessName labels the card process saga in logs and metrics.
const CardProcessName = "card-process"

// CardProcess issues a card when an account opens and deactivates it when
// the account closes. Each produced command runs in its own unit of work,
// never nested inside the one that produced the account event.
type CardProcess struct {
	saga        *saga.Saga[string, message.EventMessage, card.Command]
	cards       ports.CommandService[card.Command]
	correlation ports.CorrelationProvider
	metrics     *telemetry.Metrics
}

// NewCardProcess returns a started card process that sends commands to
// cards. metrics may be nil.
func NewCardProcess(cards ports.CommandService[card.Command], provider ports.CorrelationProvider, metrics *telemetry.Metrics) *CardProcess {
	s := saga.NewKeyed[string, message.EventMessage, card.Command](
		message.EventMessage.EventName,
		saga.WithName(CardProcessName),
		saga.WithMetrics(metrics),
	)
	s.Register(account.EventOpened, ports.EventHandlerFunc[message.EventMessage, card.Command](
		func(ctx context.Context, evt message.EventMessage) card.Command {
			id := accountIDOf(ctx, evt)
			return card.Issue{CardID: card.IDForAccount(id), AccountID: id}
		}))
	s.Register(account.EventClosed, ports.EventHandlerFunc[message.EventMessage, card.Command](
		func(ctx context.Context, evt message.EventMessage) card.Command {
			return card.Deactivate{CardID: card.IDForAccount(accountIDOf(ctx, evt))}
		}))
	s.Start()

	return &CardProcess{saga: s, cards: cards, correlation: provider, metrics: metrics}
}

// Stop finalizes the saga. Later events are ignored.
func (p *CardProcess) Stop() { p.saga.Finalize() }

// State returns the saga state.
func (p *CardProcess) State() saga.State { return p.saga.State() }

// Handle implements ports.MessageHandler. When the event is published from
// inside a unit of work, the card command waits for that unit of work to
// commit and is dropped if it rolls back. Otherwise it runs at once. Card
// rejections are logged and swallowed so they never fail the account flow;
// faults are returned, or logged by the committing unit of work.
func (p *CardProcess) Handle(ctx context.Context, evt message.EventMessage) error {
	cmd, ok := p.saga.Handle(ctx, evt)
	if !ok {
		return nil
	}

	cmdMsg := message.NewCommandMessage(cmd.CommandName(), cmd)
	if p.correlation != nil {
		cmdMsg = cmdMsg.WithMetadata(p.correlation.CorrelationFor(evt))
	}

	run := func(ctx context.Context) error { return p.dispatch(ctx, cmd, cmdMsg) }
	if uow.Defer(ctx, run) {
		return nil
	}
	return run(ctx)
}

func (p *CardProcess) dispatch(ctx context.Context, cmd card.Command, cmdMsg message.CommandMessage) error {
	work := uow.New(cmdMsg, ports.MessageHandlerFunc[message.CommandMessage](
		func(ctx context.Context, m message.CommandMessage) error {
			_, err := p.cards.Execute(ctx, cmd, m)
			return err
		}),
		uow.WithMetrics(p.metrics),
	)
	defer func() { _ = work.Close() }()

	err := work.Begin(ctx)
	if err != nil && domain.IsRejection(err) {
		logging.FromContext(ctx).WarnContext(ctx, "card command rejected",
			slog.String("operation", "CardProcess.Handle"),
			slog.String("command", cmd.CommandName()),
			slog.String("card_id", cmd.AggregateID()),
			slog.Any("error", err),
		)
		return nil
	}
	return err
}

func accountIDOf(ctx context.Context, evt message.EventMessage) string {
	var body struct {
		AccountID string `json:"account_id"`
	}
	if err := evt.Payload().Decode(&body); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "undecodable account event",
			slog.String("operation", "CardProcess.Handle"),
			slog.String("event", evt.EventName()),
			slog.Any("error", err),
		)
	}
	return body.AccountID
}
