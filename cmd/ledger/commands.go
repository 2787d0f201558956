package main

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/go-eventcore/internal/adapters/jsonl"
	"github.com/jsamuelsen11/go-eventcore/internal/app/dispatch"
	"github.com/jsamuelsen11/go-eventcore/internal/domain"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/account"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/card"
	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

// commandTable lists the command lines the ledger accepts on stdin.
func commandTable() *jsonl.Commands {
	commands := jsonl.NewCommands()
	jsonl.Register[account.Open](commands, account.CommandOpen)
	jsonl.Register[account.Close](commands, account.CommandClose)
	jsonl.Register[card.Issue](commands, card.CommandIssue)
	jsonl.Register[card.Activate](commands, card.CommandActivate)
	jsonl.Register[card.Deactivate](commands, card.CommandDeactivate)
	jsonl.Register[card.ReportLost](commands, card.CommandReportLost)
	return commands
}

// commandRegistry routes command messages to the service owning their
// aggregate.
func commandRegistry(
	accounts ports.CommandService[account.Command],
	cards ports.CommandService[card.Command],
) *dispatch.Registry[string, message.CommandMessage] {
	registry := dispatch.NewKeyed(message.CommandMessage.CommandName)
	for _, name := range []string{account.CommandOpen, account.CommandClose} {
		registry.Register(name, execute(accounts))
	}
	for _, name := range []string{card.CommandIssue, card.CommandActivate, card.CommandDeactivate, card.CommandReportLost} {
		registry.Register(name, execute(cards))
	}
	return registry
}

func execute[C any](svc ports.CommandService[C]) ports.MessageHandler[message.CommandMessage] {
	return ports.MessageHandlerFunc[message.CommandMessage](func(ctx context.Context, msg message.CommandMessage) error {
		cmd, ok := message.As[C](msg.Payload())
		if !ok {
			return fmt.Errorf("%w: %s payload is %T", domain.ErrValidation, msg.CommandName(), msg.Payload().Value())
		}
		_, err := svc.Execute(ctx, cmd, msg)
		return err
	})
}
