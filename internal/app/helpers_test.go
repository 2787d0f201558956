package app_test

import (
	"context"

	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
	"github.com/jsamuelsen11/go-eventcore/internal/ports"
)

func portsFunc(fn func(message.EventMessage)) ports.MessageHandler[message.EventMessage] {
	return ports.MessageHandlerFunc[message.EventMessage](func(_ context.Context, m message.EventMessage) error {
		fn(m)
		return nil
	})
}
