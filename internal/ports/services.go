package ports

import (
	"context"

	"github.com/jsamuelsen11/go-eventcore/internal/domain/message"
)

// CommandService runs one command against its aggregate. Implemented by the
// application layer; called by units of work and process managers.
type CommandService[C any] interface {
	// Execute rehydrates the target aggregate, decides on cmd, appends the
	// resulting events, and returns them as event messages correlated with
	// cause. Zero events with a nil error is a legal outcome.
	Execute(ctx context.Context, cmd C, cause message.Message) ([]message.EventMessage, error)
}
