// Package aggregate implements the event-sourced decision runtime.
//
// An aggregate's state type S is a value type whose zero value is the
// default state at version 0. Handle validates a command against the state
// and decides which events to emit; Apply folds one event into the state and
// returns the successor. Both use value receivers, so neither can mutate the
// state another holder observes.
//
//	state := aggregate.Rehydrate[account.Account](history)
//	events, err := state.Handle(ctx, cmd, services)
package aggregate

import (
	"context"
	"fmt"
)

// Versioned is implemented by aggregate states.
type Versioned interface {
	// Version is the number of events applied since the zero state.
	Version() int
}

// Applier folds events into a state of type S.
type Applier[S, E any] interface {
	Versioned

	// Apply returns the state after evt. It must be deterministic, total,
	// and side-effect free, and must return a state whose version is
	// exactly one greater. An event that cannot be applied is a corrupted
	// history: implementations panic with a *CorruptHistoryError.
	Apply(evt E) S
}

// Decider validates commands into events.
type Decider[C, E, Svc any] interface {
	// Handle decides which events cmd produces against the current state.
	// Zero events with a nil error is a legal outcome. Handle must not
	// mutate the receiver; it may block on svc.
	Handle(ctx context.Context, cmd C, svc Svc) ([]E, error)
}

// Root is the full aggregate capability consumed by command services.
type Root[S, C, E, Svc any] interface {
	Applier[S, E]
	Decider[C, E, Svc]
}

// CorruptHistoryError reports an event history that cannot be folded. It is
// raised with panic, never returned.
type CorruptHistoryError struct {
	Aggregate string
	Version   int
	Event     any
	Reason    string
}

func (e *CorruptHistoryError) Error() string {
	return fmt.Sprintf("corrupt history for %s at version %d: %s (event %T)",
		e.Aggregate, e.Version, e.Reason, e.Event)
}

// Rehydrate folds history into the zero state of S. It panics with a
// *CorruptHistoryError if any Apply fails to advance the version by one.
func Rehydrate[S Applier[S, E], E any](history []E) S {
	var state S
	return Fold(state, history)
}

// Fold applies history on top of state.
func Fold[S Applier[S, E], E any](state S, history []E) S {
	for _, evt := range history {
		want := state.Version() + 1
		state = state.Apply(evt)
		if got := state.Version(); got != want {
			panic(&CorruptHistoryError{
				Aggregate: fmt.Sprintf("%T", state),
				Version:   want - 1,
				Event:     evt,
				Reason:    fmt.Sprintf("apply produced version %d, want %d", got, want),
			})
		}
	}
	return state
}

// Execute rehydrates S from history and handles cmd against it. The
// rehydrated state is returned alongside the decision so callers can read
// its version for the append.
func Execute[S Root[S, C, E, Svc], C, E, Svc any](ctx context.Context, history []E, cmd C, svc Svc) (S, []E, error) {
	state := Rehydrate[S](history)
	events, err := state.Handle(ctx, cmd, svc)
	if err != nil {
		return state, nil, err
	}
	return state, events, nil
}
