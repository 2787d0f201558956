// Package aggregatetest provides a given/when/then fixture for aggregate
// tests. Given events are folded from the zero state, the command is
// handled, and the outcome is asserted:
//
//	aggregatetest.For[account.Account, account.Command, account.Event](account.Services{}).
//	    Given(account.Opened{AccountID: "a1", MemberID: "m1"}).
//	    When(account.Close{AccountID: "a1"}).
//	    ThenExpectEvents(t, account.Closed{AccountID: "a1"})
package aggregatetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/go-eventcore/internal/domain/aggregate"
)

// Fixture accumulates the history a command is decided against.
type Fixture[S aggregate.Root[S, C, E, Svc], C, E, Svc any] struct {
	ctx   context.Context
	svc   Svc
	given []E
}

// For starts a fixture for aggregate S with service context svc.
func For[S aggregate.Root[S, C, E, Svc], C, E, Svc any](svc Svc) *Fixture[S, C, E, Svc] {
	return &Fixture[S, C, E, Svc]{ctx: context.Background(), svc: svc}
}

// WithContext sets the context passed to Handle.
func (f *Fixture[S, C, E, Svc]) WithContext(ctx context.Context) *Fixture[S, C, E, Svc] {
	f.ctx = ctx
	return f
}

// Given appends events to the prior history.
func (f *Fixture[S, C, E, Svc]) Given(events ...E) *Fixture[S, C, E, Svc] {
	f.given = append(f.given, events...)
	return f
}

// GivenNoPriorEvents starts from the zero state.
func (f *Fixture[S, C, E, Svc]) GivenNoPriorEvents() *Fixture[S, C, E, Svc] {
	f.given = nil
	return f
}

// When rehydrates the history and handles cmd.
func (f *Fixture[S, C, E, Svc]) When(cmd C) *Outcome[S, E] {
	state, events, err := aggregate.Execute[S](f.ctx, f.given, cmd, f.svc)
	return &Outcome[S, E]{prior: state, events: events, err: err}
}

// Outcome is the result of When.
type Outcome[S aggregate.Applier[S, E], E any] struct {
	prior  S
	events []E
	err    error
}

// ThenExpectEvents asserts that the command succeeded with exactly want.
func (o *Outcome[S, E]) ThenExpectEvents(t testing.TB, want ...E) {
	t.Helper()
	require.NoError(t, o.err)
	if len(want) == 0 {
		assert.Empty(t, o.events)
		return
	}
	assert.Equal(t, want, o.events)
}

// ThenExpectError asserts that the command failed with an error matching
// target and produced no events.
func (o *Outcome[S, E]) ThenExpectError(t testing.TB, target error) {
	t.Helper()
	require.Error(t, o.err)
	assert.ErrorIs(t, o.err, target)
	assert.Empty(t, o.events)
}

// ThenExpectErrorMessage asserts that the command failed with message msg.
func (o *Outcome[S, E]) ThenExpectErrorMessage(t testing.TB, msg string) {
	t.Helper()
	assert.EqualError(t, o.err, msg)
	assert.Empty(t, o.events)
}

// ThenExpectState asserts on the state after the decided events are applied.
func (o *Outcome[S, E]) ThenExpectState(t testing.TB, check func(t testing.TB, state S)) {
	t.Helper()
	require.NoError(t, o.err)
	check(t, aggregate.Fold(o.prior, o.events))
}

// Inspect hands the raw outcome to fn for assertions the helpers don't cover.
func (o *Outcome[S, E]) Inspect(t testing.TB, fn func(t testing.TB, prior S, events []E, err error)) {
	t.Helper()
	fn(t, o.prior, o.events, o.err)
}
