package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEventJournal is a testify mock of ports.EventJournal[E].
type MockEventJournal[E any] struct {
	mock.Mock
}

// NewMockEventJournal returns a mock whose expectations are asserted when
// the test ends.
func NewMockEventJournal[E any](t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEventJournal[E] {
	m := &MockEventJournal[E]{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockEventJournal_Expecter builds typed expectations.
type MockEventJournal_Expecter[E any] struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation builder.
func (m *MockEventJournal[E]) EXPECT() *MockEventJournal_Expecter[E] {
	return &MockEventJournal_Expecter[E]{mock: &m.Mock}
}

// Load implements ports.EventJournal.
func (m *MockEventJournal[E]) Load(ctx context.Context, streamID string) ([]E, int, error) {
	ret := m.Called(ctx, streamID)

	var history []E
	if v := ret.Get(0); v != nil {
		history = v.([]E)
	}
	return history, ret.Int(1), ret.Error(2)
}

// Append implements ports.EventJournal.
func (m *MockEventJournal[E]) Append(ctx context.Context, streamID string, expectedVersion int, events []E) error {
	ret := m.Called(ctx, streamID, expectedVersion, events)
	return ret.Error(0)
}

// MockEventJournal_Load_Call is a pending Load expectation.
type MockEventJournal_Load_Call[E any] struct {
	*mock.Call
}

// Load expects a Load call with the given arguments.
func (e *MockEventJournal_Expecter[E]) Load(ctx, streamID any) *MockEventJournal_Load_Call[E] {
	return &MockEventJournal_Load_Call[E]{Call: e.mock.On("Load", ctx, streamID)}
}

// Return sets the call's results.
func (c *MockEventJournal_Load_Call[E]) Return(history []E, version int, err error) *MockEventJournal_Load_Call[E] {
	c.Call.Return(history, version, err)
	return c
}

// MockEventJournal_Append_Call is a pending Append expectation.
type MockEventJournal_Append_Call[E any] struct {
	*mock.Call
}

// Append expects an Append call with the given arguments.
func (e *MockEventJournal_Expecter[E]) Append(ctx, streamID, expectedVersion, events any) *MockEventJournal_Append_Call[E] {
	return &MockEventJournal_Append_Call[E]{Call: e.mock.On("Append", ctx, streamID, expectedVersion, events)}
}

// Return sets the call's result.
func (c *MockEventJournal_Append_Call[E]) Return(err error) *MockEventJournal_Append_Call[E] {
	c.Call.Return(err)
	return c
}
