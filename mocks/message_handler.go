package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMessageHandler is a testify mock of ports.MessageHandler[M].
type MockMessageHandler[M any] struct {
	mock.Mock
}

// NewMockMessageHandler returns a mock whose expectations are asserted when
// the test ends.
func NewMockMessageHandler[M any](t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMessageHandler[M] {
	m := &MockMessageHandler[M]{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockMessageHandler_Expecter builds typed expectations.
type MockMessageHandler_Expecter[M any] struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation builder.
func (m *MockMessageHandler[M]) EXPECT() *MockMessageHandler_Expecter[M] {
	return &MockMessageHandler_Expecter[M]{mock: &m.Mock}
}

// Handle implements ports.MessageHandler.
func (m *MockMessageHandler[M]) Handle(ctx context.Context, msg M) error {
	ret := m.Called(ctx, msg)
	return ret.Error(0)
}

// MockMessageHandler_Handle_Call is a pending Handle expectation.
type MockMessageHandler_Handle_Call[M any] struct {
	*mock.Call
}

// Handle expects a Handle call with the given arguments.
func (e *MockMessageHandler_Expecter[M]) Handle(ctx, msg any) *MockMessageHandler_Handle_Call[M] {
	return &MockMessageHandler_Handle_Call[M]{Call: e.mock.On("Handle", ctx, msg)}
}

// Return sets the call's result.
func (c *MockMessageHandler_Handle_Call[M]) Return(err error) *MockMessageHandler_Handle_Call[M] {
	c.Call.Return(err)
	return c
}

// Run registers fn to be called with the typed arguments.
func (c *MockMessageHandler_Handle_Call[M]) Run(fn func(ctx context.Context, msg M)) *MockMessageHandler_Handle_Call[M] {
	c.Call.Run(func(args mock.Arguments) {
		fn(args.Get(0).(context.Context), args.Get(1).(M))
	})
	return c
}
