package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockHealthChecker is a testify mock of ports.HealthChecker.
type MockHealthChecker struct {
	mock.Mock
}

// NewMockHealthChecker returns a mock whose expectations are asserted when
// the test ends.
func NewMockHealthChecker(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHealthChecker {
	m := &MockHealthChecker{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockHealthChecker_Expecter builds typed expectations.
type MockHealthChecker_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation builder.
func (m *MockHealthChecker) EXPECT() *MockHealthChecker_Expecter {
	return &MockHealthChecker_Expecter{mock: &m.Mock}
}

// Name implements ports.HealthChecker.
func (m *MockHealthChecker) Name() string {
	ret := m.Called()
	return ret.String(0)
}

// HealthCheck implements ports.HealthChecker.
func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

// MockHealthChecker_Name_Call is a pending Name expectation.
type MockHealthChecker_Name_Call struct {
	*mock.Call
}

// Name expects a Name call.
func (e *MockHealthChecker_Expecter) Name() *MockHealthChecker_Name_Call {
	return &MockHealthChecker_Name_Call{Call: e.mock.On("Name")}
}

// Return sets the call's result.
func (c *MockHealthChecker_Name_Call) Return(name string) *MockHealthChecker_Name_Call {
	c.Call.Return(name)
	return c
}

// MockHealthChecker_HealthCheck_Call is a pending HealthCheck expectation.
type MockHealthChecker_HealthCheck_Call struct {
	*mock.Call
}

// HealthCheck expects a HealthCheck call with the given context matcher.
func (e *MockHealthChecker_Expecter) HealthCheck(ctx any) *MockHealthChecker_HealthCheck_Call {
	return &MockHealthChecker_HealthCheck_Call{Call: e.mock.On("HealthCheck", ctx)}
}

// Return sets the call's result.
func (c *MockHealthChecker_HealthCheck_Call) Return(err error) *MockHealthChecker_HealthCheck_Call {
	c.Call.Return(err)
	return c
}
