package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMemberDirectory is a testify mock of account.MemberDirectory.
type MockMemberDirectory struct {
	mock.Mock
}

// NewMockMemberDirectory returns a mock whose expectations are asserted when
// the test ends.
func NewMockMemberDirectory(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMemberDirectory {
	m := &MockMemberDirectory{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockMemberDirectory_Expecter builds typed expectations.
type MockMemberDirectory_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation builder.
func (m *MockMemberDirectory) EXPECT() *MockMemberDirectory_Expecter {
	return &MockMemberDirectory_Expecter{mock: &m.Mock}
}

// MemberExists implements account.MemberDirectory.
func (m *MockMemberDirectory) MemberExists(ctx context.Context, memberID string) (bool, error) {
	ret := m.Called(ctx, memberID)
	return ret.Bool(0), ret.Error(1)
}

// MockMemberDirectory_MemberExists_Call is a pending MemberExists expectation.
type MockMemberDirectory_MemberExists_Call struct {
	*mock.Call
}

// MemberExists expects a MemberExists call with the given arguments.
func (e *MockMemberDirectory_Expecter) MemberExists(ctx, memberID any) *MockMemberDirectory_MemberExists_Call {
	return &MockMemberDirectory_MemberExists_Call{Call: e.mock.On("MemberExists", ctx, memberID)}
}

// Return sets the call's results.
func (c *MockMemberDirectory_MemberExists_Call) Return(exists bool, err error) *MockMemberDirectory_MemberExists_Call {
	c.Call.Return(exists, err)
	return c
}
