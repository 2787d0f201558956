// Package mocks holds testify mocks of the ports and collaborator
// interfaces, laid out the way mockery generates them (NewMockX constructors
// with EXPECT() builders).
package mocks
