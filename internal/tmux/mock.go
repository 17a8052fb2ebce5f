// Package tmux provides a thin abstraction over the tmux binary.
package tmux

import (
	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of TmuxClient for testing.
// It uses testify/mock to provide flexible behavior configuration and
// method call tracking for assertions.
//
// Example usage:
//
//	mockClient := new(MockClient)
//	mockClient.On("HasServer").Return(true, nil)
//
//	running, err := mockClient.HasServer()
//	assert.NoError(t, err)
//	assert.True(t, running)
//
//	// Assert that the method was called
//	mockClient.AssertCalled(t, "HasServer")
type MockClient struct {
	mock.Mock
}

// Run returns mocked stdout, stderr, and error for a tmux command.
// Configure the return value using:
//
//	mock.On("Run", []string{"display-message", "hello"}).Return("", "", nil)
func (m *MockClient) Run(args ...string) (string, string, error) {
	callArgs := m.Called(args)
	return callArgs.String(0), callArgs.String(1), callArgs.Error(2)
}

// HasServer returns a mocked boolean indicating if a tmux server is running.
// Configure the return value using:
//
//	mock.On("HasServer").Return(true, nil)
func (m *MockClient) HasServer() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

// DisplayMenu returns a mocked error when opening a menu popup.
// Configure the return value using:
//
//	mock.On("DisplayMenu", "#general: 3 new", mock.Anything).Return(nil)
func (m *MockClient) DisplayMenu(title string, items []MenuItem) error {
	args := m.Called(title, items)
	return args.Error(0)
}

// DisplayMessage returns a mocked error when flashing a status message.
// Configure the return value using:
//
//	mock.On("DisplayMessage", "hello").Return(nil)
func (m *MockClient) DisplayMessage(message string) error {
	args := m.Called(message)
	return args.Error(0)
}

// SetStatusOption returns a mocked error when setting a status option.
// Configure the return value using:
//
//	mock.On("SetStatusOption", "@chatwatch_unread", "3").Return(nil)
func (m *MockClient) SetStatusOption(name, value string) error {
	args := m.Called(name, value)
	return args.Error(0)
}
