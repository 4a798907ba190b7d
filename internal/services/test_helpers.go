package services

import (
	"github.com/stretchr/testify/mock"

	"bikeshare/pkg/contracts/events"
)

// MockBroadcaster is a mock for the Broadcaster interface
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Publish(msg events.WebSocketMessage) {
	m.Called(msg)
}

// MockClientCounter is a mock for the ClientCounter interface
type MockClientCounter struct {
	mock.Mock
}

func (m *MockClientCounter) ClientCount() int {
	return m.Called().Int(0)
}
