package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gamemaster-server/internal/messaging"
)

// MockTurnPublisher is a mock type for the messaging.TurnPublisher type
type MockTurnPublisher struct {
	mock.Mock
}

// PublishTurn provides a mock function with given fields: ctx, event
func (_m *MockTurnPublisher) PublishTurn(ctx context.Context, event messaging.TurnEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

// Close provides a mock function
func (_m *MockTurnPublisher) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}

var _ messaging.TurnPublisher = (*MockTurnPublisher)(nil)
