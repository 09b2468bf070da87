package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/absmach/flotilla/pkg/pubsub"
)

// MockPubSub is a mock implementation of the pubsub.PubSub interface
type MockPubSub struct {
	mock.Mock
}

var _ pubsub.PubSub = (*MockPubSub)(nil)

// Publish publishes a message to the specified topic
func (m *MockPubSub) Publish(ctx context.Context, topic string, msg any) error {
	args := m.Called(ctx, topic, msg)
	return args.Error(0)
}

// Subscribe subscribes a handler to the specified topic
func (m *MockPubSub) Subscribe(ctx context.Context, topic string, handler pubsub.Handler) error {
	args := m.Called(ctx, topic, handler)
	return args.Error(0)
}

// Unsubscribe removes the subscription on the specified topic
func (m *MockPubSub) Unsubscribe(ctx context.Context, topic string) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

// Disconnect closes the broker connection
func (m *MockPubSub) Disconnect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
