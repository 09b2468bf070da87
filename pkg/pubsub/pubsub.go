package pubsub

import (
	"context"
	"errors"
)

var ErrEmptyTopic = errors.New("empty topic")

// Handler consumes one decoded message. Payloads are JSON objects on
// the wire, so handlers receive them as generic maps.
type Handler func(topic string, msg map[string]any) error

// PubSub is the messaging plane shared by the aggregator and clients.
// The MQTT implementation backs networked deployments; the in-process
// implementation backs simulated ones.
type PubSub interface {
	Publish(ctx context.Context, topic string, msg any) error
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Unsubscribe(ctx context.Context, topic string) error
	Disconnect(ctx context.Context) error
}
