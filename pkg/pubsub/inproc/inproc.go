// Package inproc is a broker-free PubSub for simulated runs: every
// publish is decoded like an MQTT JSON payload and dispatched
// synchronously to all matching subscriptions in the same process.
package inproc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/absmach/flotilla/pkg/pubsub"
)

type subscription struct {
	pattern string
	handler pubsub.Handler
}

type bus struct {
	mu   sync.RWMutex
	subs []subscription

	logger *slog.Logger
}

func NewPubSub(logger *slog.Logger) pubsub.PubSub {
	return &bus{logger: logger}
}

func (b *bus) Publish(ctx context.Context, topic string, msg any) error {
	if topic == "" {
		return pubsub.ErrEmptyTopic
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	b.mu.RLock()
	matched := make([]pubsub.Handler, 0, len(b.subs))
	for _, sub := range b.subs {
		if MatchesWildcard(topic, sub.pattern) {
			matched = append(matched, sub.handler)
		}
	}
	b.mu.RUnlock()

	for _, handler := range matched {
		if err := handler(topic, decoded); err != nil {
			b.logger.Warn(fmt.Sprintf("Failed to handle message: %s", err))
		}
	}

	return nil
}

func (b *bus) Subscribe(ctx context.Context, topic string, handler pubsub.Handler) error {
	if topic == "" {
		return pubsub.ErrEmptyTopic
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{pattern: topic, handler: handler})

	return nil
}

func (b *bus) Unsubscribe(ctx context.Context, topic string) error {
	if topic == "" {
		return pubsub.ErrEmptyTopic
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.subs[:0]
	for _, sub := range b.subs {
		if sub.pattern != topic {
			kept = append(kept, sub)
		}
	}
	b.subs = kept

	return nil
}

func (b *bus) Disconnect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil

	return nil
}

// MatchesWildcard reports whether a concrete topic matches an MQTT
// subscription pattern with + and # wildcards.
func MatchesWildcard(topic, pattern string) bool {
	if pattern == "#" || pattern == topic {
		return true
	}

	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")
	if len(patternParts) > len(topicParts) {
		return false
	}

	for i, part := range patternParts {
		if part == "#" {
			return true
		}
		if part != "+" && part != topicParts[i] {
			return false
		}
	}

	return len(patternParts) == len(topicParts)
}
