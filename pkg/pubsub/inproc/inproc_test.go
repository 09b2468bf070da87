package inproc_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/absmach/flotilla/pkg/pubsub/inproc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesWildcard(t *testing.T) {
	cases := []struct {
		topic   string
		pattern string
		match   bool
	}{
		{"channels/c1/messages/fl/updates", "channels/c1/messages/fl/updates", true},
		{"channels/c1/messages/fl/updates", "channels/c1/messages/#", true},
		{"channels/c1/messages/fl/updates", "#", true},
		{"channels/c1/messages/fl/updates", "channels/+/messages/fl/updates", true},
		{"channels/c1/messages/fl/updates", "channels/c1/messages/fl", false},
		{"channels/c1/messages/fl/updates", "channels/c2/messages/#", false},
		{"channels/c1/messages/fl", "channels/c1/messages/fl/updates", false},
	}

	for _, tc := range cases {
		t.Run(tc.pattern, func(t *testing.T) {
			assert.Equal(t, tc.match, inproc.MatchesWildcard(tc.topic, tc.pattern))
		})
	}
}

func TestPublishDispatchesToMatches(t *testing.T) {
	ctx := context.Background()
	ps := inproc.NewPubSub(slog.Default())

	var wildcard, exact, other int
	require.NoError(t, ps.Subscribe(ctx, "channels/c1/messages/#", func(topic string, msg map[string]any) error {
		wildcard++

		return nil
	}))
	require.NoError(t, ps.Subscribe(ctx, "channels/c1/messages/fl/updates", func(topic string, msg map[string]any) error {
		exact++
		assert.Equal(t, "client-1", msg["client_id"])

		return nil
	}))
	require.NoError(t, ps.Subscribe(ctx, "channels/c2/messages/#", func(topic string, msg map[string]any) error {
		other++

		return nil
	}))

	err := ps.Publish(ctx, "channels/c1/messages/fl/updates", map[string]any{"client_id": "client-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, wildcard)
	assert.Equal(t, 1, exact)
	assert.Equal(t, 0, other)
}

func TestPublishDecodesLikeWire(t *testing.T) {
	ctx := context.Background()
	ps := inproc.NewPubSub(slog.Default())

	type payload struct {
		RoundNumber uint64    `json:"round_number"`
		Parameters  []float64 `json:"parameters"`
	}

	var got map[string]any
	require.NoError(t, ps.Subscribe(ctx, "rounds", func(topic string, msg map[string]any) error {
		got = msg

		return nil
	}))
	require.NoError(t, ps.Publish(ctx, "rounds", payload{RoundNumber: 2, Parameters: []float64{0.5}}))

	// Numbers arrive as float64, exactly as they would off an MQTT wire.
	assert.Equal(t, float64(2), got["round_number"])
	assert.Equal(t, []any{0.5}, got["parameters"])
}

func TestUnsubscribe(t *testing.T) {
	ctx := context.Background()
	ps := inproc.NewPubSub(slog.Default())

	calls := 0
	require.NoError(t, ps.Subscribe(ctx, "a/b", func(topic string, msg map[string]any) error {
		calls++

		return nil
	}))
	require.NoError(t, ps.Publish(ctx, "a/b", map[string]any{}))
	require.NoError(t, ps.Unsubscribe(ctx, "a/b"))
	require.NoError(t, ps.Publish(ctx, "a/b", map[string]any{}))

	assert.Equal(t, 1, calls)
}

func TestEmptyTopic(t *testing.T) {
	ctx := context.Background()
	ps := inproc.NewPubSub(slog.Default())

	assert.Error(t, ps.Publish(ctx, "", nil))
	assert.Error(t, ps.Subscribe(ctx, "", nil))
	assert.Error(t, ps.Unsubscribe(ctx, ""))
}
