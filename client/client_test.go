package client_test

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/absmach/flotilla/client"
	"github.com/absmach/flotilla/dataset"
	"github.com/absmach/flotilla/pkg/errors"
	"github.com/absmach/flotilla/pkg/fl"
	"github.com/absmach/flotilla/pkg/pubsub/inproc"
	"github.com/absmach/flotilla/pkg/pubsub/mocks"
	"github.com/absmach/flotilla/trainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const channelID = "chan-1"

func testShard(t *testing.T) dataset.Shard {
	t.Helper()

	shards, err := dataset.Partition(dataset.Synthetic(20, 7), 2)
	require.NoError(t, err)

	return shards[0]
}

func TestClientStep(t *testing.T) {
	shard := testShard(t)
	tr := trainer.New(1, 0.1)
	c := client.New("client-1", "alpha", shard, tr)

	assert.Equal(t, "client-1", c.ID())
	assert.Equal(t, "alpha", c.Name())
	assert.Equal(t, uint64(shard.Len()), c.Samples())

	params := make([]float64, 9)
	b := fl.ParameterBroadcast{RoundNumber: 3, Parameters: params}

	update, err := c.Step(b)
	require.NoError(t, err)
	assert.Equal(t, "client-1", update.ClientID)
	assert.Equal(t, uint64(3), update.RoundNumber)
	assert.Equal(t, uint64(shard.Len()), update.NumSamples)

	want, _, err := tr.Train(params, shard)
	require.NoError(t, err)
	assert.Equal(t, want, update.Parameters)

	// The broadcast vector must come through untouched.
	assert.Equal(t, make([]float64, 9), b.Parameters)
}

func TestClientStepEmptyShard(t *testing.T) {
	c := client.New("client-1", "alpha", dataset.Shard{}, trainer.New(1, 0.1))

	_, err := c.Step(fl.ParameterBroadcast{RoundNumber: 1, Parameters: make([]float64, 9)})
	assert.ErrorIs(t, err, errors.ErrEmptyShard)
}

func TestServiceRegistersOnConstruction(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ps := inproc.NewPubSub(slog.Default())

	var (
		mu       sync.Mutex
		received []map[string]any
	)
	err := ps.Subscribe(ctx, "channels/"+channelID+"/messages/control/client/register", func(topic string, msg map[string]any) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, msg)

		return nil
	})
	require.NoError(t, err)

	c := client.New("client-1", "alpha", testShard(t), trainer.New(1, 0.1))
	_, err = client.NewService(ctx, channelID, c, time.Minute, ps, slog.Default())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "client-1", received[0]["client_id"])
	assert.Equal(t, "alpha", received[0]["name"])
}

func TestServiceRegistrationPublishFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ps := new(mocks.MockPubSub)
	ps.On("Publish", mock.Anything, "channels/"+channelID+"/messages/control/client/register", mock.Anything).
		Return(stderrors.New("broker unreachable"))

	c := client.New("client-1", "alpha", testShard(t), trainer.New(1, 0.1))
	_, err := client.NewService(ctx, channelID, c, time.Minute, ps, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish registration")
	ps.AssertExpectations(t)
}

func TestServicePublishesLiveliness(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ps := inproc.NewPubSub(slog.Default())

	var (
		mu     sync.Mutex
		alives int
	)
	err := ps.Subscribe(ctx, "channels/"+channelID+"/messages/control/client/alive", func(topic string, msg map[string]any) error {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "alive", msg["status"])
		assert.Equal(t, "client-1", msg["client_id"])
		alives++

		return nil
	})
	require.NoError(t, err)

	c := client.New("client-1", "alpha", testShard(t), trainer.New(1, 0.1))
	_, err = client.NewService(ctx, channelID, c, 20*time.Millisecond, ps, slog.Default())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return alives >= 2
	}, time.Second, 10*time.Millisecond)
}

func TestServiceAnswersBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ps := inproc.NewPubSub(slog.Default())

	var (
		mu      sync.Mutex
		updates []map[string]any
	)
	err := ps.Subscribe(ctx, "channels/"+channelID+"/messages/fl/updates", func(topic string, msg map[string]any) error {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, msg)

		return nil
	})
	require.NoError(t, err)

	shard := testShard(t)
	tr := trainer.New(1, 0.1)
	c := client.New("client-1", "alpha", shard, tr)
	svc, err := client.NewService(ctx, channelID, c, time.Minute, ps, slog.Default())
	require.NoError(t, err)

	go func() {
		_ = svc.Run(ctx, slog.Default())
	}()

	broadcast := map[string]any{
		"round_number": 1,
		"parameters":   make([]float64, 9),
	}
	roundTopic := "channels/" + channelID + "/messages/fl/clients/client-1/round"

	// A malformed broadcast must not produce an update.
	bad := map[string]any{"round_number": 1}

	require.Eventually(t, func() bool {
		require.NoError(t, ps.Publish(ctx, roundTopic, bad))
		require.NoError(t, ps.Publish(ctx, roundTopic, broadcast))

		mu.Lock()
		defer mu.Unlock()

		return len(updates) > 0
	}, time.Second, 10*time.Millisecond)

	want, _, err := tr.Train(make([]float64, 9), shard)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	first := updates[0]
	assert.Equal(t, "client-1", first["client_id"])
	assert.Equal(t, float64(1), first["round_number"])
	assert.Equal(t, float64(shard.Len()), first["num_samples"])
	got, ok := first["parameters"].([]any)
	require.True(t, ok)
	require.Len(t, got, len(want))
	for i, v := range got {
		assert.InDelta(t, want[i], v.(float64), 1e-12)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := client.Config{
		BrokerURL:          "tcp://localhost:1883",
		ClientID:           "client-1",
		ChannelID:          channelID,
		DataPath:           "data/shard.csv",
		LocalEpochs:        1,
		LearningRate:       0.01,
		LivelinessInterval: 10 * time.Second,
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		desc   string
		mutate func(c *client.Config)
		errStr string
	}{
		{"missing broker", func(c *client.Config) { c.BrokerURL = "" }, "broker_url"},
		{"missing client id", func(c *client.Config) { c.ClientID = "" }, "client_id"},
		{"missing channel id", func(c *client.Config) { c.ChannelID = "" }, "channel_id"},
		{"missing data path", func(c *client.Config) { c.DataPath = "" }, "data_path"},
		{"zero epochs", func(c *client.Config) { c.LocalEpochs = 0 }, "local_epochs"},
		{"negative learning rate", func(c *client.Config) { c.LearningRate = -1 }, "learning_rate"},
		{"zero liveliness", func(c *client.Config) { c.LivelinessInterval = 0 }, "liveliness_interval"},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errStr)
		})
	}
}
