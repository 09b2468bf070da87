package run

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		desc  string
		from  Status
		to    Status
		valid bool
	}{
		{"pending to waiting", Pending, WaitingForQuorum, true},
		{"waiting to broadcasting", WaitingForQuorum, Broadcasting, true},
		{"broadcasting to collecting", Broadcasting, CollectingUpdates, true},
		{"collecting to aggregating", CollectingUpdates, Aggregating, true},
		{"collecting retried", CollectingUpdates, Broadcasting, true},
		{"aggregating to round complete", Aggregating, RoundComplete, true},
		{"next round", RoundComplete, Broadcasting, true},
		{"final round", RoundComplete, TrainingComplete, true},
		{"registration timeout", WaitingForQuorum, Failed, true},
		{"retries exhausted", CollectingUpdates, Failed, true},
		{"skip collection", Broadcasting, Aggregating, false},
		{"skip quorum", Pending, Broadcasting, false},
		{"complete is terminal", TrainingComplete, Broadcasting, false},
		{"failed is terminal", Failed, WaitingForQuorum, false},
		{"unknown status", Status("resting"), Failed, false},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidateTransition(tc.from, tc.to))
		})
	}
}

func TestRunTransition(t *testing.T) {
	r := Run{ID: "r1", Status: Pending}

	require.True(t, r.Transition(WaitingForQuorum))
	assert.False(t, r.StartTime.IsZero())
	assert.True(t, r.FinishTime.IsZero())

	require.True(t, r.Transition(Broadcasting))
	require.True(t, r.Transition(CollectingUpdates))
	require.True(t, r.Transition(Aggregating))
	require.True(t, r.Transition(RoundComplete))
	require.True(t, r.Transition(TrainingComplete))
	assert.False(t, r.FinishTime.IsZero())
	assert.True(t, r.Status.Terminal())

	assert.False(t, r.Transition(Broadcasting))
	assert.Equal(t, TrainingComplete, r.Status)
}

func TestClientSetAlive(t *testing.T) {
	c := Client{ID: "c1"}
	c.SetAlive()
	assert.False(t, c.Alive)

	c.AliveHistory = append(c.AliveHistory, time.Now())
	c.SetAlive()
	assert.True(t, c.Alive)

	// A heartbeat running one interval late must not flip the flag.
	c.AliveHistory = []time.Time{time.Now().Add(-15 * time.Second)}
	c.SetAlive()
	assert.True(t, c.Alive)

	c.AliveHistory = []time.Time{time.Now().Add(-time.Minute)}
	c.SetAlive()
	assert.False(t, c.Alive)
}
