package testutil

import (
	"time"

	"github.com/absmach/flotilla/run"
)

func TestRun(id string) run.Run {
	return run.Run{
		ID:         id,
		Name:       "test-run-" + id,
		Status:     run.Pending,
		Config:     run.DefaultConfig(),
		Parameters: []float64{0.1, -0.2, 0.3},
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

func TestRound(id, runID string, number uint64) run.Round {
	return run.Round{
		ID:          id,
		RunID:       runID,
		Number:      number,
		Attempts:    1,
		Selected:    []string{"client-1", "client-2"},
		UpdateCount: 2,
		SampleCount: 20,
		StartTime:   time.Now().Add(-time.Minute),
		FinishTime:  time.Now(),
	}
}

func TestClient(id string) run.Client {
	return run.Client{
		ID:           id,
		Name:         "test-client-" + id,
		UpdateCount:  0,
		Alive:        true,
		AliveHistory: []time.Time{time.Now().Add(-10 * time.Second), time.Now()},
		CreatedAt:    time.Now(),
	}
}
