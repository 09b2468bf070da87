package run

import (
	"slices"
	"time"
)

type Status string

const (
	Pending           Status = "pending"
	WaitingForQuorum  Status = "waiting_for_quorum"
	Broadcasting      Status = "broadcasting"
	CollectingUpdates Status = "collecting_updates"
	Aggregating       Status = "aggregating"
	RoundComplete     Status = "round_complete"
	TrainingComplete  Status = "training_complete"
	Failed            Status = "failed"
)

func (s Status) Terminal() bool {
	return s == TrainingComplete || s == Failed
}

// ValidateTransition reports whether a run may move between the two
// statuses. CollectingUpdates back to Broadcasting is the quorum-loss
// retry; RoundComplete back to Broadcasting starts the next round.
func ValidateTransition(from, to Status) bool {
	validTransitions := map[Status][]Status{
		Pending:           {WaitingForQuorum, Failed},
		WaitingForQuorum:  {Broadcasting, Failed},
		Broadcasting:      {CollectingUpdates, Failed},
		CollectingUpdates: {Aggregating, Broadcasting, Failed},
		Aggregating:       {RoundComplete, Failed},
		RoundComplete:     {Broadcasting, TrainingComplete, Failed},
		TrainingComplete:  {},
		Failed:            {},
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	return slices.Contains(allowed, to)
}

type Run struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Status            Status    `json:"status"`
	Config            Config    `json:"config"`
	CurrentRound      uint64    `json:"current_round"`
	RoundsCompleted   uint64    `json:"rounds_completed"`
	Parameters        []float64 `json:"parameters,omitempty"`
	RegisteredClients uint64    `json:"registered_clients"`
	Error             string    `json:"error,omitempty"`
	StartTime         time.Time `json:"start_time"`
	FinishTime        time.Time `json:"finish_time"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Transition moves the run to the given status, stamping start and
// finish times on the way through.
func (r *Run) Transition(to Status) bool {
	if !ValidateTransition(r.Status, to) {
		return false
	}

	now := time.Now()
	r.Status = to
	r.UpdatedAt = now
	switch to {
	case WaitingForQuorum:
		if r.StartTime.IsZero() {
			r.StartTime = now
		}
	case TrainingComplete, Failed:
		if r.FinishTime.IsZero() {
			r.FinishTime = now
		}
	}

	return true
}

// Round records one completed (or abandoned) round of a run, including
// every retry attempt it took.
type Round struct {
	ID          string    `json:"id"`
	RunID       string    `json:"run_id"`
	Number      uint64    `json:"number"`
	Attempts    uint64    `json:"attempts"`
	Selected    []string  `json:"selected"`
	UpdateCount uint64    `json:"update_count"`
	SampleCount uint64    `json:"sample_count"`
	StartTime   time.Time `json:"start_time"`
	FinishTime  time.Time `json:"finish_time"`
}

type RunPage struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
	Total  uint64 `json:"total"`
	Runs   []Run  `json:"runs"`
}

type RoundPage struct {
	Offset uint64  `json:"offset"`
	Limit  uint64  `json:"limit"`
	Total  uint64  `json:"total"`
	Rounds []Round `json:"rounds"`
}
