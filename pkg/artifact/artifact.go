package artifact

import (
	"context"
	"time"
)

// Artifact is the persisted outcome of a completed run: the final
// global parameters plus enough provenance to trace where they came
// from.
type Artifact struct {
	RunID           string    `json:"run_id"`
	Parameters      []float64 `json:"parameters"`
	RoundsCompleted uint64    `json:"rounds_completed"`
	ClientCount     uint64    `json:"client_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Store holds at most one artifact. Save replaces the previous slot
// content; Load returns errors.ErrNotFound while the slot is empty so
// callers can fall back to a baseline model. Only completed runs save,
// which keeps the last good artifact safe from failed ones.
type Store interface {
	Save(ctx context.Context, a Artifact) error
	Load(ctx context.Context) (Artifact, error)
}
