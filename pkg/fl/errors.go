package fl

import "errors"

var (
	ErrNoUpdates         = errors.New("no updates provided for aggregation")
	ErrNoSamples         = errors.New("update carries no samples")
	ErrNoParameters      = errors.New("update carries no parameters")
	ErrMissingClientID   = errors.New("update missing client id")
	ErrDimensionMismatch = errors.New("parameter dimension mismatch")
)
