package errors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyKey     = errors.New("empty key")
	ErrInvalidData  = errors.New("invalid data type")
	ErrEntityExists = errors.New("entity already exists")

	// ErrInvalidPartition indicates a dataset split request that cannot
	// be satisfied, e.g. more clients than rows.
	ErrInvalidPartition = errors.New("invalid partition request")

	// ErrEmptyShard indicates a training request over a shard with no rows.
	ErrEmptyShard = errors.New("empty data shard")

	// ErrInsufficientClients indicates that fewer clients registered than
	// the configured quorum before the registration deadline.
	ErrInsufficientClients = errors.New("insufficient clients registered")

	// ErrQuorumLost indicates a round collected fewer updates than the
	// configured quorum before its deadline.
	ErrQuorumLost = errors.New("quorum lost during round")

	// ErrTrainingAborted indicates a run gave up after exhausting its
	// round retries.
	ErrTrainingAborted = errors.New("training aborted")

	ErrRunActive   = errors.New("another run is already active")
	ErrNoActiveRun = errors.New("no active run")
)
