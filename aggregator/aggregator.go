package aggregator

import (
	"context"

	"github.com/absmach/flotilla/pkg/artifact"
	"github.com/absmach/flotilla/pkg/fl"
	"github.com/absmach/flotilla/run"
)

type Service interface {
	// Run lifecycle. A single run is active at a time; starting another
	// while one is in flight fails with errors.ErrRunActive.
	StartRun(ctx context.Context, cfg run.Config) (run.Run, error)
	GetRun(ctx context.Context, runID string) (run.Run, error)
	ListRuns(ctx context.Context, offset, limit uint64) (run.RunPage, error)
	StopRun(ctx context.Context, runID string) error
	ListRounds(ctx context.Context, runID string, offset, limit uint64) (run.RoundPage, error)

	// Client fleet management.
	Register(ctx context.Context, c run.Client) (run.Client, error)
	GetClient(ctx context.Context, clientID string) (run.Client, error)
	ListClients(ctx context.Context, offset, limit uint64) (run.ClientPage, error)
	DeregisterClient(ctx context.Context, clientID string) error

	// Update ingestion, shared by the MQTT and HTTP paths.
	SubmitUpdate(ctx context.Context, update fl.ClientUpdate) error
	SubmitUpdateCBOR(ctx context.Context, data []byte) error

	GetArtifact(ctx context.Context) (artifact.Artifact, error)

	Subscribe(ctx context.Context) error

	Shutdown(ctx context.Context) error
	RecoverInterruptedRuns(ctx context.Context) error
}
