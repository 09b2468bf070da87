// Package simulation drives a complete federated run in a single
// process, standing in for a networked deployment in tests and demos.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/absmach/flotilla/aggregator"
	"github.com/absmach/flotilla/client"
	"github.com/absmach/flotilla/dataset"
	"github.com/absmach/flotilla/pkg/artifact"
	pkgerrors "github.com/absmach/flotilla/pkg/errors"
	"github.com/absmach/flotilla/pkg/pubsub/inproc"
	"github.com/absmach/flotilla/pkg/storage"
	"github.com/absmach/flotilla/run"
	"github.com/absmach/flotilla/trainer"
)

const (
	channelID          = "simulation"
	livelinessInterval = 10 * time.Second
	pollInterval       = 2 * time.Millisecond
)

// Result is everything a finished simulated run produced. Run and
// Rounds are populated even when the run failed.
type Result struct {
	Artifact artifact.Artifact
	Run      run.Run
	Rounds   []run.Round
}

type Driver struct {
	logger *slog.Logger
}

func NewDriver(logger *slog.Logger) *Driver {
	return &Driver{logger: logger}
}

// Run partitions the dataset into cfg.ClientCount shards, wires one
// in-process client per shard to a fresh aggregator over the in-process
// bus and drives the configured rounds to completion. The returned
// artifact is exactly what a networked deployment would produce. The
// bus dispatches synchronously, so the same dataset and config always
// yield the same final parameters.
func (d *Driver) Run(ctx context.Context, ds dataset.Dataset, cfg run.Config) (Result, error) {
	// The model dimension follows the dataset unless the caller pinned
	// it with initial parameters or an explicit dimension.
	if cfg.ParameterDim == 0 && len(cfg.InitialParameters) == 0 && len(ds.Features) > 0 {
		cfg.ParameterDim = uint64(len(ds.Features[0])) + 1
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, errors.Join(pkgerrors.ErrInvalidData, err)
	}

	shards, err := dataset.Partition(ds, int(cfg.ClientCount))
	if err != nil {
		return Result{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	repos, err := storage.NewRepositories(storage.Config{Type: "memory"})
	if err != nil {
		return Result{}, err
	}

	bus := inproc.NewPubSub(d.logger)
	svc := aggregator.NewService(*repos, artifact.NewMemoryStore(), bus, channelID, d.logger)
	defer func() {
		_ = svc.Shutdown(context.Background())
	}()

	if err := svc.Subscribe(ctx); err != nil {
		return Result{}, err
	}

	tr := trainer.New(cfg.LocalEpochs, cfg.LearningRate)
	for i, shard := range shards {
		c := client.New(fmt.Sprintf("sim-client-%d", i), "", shard, tr)
		cs, err := client.NewService(ctx, channelID, c, livelinessInterval, bus, d.logger)
		if err != nil {
			return Result{}, err
		}
		if err := cs.Start(ctx); err != nil {
			return Result{}, err
		}
	}

	r, err := svc.StartRun(ctx, cfg)
	if err != nil {
		return Result{}, err
	}

	final, err := d.await(ctx, svc, r.ID)
	if err != nil {
		return Result{}, err
	}

	rounds, err := svc.ListRounds(ctx, r.ID, 0, cfg.TotalRounds)
	if err != nil {
		return Result{}, err
	}
	sort.Slice(rounds.Rounds, func(i, j int) bool {
		return rounds.Rounds[i].Number < rounds.Rounds[j].Number
	})

	result := Result{
		Run:    final,
		Rounds: rounds.Rounds,
	}

	if final.Status == run.Failed {
		return result, fmt.Errorf("run failed: %s", final.Error)
	}

	art, err := svc.GetArtifact(ctx)
	if err != nil {
		return Result{}, err
	}
	result.Artifact = art

	return result, nil
}

func (d *Driver) await(ctx context.Context, svc aggregator.Service, runID string) (run.Run, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		r, err := svc.GetRun(ctx, runID)
		if err != nil {
			return run.Run{}, err
		}
		if r.Status.Terminal() {
			return r, nil
		}

		select {
		case <-ctx.Done():
			return run.Run{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
