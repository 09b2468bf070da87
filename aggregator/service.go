package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/0x6flab/namegenerator"
	"github.com/absmach/flotilla/pkg/artifact"
	pkgerrors "github.com/absmach/flotilla/pkg/errors"
	"github.com/absmach/flotilla/pkg/fl"
	"github.com/absmach/flotilla/pkg/pubsub"
	"github.com/absmach/flotilla/pkg/selector"
	"github.com/absmach/flotilla/pkg/storage"
	"github.com/absmach/flotilla/run"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

const (
	defOffset         = 0
	defLimit          = 100
	aliveHistoryLimit = 10
)

var namegen = namegenerator.NewGenerator()

type service struct {
	runs       storage.RunRepository
	rounds     storage.RoundRepository
	clients    storage.ClientRepository
	artifacts  artifact.Store
	selector   selector.Selector
	aggregator fl.Aggregator
	pubsub     pubsub.PubSub
	channelID  string
	logger     *slog.Logger

	mu       sync.Mutex
	active   *runner
	draining bool
	wg       sync.WaitGroup
}

func NewService(repos storage.Repositories, store artifact.Store, ps pubsub.PubSub, channelID string, logger *slog.Logger) Service {
	return &service{
		runs:       repos.Runs,
		rounds:     repos.Rounds,
		clients:    repos.Clients,
		artifacts:  store,
		selector:   selector.NewFraction(),
		aggregator: fl.NewFedAvgAggregator(),
		pubsub:     ps,
		channelID:  channelID,
		logger:     logger,
	}
}

func (svc *service) StartRun(ctx context.Context, cfg run.Config) (run.Run, error) {
	if err := cfg.Validate(); err != nil {
		return run.Run{}, errors.Join(pkgerrors.ErrInvalidData, err)
	}

	now := time.Now()
	r := run.Run{
		ID:        uuid.NewString(),
		Name:      namegen.Generate(),
		Status:    run.Pending,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}

	svc.mu.Lock()
	if svc.draining {
		svc.mu.Unlock()

		return run.Run{}, errors.New("aggregator is shutting down")
	}
	if svc.active != nil {
		svc.mu.Unlock()

		return run.Run{}, pkgerrors.ErrRunActive
	}
	rn := newRunner(svc, r)
	svc.active = rn
	svc.wg.Add(1)
	svc.mu.Unlock()

	created, err := svc.runs.Create(ctx, r)
	if err != nil {
		svc.release(rn)

		return run.Run{}, err
	}

	go rn.loop()

	return created, nil
}

func (svc *service) GetRun(ctx context.Context, runID string) (run.Run, error) {
	return svc.runs.Get(ctx, runID)
}

func (svc *service) ListRuns(ctx context.Context, offset, limit uint64) (run.RunPage, error) {
	runs, total, err := svc.runs.List(ctx, offset, limit)
	if err != nil {
		return run.RunPage{}, err
	}

	return run.RunPage{
		Offset: offset,
		Limit:  limit,
		Total:  total,
		Runs:   runs,
	}, nil
}

func (svc *service) StopRun(ctx context.Context, runID string) error {
	svc.mu.Lock()
	rn := svc.active
	svc.mu.Unlock()

	if rn == nil || rn.runID != runID {
		return pkgerrors.ErrNoActiveRun
	}
	rn.stop("run stopped")

	return nil
}

func (svc *service) ListRounds(ctx context.Context, runID string, offset, limit uint64) (run.RoundPage, error) {
	rounds, total, err := svc.rounds.ListByRunID(ctx, runID, offset, limit)
	if err != nil {
		return run.RoundPage{}, err
	}

	return run.RoundPage{
		Offset: offset,
		Limit:  limit,
		Total:  total,
		Rounds: rounds,
	}, nil
}

// Register adds a client to the fleet, or refreshes its liveliness when
// it is already known. Either way the active run is poked so a pending
// quorum wait sees the new headcount.
func (svc *service) Register(ctx context.Context, c run.Client) (run.Client, error) {
	if c.ID == "" {
		return run.Client{}, pkgerrors.ErrEmptyKey
	}

	existing, err := svc.clients.Get(ctx, c.ID)
	switch {
	case err == nil:
		recordAlive(&existing)
		if err := svc.clients.Update(ctx, existing); err != nil {
			return run.Client{}, err
		}
		svc.notifyRegistration()

		return existing, nil
	case errors.Is(err, pkgerrors.ErrNotFound):
	default:
		return run.Client{}, err
	}

	if c.Name == "" {
		c.Name = namegen.Generate()
	}
	now := time.Now()
	c.Alive = true
	c.AliveHistory = []time.Time{now}
	c.CreatedAt = now
	if err := svc.clients.Create(ctx, c); err != nil {
		return run.Client{}, err
	}
	svc.notifyRegistration()

	return c, nil
}

func (svc *service) GetClient(ctx context.Context, clientID string) (run.Client, error) {
	c, err := svc.clients.Get(ctx, clientID)
	if err != nil {
		return run.Client{}, err
	}
	c.SetAlive()

	return c, nil
}

func (svc *service) ListClients(ctx context.Context, offset, limit uint64) (run.ClientPage, error) {
	data, total, err := svc.clients.List(ctx, offset, limit)
	if err != nil {
		return run.ClientPage{}, err
	}

	clients := make([]run.Client, 0, len(data))
	for i := range data {
		c := data[i]
		c.SetAlive()
		clients = append(clients, c)
	}

	return run.ClientPage{
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		Clients: clients,
	}, nil
}

func (svc *service) DeregisterClient(ctx context.Context, clientID string) error {
	return svc.clients.Delete(ctx, clientID)
}

func (svc *service) SubmitUpdate(ctx context.Context, update fl.ClientUpdate) error {
	if err := update.Validate(); err != nil {
		return errors.Join(pkgerrors.ErrInvalidData, err)
	}
	if update.ReceivedAt.IsZero() {
		update.ReceivedAt = time.Now()
	}

	svc.mu.Lock()
	rn := svc.active
	svc.mu.Unlock()

	if rn == nil {
		return pkgerrors.ErrNoActiveRun
	}

	return rn.offer(update)
}

func (svc *service) SubmitUpdateCBOR(ctx context.Context, data []byte) error {
	var update fl.ClientUpdate
	if err := cbor.Unmarshal(data, &update); err != nil {
		return fmt.Errorf("failed to decode cbor update: %w", err)
	}

	return svc.SubmitUpdate(ctx, update)
}

func (svc *service) GetArtifact(ctx context.Context) (artifact.Artifact, error) {
	return svc.artifacts.Load(ctx)
}

// Shutdown stops the active run, waits for its state to be persisted
// and refuses new runs from then on.
func (svc *service) Shutdown(ctx context.Context) error {
	svc.mu.Lock()
	svc.draining = true
	rn := svc.active
	svc.mu.Unlock()

	if rn != nil {
		rn.stop("interrupted by shutdown")
	}
	svc.wg.Wait()

	return nil
}

// RecoverInterruptedRuns marks runs left mid-flight by a crash or
// restart as failed. Called once at boot, before Subscribe.
func (svc *service) RecoverInterruptedRuns(ctx context.Context) error {
	for offset := uint64(0); ; offset += defLimit {
		runs, total, err := svc.runs.List(ctx, offset, defLimit)
		if err != nil {
			return err
		}

		for i := range runs {
			r := runs[i]
			if r.Status.Terminal() {
				continue
			}
			r.Error = "interrupted by restart"
			if !r.Transition(run.Failed) {
				continue
			}
			if err := svc.runs.Update(ctx, r); err != nil {
				return err
			}
			svc.logger.Warn("marked interrupted run as failed", slog.String("run_id", r.ID))
		}

		if len(runs) == 0 || offset+defLimit >= total {
			return nil
		}
	}
}

func (svc *service) notifyRegistration() {
	svc.mu.Lock()
	rn := svc.active
	svc.mu.Unlock()

	if rn != nil {
		rn.notifyRegistration()
	}
}

func (svc *service) release(rn *runner) {
	svc.mu.Lock()
	if svc.active == rn {
		svc.active = nil
	}
	svc.mu.Unlock()
	rn.cancel()
	svc.wg.Done()
}

func recordAlive(c *run.Client) {
	c.Alive = true
	c.AliveHistory = append(c.AliveHistory, time.Now())
	if len(c.AliveHistory) > aliveHistoryLimit {
		c.AliveHistory = c.AliveHistory[1:]
	}
}
