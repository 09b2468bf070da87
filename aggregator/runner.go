package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/absmach/flotilla/pkg/artifact"
	pkgerrors "github.com/absmach/flotilla/pkg/errors"
	"github.com/absmach/flotilla/pkg/fl"
	"github.com/absmach/flotilla/run"
	"github.com/google/uuid"
)

const (
	updateBuffer       = 256
	roundTopicTemplate = "channels/%s/messages/fl/clients/%s/round"
)

// runner drives one run through its round state machine. It is the only
// goroutine that mutates the run while it is active; registrations and
// updates reach it over channels from the service handlers.
type runner struct {
	svc   *service
	runID string
	run   run.Run

	ctx    context.Context
	cancel context.CancelFunc

	registrations chan struct{}
	updates       chan fl.ClientUpdate

	reasonMu   sync.Mutex
	stopReason string
}

func newRunner(svc *service, r run.Run) *runner {
	ctx, cancel := context.WithCancel(context.Background())

	return &runner{
		svc:           svc,
		runID:         r.ID,
		run:           r,
		ctx:           ctx,
		cancel:        cancel,
		registrations: make(chan struct{}, 1),
		updates:       make(chan fl.ClientUpdate, updateBuffer),
	}
}

// notifyRegistration pokes a quorum wait without blocking the caller.
func (r *runner) notifyRegistration() {
	select {
	case r.registrations <- struct{}{}:
	default:
	}
}

func (r *runner) offer(u fl.ClientUpdate) error {
	select {
	case <-r.ctx.Done():
		return pkgerrors.ErrNoActiveRun
	case r.updates <- u:
		return nil
	default:
		return errors.New("update buffer full")
	}
}

// stop cancels the run. The first reason wins and becomes the persisted
// run error.
func (r *runner) stop(reason string) {
	r.reasonMu.Lock()
	if r.stopReason == "" {
		r.stopReason = reason
	}
	r.reasonMu.Unlock()
	r.cancel()
}

func (r *runner) stopErr() error {
	r.reasonMu.Lock()
	defer r.reasonMu.Unlock()

	if r.stopReason != "" {
		return errors.New(r.stopReason)
	}

	return r.ctx.Err()
}

func (r *runner) loop() {
	defer r.svc.release(r)

	ctx := r.ctx

	if err := r.transition(ctx, run.WaitingForQuorum); err != nil {
		r.fail(err)

		return
	}

	if err := r.waitForQuorum(ctx); err != nil {
		r.fail(err)

		return
	}

	params := r.initialParameters()
	for round := uint64(1); round <= r.run.Config.TotalRounds; round++ {
		next, err := r.executeRound(ctx, round, params)
		if err != nil {
			r.fail(err)

			return
		}
		params = next
	}

	r.complete(params)
}

// waitForQuorum blocks until enough clients registered, checking the
// already-known fleet first so pre-registered clients count.
func (r *runner) waitForQuorum(ctx context.Context) error {
	cfg := r.run.Config
	timer := time.NewTimer(cfg.RegistrationTimeout)
	defer timer.Stop()

	for {
		total, err := r.registeredClients(ctx)
		if err != nil {
			return err
		}
		if total >= cfg.MinFitClients {
			r.run.RegisteredClients = total
			r.svc.logger.Info("quorum reached",
				slog.String("run_id", r.runID),
				slog.Uint64("registered", total),
			)

			return nil
		}

		select {
		case <-ctx.Done():
			return r.stopErr()
		case <-timer.C:
			return fmt.Errorf("%w: %d of %d required", pkgerrors.ErrInsufficientClients, total, cfg.MinFitClients)
		case <-r.registrations:
		}
	}
}

// executeRound runs one round to a successful aggregation, retrying on
// quorum loss with the collection window extended by half each attempt.
// Updates collected before a retry are kept.
func (r *runner) executeRound(ctx context.Context, round uint64, params []float64) ([]float64, error) {
	cfg := r.run.Config
	r.run.CurrentRound = round

	started := time.Now()
	timeout := cfg.RoundTimeout
	accepted := make([]fl.ClientUpdate, 0, cfg.MinFitClients)
	seen := make(map[string]bool)

	var selected []run.Client
	var retries uint64
	for {
		if err := r.transition(ctx, run.Broadcasting); err != nil {
			return nil, err
		}

		var err error
		selected, err = r.selectClients(ctx, round)
		if err != nil {
			return nil, err
		}

		r.broadcast(ctx, round, params, selected)

		if err := r.transition(ctx, run.CollectingUpdates); err != nil {
			return nil, err
		}

		quorum := r.collect(ctx, round, selected, timeout, &accepted, seen)
		if ctx.Err() != nil {
			return nil, r.stopErr()
		}
		if quorum {
			break
		}

		if retries >= cfg.MaxRetries {
			return nil, fmt.Errorf("%w: %w: round %d got %d of %d updates after %d attempts",
				pkgerrors.ErrTrainingAborted, pkgerrors.ErrQuorumLost,
				round, len(accepted), cfg.MinFitClients, retries+1)
		}
		retries++
		timeout += timeout / 2
		r.svc.logger.Warn("round below quorum, retrying",
			slog.String("run_id", r.runID),
			slog.Uint64("round", round),
			slog.Int("updates", len(accepted)),
			slog.Uint64("attempt", retries+1),
			slog.Duration("timeout", timeout),
			slog.Any("error", pkgerrors.ErrQuorumLost),
		)
	}

	if err := r.transition(ctx, run.Aggregating); err != nil {
		return nil, err
	}

	next, err := r.svc.aggregator.Aggregate(accepted)
	if err != nil {
		return nil, err
	}

	r.run.Parameters = next
	r.run.RoundsCompleted = round
	if err := r.transition(ctx, run.RoundComplete); err != nil {
		return nil, err
	}

	r.recordRound(ctx, round, retries+1, selected, accepted, started)

	return next, nil
}

// collect drains updates for the round until every selected client has
// answered or the window closes. It reports whether the round reached
// quorum. Wrong-round, unselected, duplicate and misshapen updates are
// dropped and logged, never fatal.
func (r *runner) collect(ctx context.Context, round uint64, selected []run.Client, timeout time.Duration, accepted *[]fl.ClientUpdate, seen map[string]bool) bool {
	cfg := r.run.Config
	want := make(map[string]bool, len(selected))
	for _, c := range selected {
		want[c.ID] = true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		if len(*accepted) >= len(selected) {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return uint64(len(*accepted)) >= cfg.MinFitClients
		case u := <-r.updates:
			switch {
			case u.RoundNumber != round:
				r.svc.logger.Warn("dropping update for wrong round",
					slog.String("client_id", u.ClientID),
					slog.Uint64("got", u.RoundNumber),
					slog.Uint64("want", round),
				)
			case !want[u.ClientID]:
				r.svc.logger.Warn("dropping update from unselected client", slog.String("client_id", u.ClientID))
			case seen[u.ClientID]:
				r.svc.logger.Warn("dropping duplicate update", slog.String("client_id", u.ClientID))
			case uint64(len(u.Parameters)) != cfg.ParameterDim:
				r.svc.logger.Warn("dropping update with wrong dimension",
					slog.String("client_id", u.ClientID),
					slog.Int("got", len(u.Parameters)),
					slog.Uint64("want", cfg.ParameterDim),
				)
			default:
				seen[u.ClientID] = true
				*accepted = append(*accepted, u)
			}
		}
	}
}

// selectClients pages through the whole fleet so selection never
// silently ignores clients beyond the first storage page.
func (r *runner) selectClients(ctx context.Context, round uint64) ([]run.Client, error) {
	cfg := r.run.Config

	var clients []run.Client
	for offset := uint64(defOffset); ; offset += defLimit {
		page, total, err := r.svc.clients.List(ctx, offset, defLimit)
		if err != nil {
			return nil, err
		}
		clients = append(clients, page...)
		if len(page) == 0 || offset+defLimit >= total {
			r.run.RegisteredClients = total

			break
		}
	}

	return r.svc.selector.Select(round, clients, cfg.SelectionFraction, cfg.MinFitClients)
}

// broadcast pushes the round parameters to every selected client.
// Publish failures are absorbed here; the quorum check decides whether
// the round survives them.
func (r *runner) broadcast(ctx context.Context, round uint64, params []float64, selected []run.Client) {
	b := fl.ParameterBroadcast{RoundNumber: round, Parameters: params}
	for _, c := range selected {
		topic := fmt.Sprintf(roundTopicTemplate, r.svc.channelID, c.ID)
		if err := r.svc.pubsub.Publish(ctx, topic, b); err != nil {
			r.svc.logger.Warn("failed to broadcast to client",
				slog.String("client_id", c.ID),
				slog.Uint64("round", round),
				slog.Any("error", err),
			)
		}
	}
	r.svc.logger.Info("broadcast round parameters",
		slog.String("run_id", r.runID),
		slog.Uint64("round", round),
		slog.Int("clients", len(selected)),
	)
}

func (r *runner) recordRound(ctx context.Context, number, attempts uint64, selected []run.Client, accepted []fl.ClientUpdate, started time.Time) {
	ids := make([]string, 0, len(selected))
	for _, c := range selected {
		ids = append(ids, c.ID)
	}
	var samples uint64
	for _, u := range accepted {
		samples += u.NumSamples
	}

	rec := run.Round{
		ID:          uuid.NewString(),
		RunID:       r.runID,
		Number:      number,
		Attempts:    attempts,
		Selected:    ids,
		UpdateCount: uint64(len(accepted)),
		SampleCount: samples,
		StartTime:   started,
		FinishTime:  time.Now(),
	}
	if _, err := r.svc.rounds.Create(ctx, rec); err != nil {
		r.svc.logger.Error("failed to record round",
			slog.String("run_id", r.runID),
			slog.Uint64("round", number),
			slog.Any("error", err),
		)
	}

	for _, u := range accepted {
		c, err := r.svc.clients.Get(ctx, u.ClientID)
		if err != nil {
			continue
		}
		c.UpdateCount++
		if err := r.svc.clients.Update(ctx, c); err != nil {
			r.svc.logger.Warn("failed to update client stats",
				slog.String("client_id", c.ID),
				slog.Any("error", err),
			)
		}
	}
}

func (r *runner) transition(ctx context.Context, to run.Status) error {
	from := r.run.Status
	if !r.run.Transition(to) {
		return fmt.Errorf("invalid run transition from %s to %s", from, to)
	}
	if err := r.svc.runs.Update(ctx, r.run); err != nil {
		return err
	}
	r.svc.logger.Debug("run transitioned",
		slog.String("run_id", r.runID),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)

	return nil
}

func (r *runner) initialParameters() []float64 {
	cfg := r.run.Config
	if len(cfg.InitialParameters) > 0 {
		out := make([]float64, len(cfg.InitialParameters))
		copy(out, cfg.InitialParameters)

		return out
	}

	return make([]float64, cfg.ParameterDim)
}

// fail persists the failed run. A stop reason set through stop() wins
// over the cause so an operator stop reads as such, not as a context
// error. Failed runs never save an artifact.
func (r *runner) fail(cause error) {
	ctx := context.Background()

	reason := cause.Error()
	r.reasonMu.Lock()
	if r.stopReason != "" {
		reason = r.stopReason
	}
	r.reasonMu.Unlock()

	r.run.Error = reason
	if r.run.Transition(run.Failed) {
		if err := r.svc.runs.Update(ctx, r.run); err != nil {
			r.svc.logger.Error("failed to persist failed run",
				slog.String("run_id", r.runID),
				slog.Any("error", err),
			)
		}
	}
	r.svc.logger.Warn("run failed",
		slog.String("run_id", r.runID),
		slog.String("error", reason),
	)
}

func (r *runner) complete(params []float64) {
	ctx := context.Background()

	if total, err := r.registeredClients(ctx); err == nil {
		r.run.RegisteredClients = total
	}
	r.run.Parameters = params
	if !r.run.Transition(run.TrainingComplete) {
		r.svc.logger.Error("run cannot complete", slog.String("status", string(r.run.Status)))

		return
	}
	if err := r.svc.runs.Update(ctx, r.run); err != nil {
		r.svc.logger.Error("failed to persist completed run",
			slog.String("run_id", r.runID),
			slog.Any("error", err),
		)
	}

	a := artifact.Artifact{
		RunID:           r.runID,
		Parameters:      params,
		RoundsCompleted: r.run.RoundsCompleted,
		ClientCount:     r.run.RegisteredClients,
		CreatedAt:       time.Now(),
	}
	if err := r.svc.artifacts.Save(ctx, a); err != nil {
		r.svc.logger.Error("failed to save artifact",
			slog.String("run_id", r.runID),
			slog.Any("error", err),
		)
	}
	r.svc.logger.Info("training complete",
		slog.String("run_id", r.runID),
		slog.Uint64("rounds", r.run.RoundsCompleted),
		slog.Uint64("clients", r.run.RegisteredClients),
	)
}

func (r *runner) registeredClients(ctx context.Context) (uint64, error) {
	_, total, err := r.svc.clients.List(ctx, defOffset, 1)

	return total, err
}
