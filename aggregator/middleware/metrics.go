package middleware

import (
	"context"
	"time"

	"github.com/absmach/flotilla/aggregator"
	"github.com/absmach/flotilla/pkg/artifact"
	"github.com/absmach/flotilla/pkg/fl"
	"github.com/absmach/flotilla/run"
	"github.com/go-kit/kit/metrics"
)

var _ aggregator.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     aggregator.Service
}

func Metrics(counter metrics.Counter, latency metrics.Histogram, svc aggregator.Service) aggregator.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) StartRun(ctx context.Context, cfg run.Config) (run.Run, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "start-run").Add(1)
		mm.latency.With("method", "start-run").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.StartRun(ctx, cfg)
}

func (mm *metricsMiddleware) GetRun(ctx context.Context, runID string) (run.Run, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-run").Add(1)
		mm.latency.With("method", "get-run").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetRun(ctx, runID)
}

func (mm *metricsMiddleware) ListRuns(ctx context.Context, offset, limit uint64) (run.RunPage, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list-runs").Add(1)
		mm.latency.With("method", "list-runs").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListRuns(ctx, offset, limit)
}

func (mm *metricsMiddleware) StopRun(ctx context.Context, runID string) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "stop-run").Add(1)
		mm.latency.With("method", "stop-run").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.StopRun(ctx, runID)
}

func (mm *metricsMiddleware) ListRounds(ctx context.Context, runID string, offset, limit uint64) (run.RoundPage, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list-rounds").Add(1)
		mm.latency.With("method", "list-rounds").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListRounds(ctx, runID, offset, limit)
}

func (mm *metricsMiddleware) Register(ctx context.Context, c run.Client) (run.Client, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "register-client").Add(1)
		mm.latency.With("method", "register-client").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Register(ctx, c)
}

func (mm *metricsMiddleware) GetClient(ctx context.Context, clientID string) (run.Client, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-client").Add(1)
		mm.latency.With("method", "get-client").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetClient(ctx, clientID)
}

func (mm *metricsMiddleware) ListClients(ctx context.Context, offset, limit uint64) (run.ClientPage, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list-clients").Add(1)
		mm.latency.With("method", "list-clients").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListClients(ctx, offset, limit)
}

func (mm *metricsMiddleware) DeregisterClient(ctx context.Context, clientID string) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "deregister-client").Add(1)
		mm.latency.With("method", "deregister-client").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.DeregisterClient(ctx, clientID)
}

func (mm *metricsMiddleware) SubmitUpdate(ctx context.Context, update fl.ClientUpdate) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "submit-update").Add(1)
		mm.latency.With("method", "submit-update").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.SubmitUpdate(ctx, update)
}

func (mm *metricsMiddleware) SubmitUpdateCBOR(ctx context.Context, data []byte) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "submit-update-cbor").Add(1)
		mm.latency.With("method", "submit-update-cbor").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.SubmitUpdateCBOR(ctx, data)
}

func (mm *metricsMiddleware) GetArtifact(ctx context.Context) (artifact.Artifact, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-artifact").Add(1)
		mm.latency.With("method", "get-artifact").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetArtifact(ctx)
}

func (mm *metricsMiddleware) Subscribe(ctx context.Context) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "subscribe").Add(1)
		mm.latency.With("method", "subscribe").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Subscribe(ctx)
}

func (mm *metricsMiddleware) Shutdown(ctx context.Context) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "shutdown").Add(1)
		mm.latency.With("method", "shutdown").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Shutdown(ctx)
}

func (mm *metricsMiddleware) RecoverInterruptedRuns(ctx context.Context) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "recover-interrupted-runs").Add(1)
		mm.latency.With("method", "recover-interrupted-runs").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.RecoverInterruptedRuns(ctx)
}
