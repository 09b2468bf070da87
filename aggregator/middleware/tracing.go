package middleware

import (
	"context"

	"github.com/absmach/flotilla/aggregator"
	"github.com/absmach/flotilla/pkg/artifact"
	"github.com/absmach/flotilla/pkg/fl"
	"github.com/absmach/flotilla/run"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ aggregator.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    aggregator.Service
}

func Tracing(tracer trace.Tracer, svc aggregator.Service) aggregator.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) StartRun(ctx context.Context, cfg run.Config) (resp run.Run, err error) {
	ctx, span := tm.tracer.Start(ctx, "start-run", trace.WithAttributes(
		attribute.Int64("total_rounds", int64(cfg.TotalRounds)),
		attribute.Int64("min_fit_clients", int64(cfg.MinFitClients)),
	))
	defer span.End()

	return tm.svc.StartRun(ctx, cfg)
}

func (tm *tracing) GetRun(ctx context.Context, runID string) (resp run.Run, err error) {
	ctx, span := tm.tracer.Start(ctx, "get-run", trace.WithAttributes(
		attribute.String("id", runID),
	))
	defer span.End()

	return tm.svc.GetRun(ctx, runID)
}

func (tm *tracing) ListRuns(ctx context.Context, offset, limit uint64) (resp run.RunPage, err error) {
	ctx, span := tm.tracer.Start(ctx, "list-runs", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListRuns(ctx, offset, limit)
}

func (tm *tracing) StopRun(ctx context.Context, runID string) (err error) {
	ctx, span := tm.tracer.Start(ctx, "stop-run", trace.WithAttributes(
		attribute.String("id", runID),
	))
	defer span.End()

	return tm.svc.StopRun(ctx, runID)
}

func (tm *tracing) ListRounds(ctx context.Context, runID string, offset, limit uint64) (resp run.RoundPage, err error) {
	ctx, span := tm.tracer.Start(ctx, "list-rounds", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListRounds(ctx, runID, offset, limit)
}

func (tm *tracing) Register(ctx context.Context, c run.Client) (resp run.Client, err error) {
	ctx, span := tm.tracer.Start(ctx, "register-client", trace.WithAttributes(
		attribute.String("id", c.ID),
		attribute.String("name", c.Name),
	))
	defer span.End()

	return tm.svc.Register(ctx, c)
}

func (tm *tracing) GetClient(ctx context.Context, clientID string) (resp run.Client, err error) {
	ctx, span := tm.tracer.Start(ctx, "get-client", trace.WithAttributes(
		attribute.String("id", clientID),
	))
	defer span.End()

	return tm.svc.GetClient(ctx, clientID)
}

func (tm *tracing) ListClients(ctx context.Context, offset, limit uint64) (resp run.ClientPage, err error) {
	ctx, span := tm.tracer.Start(ctx, "list-clients", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListClients(ctx, offset, limit)
}

func (tm *tracing) DeregisterClient(ctx context.Context, clientID string) (err error) {
	ctx, span := tm.tracer.Start(ctx, "deregister-client", trace.WithAttributes(
		attribute.String("id", clientID),
	))
	defer span.End()

	return tm.svc.DeregisterClient(ctx, clientID)
}

func (tm *tracing) SubmitUpdate(ctx context.Context, update fl.ClientUpdate) (err error) {
	ctx, span := tm.tracer.Start(ctx, "submit-update", trace.WithAttributes(
		attribute.String("client_id", update.ClientID),
		attribute.Int64("round", int64(update.RoundNumber)),
	))
	defer span.End()

	return tm.svc.SubmitUpdate(ctx, update)
}

func (tm *tracing) SubmitUpdateCBOR(ctx context.Context, data []byte) (err error) {
	ctx, span := tm.tracer.Start(ctx, "submit-update-cbor", trace.WithAttributes(
		attribute.Int("data_size", len(data)),
	))
	defer span.End()

	return tm.svc.SubmitUpdateCBOR(ctx, data)
}

func (tm *tracing) GetArtifact(ctx context.Context) (resp artifact.Artifact, err error) {
	ctx, span := tm.tracer.Start(ctx, "get-artifact")
	defer span.End()

	return tm.svc.GetArtifact(ctx)
}

func (tm *tracing) Subscribe(ctx context.Context) (err error) {
	ctx, span := tm.tracer.Start(ctx, "subscribe")
	defer span.End()

	return tm.svc.Subscribe(ctx)
}

func (tm *tracing) Shutdown(ctx context.Context) (err error) {
	ctx, span := tm.tracer.Start(ctx, "shutdown")
	defer span.End()

	return tm.svc.Shutdown(ctx)
}

func (tm *tracing) RecoverInterruptedRuns(ctx context.Context) (err error) {
	ctx, span := tm.tracer.Start(ctx, "recover-interrupted-runs")
	defer span.End()

	return tm.svc.RecoverInterruptedRuns(ctx)
}
