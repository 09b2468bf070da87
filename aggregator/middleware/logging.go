package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/flotilla/aggregator"
	"github.com/absmach/flotilla/pkg/artifact"
	"github.com/absmach/flotilla/pkg/fl"
	"github.com/absmach/flotilla/run"
)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    aggregator.Service
}

func Logging(logger *slog.Logger, svc aggregator.Service) aggregator.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) StartRun(ctx context.Context, cfg run.Config) (resp run.Run, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("run",
				slog.String("id", resp.ID),
				slog.String("name", resp.Name),
				slog.Uint64("total_rounds", cfg.TotalRounds),
				slog.Uint64("min_fit_clients", cfg.MinFitClients),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Start run failed", args...)

			return
		}
		lm.logger.Info("Start run completed successfully", args...)
	}(time.Now())

	return lm.svc.StartRun(ctx, cfg)
}

func (lm *loggingMiddleware) GetRun(ctx context.Context, runID string) (resp run.Run, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("run",
				slog.String("id", runID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get run failed", args...)

			return
		}
		lm.logger.Info("Get run completed successfully", args...)
	}(time.Now())

	return lm.svc.GetRun(ctx, runID)
}

func (lm *loggingMiddleware) ListRuns(ctx context.Context, offset, limit uint64) (resp run.RunPage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Uint64("offset", offset),
			slog.Uint64("limit", limit),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List runs failed", args...)

			return
		}
		lm.logger.Info("List runs completed successfully", args...)
	}(time.Now())

	return lm.svc.ListRuns(ctx, offset, limit)
}

func (lm *loggingMiddleware) StopRun(ctx context.Context, runID string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("run",
				slog.String("id", runID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Stop run failed", args...)

			return
		}
		lm.logger.Info("Stop run completed successfully", args...)
	}(time.Now())

	return lm.svc.StopRun(ctx, runID)
}

func (lm *loggingMiddleware) ListRounds(ctx context.Context, runID string, offset, limit uint64) (resp run.RoundPage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("run",
				slog.String("id", runID),
			),
			slog.Uint64("offset", offset),
			slog.Uint64("limit", limit),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List rounds failed", args...)

			return
		}
		lm.logger.Info("List rounds completed successfully", args...)
	}(time.Now())

	return lm.svc.ListRounds(ctx, runID, offset, limit)
}

func (lm *loggingMiddleware) Register(ctx context.Context, c run.Client) (resp run.Client, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("client",
				slog.String("id", c.ID),
				slog.String("name", resp.Name),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Register client failed", args...)

			return
		}
		lm.logger.Info("Register client completed successfully", args...)
	}(time.Now())

	return lm.svc.Register(ctx, c)
}

func (lm *loggingMiddleware) GetClient(ctx context.Context, clientID string) (resp run.Client, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("client",
				slog.String("id", clientID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get client failed", args...)

			return
		}
		lm.logger.Info("Get client completed successfully", args...)
	}(time.Now())

	return lm.svc.GetClient(ctx, clientID)
}

func (lm *loggingMiddleware) ListClients(ctx context.Context, offset, limit uint64) (resp run.ClientPage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Uint64("offset", offset),
			slog.Uint64("limit", limit),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List clients failed", args...)

			return
		}
		lm.logger.Info("List clients completed successfully", args...)
	}(time.Now())

	return lm.svc.ListClients(ctx, offset, limit)
}

func (lm *loggingMiddleware) DeregisterClient(ctx context.Context, clientID string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("client",
				slog.String("id", clientID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Deregister client failed", args...)

			return
		}
		lm.logger.Info("Deregister client completed successfully", args...)
	}(time.Now())

	return lm.svc.DeregisterClient(ctx, clientID)
}

func (lm *loggingMiddleware) SubmitUpdate(ctx context.Context, update fl.ClientUpdate) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("update",
				slog.String("client_id", update.ClientID),
				slog.Uint64("round", update.RoundNumber),
				slog.Uint64("num_samples", update.NumSamples),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Submit update failed", args...)

			return
		}
		lm.logger.Info("Submit update completed successfully", args...)
	}(time.Now())

	return lm.svc.SubmitUpdate(ctx, update)
}

func (lm *loggingMiddleware) SubmitUpdateCBOR(ctx context.Context, data []byte) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("data_size", len(data)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Submit update CBOR failed", args...)

			return
		}
		lm.logger.Info("Submit update CBOR completed successfully", args...)
	}(time.Now())

	return lm.svc.SubmitUpdateCBOR(ctx, data)
}

func (lm *loggingMiddleware) GetArtifact(ctx context.Context) (resp artifact.Artifact, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("artifact",
				slog.String("run_id", resp.RunID),
				slog.Uint64("rounds_completed", resp.RoundsCompleted),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get artifact failed", args...)

			return
		}
		lm.logger.Info("Get artifact completed successfully", args...)
	}(time.Now())

	return lm.svc.GetArtifact(ctx)
}

func (lm *loggingMiddleware) Subscribe(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Subscribe failed", args...)

			return
		}
		lm.logger.Info("Subscribe completed successfully", args...)
	}(time.Now())

	return lm.svc.Subscribe(ctx)
}

func (lm *loggingMiddleware) Shutdown(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Shutdown failed", args...)

			return
		}
		lm.logger.Info("Shutdown completed successfully", args...)
	}(time.Now())

	return lm.svc.Shutdown(ctx)
}

func (lm *loggingMiddleware) RecoverInterruptedRuns(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Recover interrupted runs failed", args...)

			return
		}
		lm.logger.Info("Recover interrupted runs completed successfully", args...)
	}(time.Now())

	return lm.svc.RecoverInterruptedRuns(ctx)
}
