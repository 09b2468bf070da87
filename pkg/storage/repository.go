package storage

import (
	"context"

	"github.com/absmach/flotilla/run"
)

type RunRepository interface {
	Create(ctx context.Context, r run.Run) (run.Run, error)
	Get(ctx context.Context, id string) (run.Run, error)
	Update(ctx context.Context, r run.Run) error
	List(ctx context.Context, offset, limit uint64) ([]run.Run, uint64, error)
	Delete(ctx context.Context, id string) error
}

type RoundRepository interface {
	Create(ctx context.Context, r run.Round) (run.Round, error)
	ListByRunID(ctx context.Context, runID string, offset, limit uint64) ([]run.Round, uint64, error)
}

type ClientRepository interface {
	Create(ctx context.Context, c run.Client) error
	Get(ctx context.Context, id string) (run.Client, error)
	Update(ctx context.Context, c run.Client) error
	List(ctx context.Context, offset, limit uint64) ([]run.Client, uint64, error)
	Delete(ctx context.Context, id string) error
}
