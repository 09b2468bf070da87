package storage

import (
	"context"

	pkgerrors "github.com/absmach/flotilla/pkg/errors"
	"github.com/absmach/flotilla/run"
)

type memoryRunRepo struct {
	storage Storage
}

func newMemoryRunRepository(s Storage) RunRepository {
	return &memoryRunRepo{storage: s}
}

func (r *memoryRunRepo) Create(ctx context.Context, rn run.Run) (run.Run, error) {
	if err := r.storage.Create(ctx, rn.ID, rn); err != nil {
		return run.Run{}, err
	}

	return rn, nil
}

func (r *memoryRunRepo) Get(ctx context.Context, id string) (run.Run, error) {
	data, err := r.storage.Get(ctx, id)
	if err != nil {
		return run.Run{}, err
	}
	rn, ok := data.(run.Run)
	if !ok {
		return run.Run{}, pkgerrors.ErrInvalidData
	}

	return rn, nil
}

func (r *memoryRunRepo) Update(ctx context.Context, rn run.Run) error {
	return r.storage.Update(ctx, rn.ID, rn)
}

func (r *memoryRunRepo) List(ctx context.Context, offset, limit uint64) ([]run.Run, uint64, error) {
	data, total, err := r.storage.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	runs := make([]run.Run, len(data))
	for i, d := range data {
		rn, ok := d.(run.Run)
		if !ok {
			return nil, 0, pkgerrors.ErrInvalidData
		}
		runs[i] = rn
	}

	return runs, total, nil
}

func (r *memoryRunRepo) Delete(ctx context.Context, id string) error {
	return r.storage.Delete(ctx, id)
}

type memoryRoundRepo struct {
	storage Storage
}

func newMemoryRoundRepository(s Storage) RoundRepository {
	return &memoryRoundRepo{storage: s}
}

func (r *memoryRoundRepo) Create(ctx context.Context, rd run.Round) (run.Round, error) {
	if err := r.storage.Create(ctx, rd.ID, rd); err != nil {
		return run.Round{}, err
	}

	return rd, nil
}

func (r *memoryRoundRepo) ListByRunID(ctx context.Context, runID string, offset, limit uint64) ([]run.Round, uint64, error) {
	const pageSize = 1024

	var (
		scanOffset uint64
		total      uint64
		filtered   []run.Round
	)

	for {
		data, allTotal, err := r.storage.List(ctx, scanOffset, pageSize)
		if err != nil {
			return nil, 0, err
		}
		if len(data) == 0 {
			break
		}

		for _, d := range data {
			rd, ok := d.(run.Round)
			if !ok {
				return nil, 0, pkgerrors.ErrInvalidData
			}
			if rd.RunID != runID {
				continue
			}

			if total >= offset && uint64(len(filtered)) < limit {
				filtered = append(filtered, rd)
			}
			total++
		}

		scanOffset += uint64(len(data))
		if scanOffset >= allTotal {
			break
		}
	}

	if offset >= total {
		return []run.Round{}, total, nil
	}

	return filtered, total, nil
}

type memoryClientRepo struct {
	storage Storage
}

func newMemoryClientRepository(s Storage) ClientRepository {
	return &memoryClientRepo{storage: s}
}

func (r *memoryClientRepo) Create(ctx context.Context, c run.Client) error {
	return r.storage.Create(ctx, c.ID, c)
}

func (r *memoryClientRepo) Get(ctx context.Context, id string) (run.Client, error) {
	data, err := r.storage.Get(ctx, id)
	if err != nil {
		return run.Client{}, err
	}
	c, ok := data.(run.Client)
	if !ok {
		return run.Client{}, pkgerrors.ErrInvalidData
	}

	return c, nil
}

func (r *memoryClientRepo) Update(ctx context.Context, c run.Client) error {
	return r.storage.Update(ctx, c.ID, c)
}

func (r *memoryClientRepo) List(ctx context.Context, offset, limit uint64) ([]run.Client, uint64, error) {
	data, total, err := r.storage.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	clients := make([]run.Client, len(data))
	for i, d := range data {
		c, ok := d.(run.Client)
		if !ok {
			return nil, 0, pkgerrors.ErrInvalidData
		}
		clients[i] = c
	}

	return clients, total, nil
}

func (r *memoryClientRepo) Delete(ctx context.Context, id string) error {
	return r.storage.Delete(ctx, id)
}
