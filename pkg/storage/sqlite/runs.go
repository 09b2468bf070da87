package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/absmach/flotilla/run"
)

type runRepo struct {
	db *Database
}

func NewRunRepository(db *Database) RunRepository {
	return &runRepo{db: db}
}

type dbRun struct {
	ID                string       `db:"id"`
	Name              string       `db:"name"`
	Status            string       `db:"status"`
	Config            []byte       `db:"config"`
	CurrentRound      uint64       `db:"current_round"`
	RoundsCompleted   uint64       `db:"rounds_completed"`
	Parameters        []byte       `db:"parameters"`
	RegisteredClients uint64       `db:"registered_clients"`
	Error             *string      `db:"error"`
	StartTime         sql.NullTime `db:"start_time"`
	FinishTime        sql.NullTime `db:"finish_time"`
	CreatedAt         sql.NullTime `db:"created_at"`
	UpdatedAt         sql.NullTime `db:"updated_at"`
}

func (r *runRepo) Create(ctx context.Context, rn run.Run) (run.Run, error) {
	query := `INSERT INTO runs (id, name, status, config, current_round, rounds_completed, parameters, registered_clients, error, start_time, finish_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	cfg, err := jsonBytes(rn.Config)
	if err != nil {
		return run.Run{}, fmt.Errorf("marshal error: %w", err)
	}

	params, err := jsonBytes(rn.Parameters)
	if err != nil {
		return run.Run{}, fmt.Errorf("marshal error: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		rn.ID, rn.Name, string(rn.Status), cfg,
		rn.CurrentRound, rn.RoundsCompleted, params, rn.RegisteredClients,
		nullString(rn.Error), nullTime(rn.StartTime), nullTime(rn.FinishTime),
		rn.CreatedAt, rn.UpdatedAt,
	)
	if err != nil {
		return run.Run{}, fmt.Errorf("%w: %w", ErrCreate, err)
	}

	return rn, nil
}

func (r *runRepo) Get(ctx context.Context, id string) (run.Run, error) {
	query := `SELECT id, name, status, config, current_round, rounds_completed, parameters, registered_clients, error, start_time, finish_time, created_at, updated_at
		FROM runs WHERE id = ?`

	var dbr dbRun
	err := r.db.GetContext(ctx, &dbr, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run.Run{}, ErrRunNotFound
		}

		return run.Run{}, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return r.toRun(dbr)
}

func (r *runRepo) Update(ctx context.Context, rn run.Run) error {
	query := `UPDATE runs SET
		name = ?,
		status = ?,
		config = ?,
		current_round = ?,
		rounds_completed = ?,
		parameters = ?,
		registered_clients = ?,
		error = ?,
		start_time = ?,
		finish_time = ?,
		updated_at = ?
	WHERE id = ?`

	cfg, err := jsonBytes(rn.Config)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	params, err := jsonBytes(rn.Parameters)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		rn.Name, string(rn.Status), cfg,
		rn.CurrentRound, rn.RoundsCompleted, params, rn.RegisteredClients,
		nullString(rn.Error), nullTime(rn.StartTime), nullTime(rn.FinishTime),
		rn.UpdatedAt, rn.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpdate, err)
	}

	return nil
}

func (r *runRepo) List(ctx context.Context, offset, limit uint64) ([]run.Run, uint64, error) {
	var total uint64
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM runs")
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	query := `SELECT id, name, status, config, current_round, rounds_completed, parameters, registered_clients, error, start_time, finish_time, created_at, updated_at
		FROM runs ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	defer rows.Close()

	runs := make([]run.Run, 0)
	for rows.Next() {
		var dbr dbRun
		if err := rows.Scan(
			&dbr.ID, &dbr.Name, &dbr.Status, &dbr.Config,
			&dbr.CurrentRound, &dbr.RoundsCompleted, &dbr.Parameters, &dbr.RegisteredClients,
			&dbr.Error, &dbr.StartTime, &dbr.FinishTime, &dbr.CreatedAt, &dbr.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrDBScan, err)
		}

		rn, err := r.toRun(dbr)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrDBScan, err)
		}

		runs = append(runs, rn)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return runs, total, nil
}

func (r *runRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM runs WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%w: %w", ErrDelete, err)
	}

	return nil
}

func (r *runRepo) toRun(dbr dbRun) (run.Run, error) {
	rn := run.Run{
		ID:                dbr.ID,
		Name:              dbr.Name,
		Status:            run.Status(dbr.Status),
		CurrentRound:      dbr.CurrentRound,
		RoundsCompleted:   dbr.RoundsCompleted,
		RegisteredClients: dbr.RegisteredClients,
		CreatedAt:         dbr.CreatedAt.Time,
		UpdatedAt:         dbr.UpdatedAt.Time,
	}

	if dbr.Config != nil {
		if err := jsonUnmarshal(dbr.Config, &rn.Config); err != nil {
			return run.Run{}, err
		}
	}
	if dbr.Parameters != nil {
		if err := jsonUnmarshal(dbr.Parameters, &rn.Parameters); err != nil {
			return run.Run{}, err
		}
	}
	if dbr.Error != nil {
		rn.Error = *dbr.Error
	}
	if dbr.StartTime.Valid {
		rn.StartTime = dbr.StartTime.Time
	}
	if dbr.FinishTime.Valid {
		rn.FinishTime = dbr.FinishTime.Time
	}

	return rn, nil
}

func jsonBytes(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}

	return json.Marshal(v)
}

func jsonUnmarshal(data []byte, v any) error {
	if data == nil {
		return nil
	}

	return json.Unmarshal(data, v)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
