package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/absmach/flotilla/run"
)

type roundRepo struct {
	db *Database
}

func NewRoundRepository(db *Database) RoundRepository {
	return &roundRepo{db: db}
}

type dbRound struct {
	ID          string       `db:"id"`
	RunID       string       `db:"run_id"`
	Number      uint64       `db:"number"`
	Attempts    uint64       `db:"attempts"`
	Selected    []byte       `db:"selected"`
	UpdateCount uint64       `db:"update_count"`
	SampleCount uint64       `db:"sample_count"`
	StartTime   sql.NullTime `db:"start_time"`
	FinishTime  sql.NullTime `db:"finish_time"`
}

func (r *roundRepo) Create(ctx context.Context, rd run.Round) (run.Round, error) {
	query := `INSERT INTO rounds (id, run_id, number, attempts, selected, update_count, sample_count, start_time, finish_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selected, err := jsonBytes(rd.Selected)
	if err != nil {
		return run.Round{}, fmt.Errorf("marshal error: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		rd.ID, rd.RunID, rd.Number, rd.Attempts, selected,
		rd.UpdateCount, rd.SampleCount, nullTime(rd.StartTime), nullTime(rd.FinishTime),
	)
	if err != nil {
		return run.Round{}, fmt.Errorf("%w: %w", ErrCreate, err)
	}

	return rd, nil
}

func (r *roundRepo) ListByRunID(ctx context.Context, runID string, offset, limit uint64) ([]run.Round, uint64, error) {
	var total uint64
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM rounds WHERE run_id = ?", runID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	query := `SELECT id, run_id, number, attempts, selected, update_count, sample_count, start_time, finish_time
		FROM rounds WHERE run_id = ? ORDER BY number ASC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, runID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	defer rows.Close()

	rounds := make([]run.Round, 0)
	for rows.Next() {
		var dbr dbRound
		if err := rows.Scan(
			&dbr.ID, &dbr.RunID, &dbr.Number, &dbr.Attempts, &dbr.Selected,
			&dbr.UpdateCount, &dbr.SampleCount, &dbr.StartTime, &dbr.FinishTime,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrDBScan, err)
		}

		rd, err := r.toRound(dbr)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrDBScan, err)
		}

		rounds = append(rounds, rd)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return rounds, total, nil
}

func (r *roundRepo) toRound(dbr dbRound) (run.Round, error) {
	rd := run.Round{
		ID:          dbr.ID,
		RunID:       dbr.RunID,
		Number:      dbr.Number,
		Attempts:    dbr.Attempts,
		UpdateCount: dbr.UpdateCount,
		SampleCount: dbr.SampleCount,
	}

	if dbr.Selected != nil {
		if err := jsonUnmarshal(dbr.Selected, &rd.Selected); err != nil {
			return run.Round{}, err
		}
	}
	if dbr.StartTime.Valid {
		rd.StartTime = dbr.StartTime.Time
	}
	if dbr.FinishTime.Valid {
		rd.FinishTime = dbr.FinishTime.Time
	}

	return rd, nil
}
