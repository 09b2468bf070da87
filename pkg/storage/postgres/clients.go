package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/absmach/flotilla/run"
)

type clientRepo struct {
	db *Database
}

func NewClientRepository(db *Database) ClientRepository {
	return &clientRepo{db: db}
}

type dbClient struct {
	ID           string       `db:"id"`
	Name         string       `db:"name"`
	UpdateCount  uint64       `db:"update_count"`
	Alive        bool         `db:"alive"`
	AliveHistory []byte       `db:"alive_history"`
	CreatedAt    sql.NullTime `db:"created_at"`
}

func (r *clientRepo) Create(ctx context.Context, c run.Client) error {
	query := `INSERT INTO clients (id, name, update_count, alive, alive_history, created_at) VALUES ($1, $2, $3, $4, $5, $6)`

	aliveHistory, err := jsonBytes(c.AliveHistory)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, c.ID, c.Name, c.UpdateCount, c.Alive, aliveHistory, nullTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}

	return nil
}

func (r *clientRepo) Get(ctx context.Context, id string) (run.Client, error) {
	query := `SELECT id, name, update_count, alive, alive_history, created_at FROM clients WHERE id = $1`

	var dbc dbClient
	err := r.db.GetContext(ctx, &dbc, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run.Client{}, ErrClientNotFound
		}

		return run.Client{}, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return r.toClient(dbc)
}

func (r *clientRepo) Update(ctx context.Context, c run.Client) error {
	query := `UPDATE clients SET name = $1, update_count = $2, alive = $3, alive_history = $4 WHERE id = $5`

	aliveHistory, err := jsonBytes(c.AliveHistory)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if _, err = r.db.ExecContext(ctx, query, c.Name, c.UpdateCount, c.Alive, aliveHistory, c.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrUpdate, err)
	}

	return nil
}

func (r *clientRepo) List(ctx context.Context, offset, limit uint64) ([]run.Client, uint64, error) {
	var total uint64
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM clients")
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	query := `SELECT id, name, update_count, alive, alive_history, created_at FROM clients ORDER BY id ASC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	defer rows.Close()

	clients := make([]run.Client, 0)
	for rows.Next() {
		var dbc dbClient
		if err := rows.Scan(&dbc.ID, &dbc.Name, &dbc.UpdateCount, &dbc.Alive, &dbc.AliveHistory, &dbc.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrDBScan, err)
		}

		c, err := r.toClient(dbc)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrDBScan, err)
		}

		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return clients, total, nil
}

func (r *clientRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM clients WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%w: %w", ErrDelete, err)
	}

	return nil
}

func (r *clientRepo) toClient(dbc dbClient) (run.Client, error) {
	c := run.Client{
		ID:          dbc.ID,
		Name:        dbc.Name,
		UpdateCount: dbc.UpdateCount,
		Alive:       dbc.Alive,
	}

	if dbc.AliveHistory != nil {
		if err := jsonUnmarshal(dbc.AliveHistory, &c.AliveHistory); err != nil {
			return run.Client{}, err
		}
	}
	if dbc.CreatedAt.Valid {
		c.CreatedAt = dbc.CreatedAt.Time
	}

	return c, nil
}
