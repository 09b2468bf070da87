package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/absmach/flotilla/pkg/errors"
	"github.com/absmach/flotilla/run"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

var (
	ErrDBConnection = errors.New("database connection error")
	ErrDBQuery      = errors.New("database query error")
	ErrDBScan       = errors.New("database scan error")
	ErrCreate       = errors.New("create error")
	ErrUpdate       = errors.New("update error")
	ErrDelete       = errors.New("delete error")

	// Not-found errors wrap the shared sentinel so callers can match
	// them without importing this package.
	ErrRunNotFound    = fmt.Errorf("run not found: %w", pkgerrors.ErrNotFound)
	ErrClientNotFound = fmt.Errorf("client not found: %w", pkgerrors.ErrNotFound)
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

type Repositories struct {
	Runs    RunRepository
	Rounds  RoundRepository
	Clients ClientRepository
}

func NewRepositories(db *Database) *Repositories {
	return &Repositories{
		Runs:    NewRunRepository(db),
		Rounds:  NewRoundRepository(db),
		Clients: NewClientRepository(db),
	}
}

type Database struct {
	*sqlx.DB
}

func NewDatabase(host, port, user, pass, name, sslMode string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", host, port, user, pass, name, sslMode)
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBConnection, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	database := &Database{DB: db}

	if err := database.Migrate(); err != nil {
		return nil, err
	}

	return database, nil
}

func (db *Database) Migrate() error {
	migrations := &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "1_create_tables",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS runs (
						id VARCHAR(36) PRIMARY KEY,
						name VARCHAR(255) NOT NULL,
						status VARCHAR(32) NOT NULL DEFAULT 'pending',
						config JSONB,
						current_round BIGINT NOT NULL DEFAULT 0,
						rounds_completed BIGINT NOT NULL DEFAULT 0,
						parameters JSONB,
						registered_clients BIGINT NOT NULL DEFAULT 0,
						error TEXT,
						start_time TIMESTAMPTZ,
						finish_time TIMESTAMPTZ,
						created_at TIMESTAMPTZ NOT NULL,
						updated_at TIMESTAMPTZ NOT NULL
					)`,
					`CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status)`,
					`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC)`,
					`CREATE TABLE IF NOT EXISTS rounds (
						id VARCHAR(36) PRIMARY KEY,
						run_id VARCHAR(36) NOT NULL,
						number BIGINT NOT NULL,
						attempts BIGINT NOT NULL DEFAULT 1,
						selected JSONB,
						update_count BIGINT NOT NULL DEFAULT 0,
						sample_count BIGINT NOT NULL DEFAULT 0,
						start_time TIMESTAMPTZ,
						finish_time TIMESTAMPTZ,
						FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
					)`,
					`CREATE INDEX IF NOT EXISTS idx_rounds_run_id ON rounds(run_id, number)`,
					`CREATE TABLE IF NOT EXISTS clients (
						id VARCHAR(36) PRIMARY KEY,
						name VARCHAR(255) NOT NULL,
						update_count BIGINT DEFAULT 0,
						alive BOOLEAN DEFAULT FALSE,
						alive_history JSONB,
						created_at TIMESTAMPTZ
					)`,
					`CREATE INDEX IF NOT EXISTS idx_clients_alive ON clients(alive)`,
				},
				Down: []string{
					`DROP INDEX IF EXISTS idx_clients_alive`,
					`DROP TABLE IF EXISTS clients`,
					`DROP INDEX IF EXISTS idx_rounds_run_id`,
					`DROP TABLE IF EXISTS rounds`,
					`DROP INDEX IF EXISTS idx_runs_created_at`,
					`DROP INDEX IF EXISTS idx_runs_status`,
					`DROP TABLE IF EXISTS runs`,
				},
			},
		},
	}

	if _, err := migrate.Exec(db.DB.DB, "postgres", migrations, migrate.Up); err != nil {
		return fmt.Errorf("database migration error: %w", err)
	}

	return nil
}
