package storage

import (
	"fmt"
	"io"

	"github.com/absmach/flotilla/pkg/storage/postgres"
	"github.com/absmach/flotilla/pkg/storage/sqlite"
)

type Config struct {
	Type string `env:"AGGREGATOR_STORAGE_TYPE" envDefault:"memory"`

	PostgresHost    string `env:"AGGREGATOR_POSTGRES_HOST"    envDefault:"localhost"`
	PostgresPort    string `env:"AGGREGATOR_POSTGRES_PORT"    envDefault:"5432"`
	PostgresUser    string `env:"AGGREGATOR_POSTGRES_USER"    envDefault:"flotilla"`
	PostgresPass    string `env:"AGGREGATOR_POSTGRES_PASS"    envDefault:"flotilla"`
	PostgresDB      string `env:"AGGREGATOR_POSTGRES_DB"      envDefault:"flotilla"`
	PostgresSSLMode string `env:"AGGREGATOR_POSTGRES_SSLMODE" envDefault:"disable"`

	SQLitePath string `env:"AGGREGATOR_SQLITE_PATH" envDefault:"./flotilla.db"`
}

type Repositories struct {
	Runs    RunRepository
	Rounds  RoundRepository
	Clients ClientRepository
	// Closer closes the underlying persistent storage connection.
	// It is nil for the in-memory backend.
	Closer io.Closer
}

func NewRepositories(cfg Config) (*Repositories, error) {
	switch cfg.Type {
	case "postgres":
		return newPostgresRepositories(cfg)
	case "sqlite":
		return newSQLiteRepositories(cfg)
	case "memory":
		return newMemoryRepositories()
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func newPostgresRepositories(cfg Config) (*Repositories, error) {
	db, err := postgres.NewDatabase(
		cfg.PostgresHost,
		cfg.PostgresPort,
		cfg.PostgresUser,
		cfg.PostgresPass,
		cfg.PostgresDB,
		cfg.PostgresSSLMode,
	)
	if err != nil {
		return nil, err
	}

	repos := postgres.NewRepositories(db)

	return &Repositories{
		Runs:    repos.Runs,
		Rounds:  repos.Rounds,
		Clients: repos.Clients,
		Closer:  db,
	}, nil
}

func newSQLiteRepositories(cfg Config) (*Repositories, error) {
	db, err := sqlite.NewDatabase(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}

	repos := sqlite.NewRepositories(db)

	return &Repositories{
		Runs:    repos.Runs,
		Rounds:  repos.Rounds,
		Clients: repos.Clients,
		Closer:  db,
	}, nil
}

func newMemoryRepositories() (*Repositories, error) {
	runStorage := NewInMemoryStorage()
	roundStorage := NewInMemoryStorage()
	clientStorage := NewInMemoryStorage()

	return &Repositories{
		Runs:    newMemoryRunRepository(runStorage),
		Rounds:  newMemoryRoundRepository(roundStorage),
		Clients: newMemoryClientRepository(clientStorage),
	}, nil
}
