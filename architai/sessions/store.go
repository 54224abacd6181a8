package sessions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// a repository that also owns its schema
type Store interface {
	Repository
	Migrator
}

// opens the store selected by the DATABASE_URL scheme:
// postgres:// or postgresql:// for postgres, sqlite:// or file: for sqlite,
// and "memory" for an in-process store
func Open(ctx context.Context, databaseURL string) (Store, func(), error) {
	switch {
	case databaseURL == "" || databaseURL == "memory" || databaseURL == "memory://":
		return NewMemoryRepository(), func() {}, nil

	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		db, err := OpenPostgresPool(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}

		return NewRepository(db), db.Close, nil

	case strings.HasPrefix(databaseURL, "sqlite://"), strings.HasPrefix(databaseURL, "file:"):
		repo, err := NewSQLiteRepository(SQLiteDSN(databaseURL))
		if err != nil {
			return nil, nil, err
		}

		return repo, func() { _ = repo.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported DATABASE_URL scheme: %s", databaseURL)
	}
}

// creates a small pgx pool that works behind transaction poolers
func OpenPostgresPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// pgbouncer in transaction mode does not support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// converts sqlite://path into a driver DSN, file: URIs pass through
func SQLiteDSN(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "file:") {
		return databaseURL
	}

	return strings.TrimPrefix(databaseURL, "sqlite://")
}
