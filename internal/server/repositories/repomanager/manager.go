// Package repomanager selects and wires the storage backend: PostgreSQL when a
// DSN is configured, the in-memory store otherwise.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/nihongo/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/nihongo/internal/server/repositories/studylogs"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Accounts() accounts.Repository
	StudyLogs() studylogs.Repository
	Ping(ctx context.Context) error
	Close() error
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// New returns the in-memory manager for an empty dsn and a PostgreSQL one
// otherwise. The PostgreSQL connection is pinged before returning.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewMemoryRepositoryManager(), nil
	}

	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return NewPostgresRepositoryManager(db), nil
}
