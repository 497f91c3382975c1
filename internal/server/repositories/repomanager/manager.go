// Package repomanager picks the credential store backend and owns its
// lifecycle: open, migrate, close.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// Storage backends accepted by New.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// RepositoryManager vends the repositories the services depend on.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Close() error
}

// New builds the manager for backend and runs its migrations. dsn is ignored
// for the memory backend.
func New(ctx context.Context, backend, dsn string) (RepositoryManager, error) {
	var (
		m   RepositoryManager
		err error
	)

	switch backend {
	case BackendMemory, "":
		m = NewMemoryRepositoryManager()
	case BackendPostgres:
		m, err = NewSQLRepositoryManager(dbx.DialectPostgres, dsn)
	case BackendSQLite:
		m, err = NewSQLRepositoryManager(dbx.DialectSQLite, dsn)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
	if err != nil {
		return nil, err
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
