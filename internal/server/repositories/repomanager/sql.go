package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager serves the durable store over PostgreSQL or SQLite.
type SQLRepositoryManager struct {
	db      *sql.DB
	dialect dbx.Dialect
	users   *users.SQLRepository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

var gooseDialects = map[dbx.Dialect]goose.Dialect{
	dbx.DialectPostgres: goose.DialectPostgres,
	dbx.DialectSQLite:   goose.DialectSQLite3,
}

// NewSQLRepositoryManager opens dsn with the driver registered for dialect.
func NewSQLRepositoryManager(dialect dbx.Dialect, dsn string) (*SQLRepositoryManager, error) {
	driver := dialect.DriverName()
	if driver == "" {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if dialect == dbx.DialectSQLite {
		// a single writer avoids SQLITE_BUSY between concurrent signups
		db.SetMaxOpenConns(1)
	}

	return newSQLRepositoryManager(db, dialect)
}

func newSQLRepositoryManager(db *sql.DB, dialect dbx.Dialect) (*SQLRepositoryManager, error) {
	repo, err := users.NewSQLRepository(db, dialect)
	if err != nil {
		return nil, fmt.Errorf("user repo creation error: %w", err)
	}
	return &SQLRepositoryManager{db: db, dialect: dialect, users: repo}, nil
}

func (m *SQLRepositoryManager) Users() users.Repository { return m.users }

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(string(gooseDialects[m.dialect])); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, string(m.dialect))
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}
