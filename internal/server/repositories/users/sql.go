package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type queries struct {
	find   string
	exists string
	insert string
}

var dialectQueries = map[dbx.Dialect]queries{
	dbx.DialectPostgres: {
		find: `SELECT id, email, password_hash, created_at FROM users
		 WHERE email = $1`,
		exists: `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		insert: `INSERT INTO users (id, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)`,
	},
	dbx.DialectSQLite: {
		find: `SELECT id, email, password_hash, created_at FROM users
		 WHERE email = ?`,
		exists: `SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`,
		insert: `INSERT INTO users (id, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?)`,
	},
}

// SQLRepository is the durable credential store. Uniqueness of email is
// enforced by the users_email_key constraint, which makes Insert an atomic
// insert-if-absent.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	q       queries
	now     func() time.Time
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) (*SQLRepository, error) {
	q, ok := dialectQueries[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	return &SQLRepository{db: db, dialect: dialect, q: q, now: time.Now}, nil
}

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}

	row := r.db.QueryRowContext(ctx, r.q.find, email)

	var err error
	if r.dialect == dbx.DialectSQLite {
		var createdAt int64
		err = row.Scan(&user.ID, &user.Email, &user.PasswordHash, &createdAt)
		user.CreatedAt = time.UnixMicro(createdAt).UTC()
	} else {
		err = row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	}

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, r.q.exists, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *SQLRepository) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now().UTC()
	}

	var createdAt any = stored.CreatedAt
	if r.dialect == dbx.DialectSQLite {
		createdAt = stored.CreatedAt.UnixMicro()
	}

	_, err := r.db.ExecContext(ctx, r.q.insert, stored.ID, stored.Email, stored.PasswordHash, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &stored, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE")
	}

	return false
}
