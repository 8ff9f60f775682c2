package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oksasatya/digital-legacy/internal/domain/repository"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the SQLite unit of work. SQLite allows one writer at a time, so a
// write transaction already excludes other executions.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Repos() repository.Repositories {
	return reposFor(s.db)
}

func (s *Store) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(reposFor(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func reposFor(db dbtx) repository.Repositories {
	return repository.Repositories{
		Users:    &UserRepository{db: db},
		Accounts: &AccountRepository{db: db},
		Contacts: &TrustedContactRepository{db: db},
		Logs:     &ExecutionLogRepository{db: db},
	}
}

func now() time.Time { return time.Now().UTC() }

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UnitOfWork = (*Store)(nil)
