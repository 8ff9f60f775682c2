package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/digital-legacy/internal/domain/repository"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the Postgres unit of work.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Repos() repository.Repositories {
	return reposFor(s.pool)
}

func (s *Store) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(reposFor(tx))
	})
}

func reposFor(q querier) repository.Repositories {
	return repository.Repositories{
		Users:    &UserRepository{db: q},
		Accounts: &AccountRepository{db: q},
		Contacts: &TrustedContactRepository{db: q},
		Logs:     &ExecutionLogRepository{db: q},
	}
}

var _ repository.UnitOfWork = (*Store)(nil)
