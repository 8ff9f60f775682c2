package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig sizes the pgx pool backing the store.
type PoolConfig struct {
	DSN         string
	AppName     string
	MaxConns    int32
	MinConns    int32
	MaxConnLife time.Duration
}

// NewPool connects and pings. Sessions run in UTC so execution timestamps
// compare the same way as in the SQLite store.
func NewPool(ctx context.Context, pc PoolConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(pc.DSN)
	if err != nil {
		return nil, err
	}
	if pc.MaxConns > 0 {
		cfg.MaxConns = pc.MaxConns
	}
	if pc.MinConns > 0 {
		cfg.MinConns = pc.MinConns
	}
	if pc.MaxConnLife > 0 {
		cfg.MaxConnLifetime = pc.MaxConnLife
	}
	cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
	if pc.AppName != "" {
		cfg.ConnConfig.RuntimeParams["application_name"] = pc.AppName
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
