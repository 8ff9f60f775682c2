// Package bootstrap opens the infrastructure shared by the server, the seeder and legacyctl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/digital-legacy/config"
	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/internal/domain/repository"
	"github.com/oksasatya/digital-legacy/internal/infrastructure/lock"
	pginfra "github.com/oksasatya/digital-legacy/internal/infrastructure/postgres"
	"github.com/oksasatya/digital-legacy/internal/infrastructure/sqlite"
)

// OpenStore connects to the configured database, applies migrations and
// returns the store together with a function releasing the connection.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.UnitOfWork, func(), error) {
	if cfg.UsesSQLite() {
		db, err := sqlite.OpenConnection(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := sqlite.MigrateUp(db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("sqlite migrate: %w", err)
		}
		logger.WithField("path", cfg.SQLitePath).Info("using sqlite store")
		return sqlite.NewStore(db), func() { _ = db.Close() }, nil
	}

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), logger); err != nil {
		return nil, nil, fmt.Errorf("postgres migrate: %w", err)
	}
	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
		DSN:         cfg.PostgresDSN(),
		AppName:     cfg.AppName,
		MaxConns:    cfg.DBMaxConns,
		MinConns:    cfg.DBMinConns,
		MaxConnLife: cfg.DBMaxConnLife,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	logger.WithField("host", cfg.DBHost).Info("using postgres store")
	return pginfra.NewStore(pool), pool.Close, nil
}

// NewLocker picks the Redis lock when a client is available so that several
// API replicas serialize executions of the same user.
func NewLocker(cfg *config.Config, rdb *redis.Client) application.Locker {
	if rdb != nil {
		return lock.NewRedisLocker(rdb, cfg.ExecutionLockTTL)
	}
	return lock.NewKeyedMutex()
}
