package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "EXECUTION_LOCK_TTL", "EXECUTION_LOCK_TIMEOUT", "REDIS_ENABLED", "ES_LOGS_INDEX"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "digital-legacy", cfg.AppName)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.False(t, cfg.UsesSQLite())
	assert.Equal(t, 30*time.Second, cfg.ExecutionLockTTL)
	assert.Equal(t, 10*time.Second, cfg.ExecutionLockTimeout)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, "execution_logs", cfg.ESLogsIndex)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/legacy.db")
	t.Setenv("EXECUTION_LOCK_TIMEOUT", "250ms")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()
	assert.True(t, cfg.UsesSQLite())
	assert.Equal(t, "/tmp/legacy.db", cfg.SQLitePath)
	assert.Equal(t, 250*time.Millisecond, cfg.ExecutionLockTimeout)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "legacy", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/legacy?sslmode=disable", cfg.PostgresDSN())
}
