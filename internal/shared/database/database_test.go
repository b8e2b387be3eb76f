package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"antesala/internal/shared/config"
	"antesala/internal/storage"
	"antesala/pkg/logger"
)

func TestMigrateCreatesReservationsTable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable(&storage.DocumentRecord{}))
	assert.True(t, db.Migrator().HasTable("reservations"))
}

func TestInitDBMemoryOpensNothing(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")

	db, err := InitDB(config.Load(), logger.Discard())
	require.NoError(t, err)
	assert.Nil(t, db.PostgreSQL)
	assert.Nil(t, db.Redis)
	assert.NoError(t, db.HealthCheck(context.Background()))
	assert.NoError(t, db.Close())
}

func TestInitDBLocalConnectsRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("STORAGE_BACKEND", "local")
	t.Setenv("REDIS_HOST", mr.Host())
	t.Setenv("REDIS_PORT", mr.Port())

	db, err := InitDB(config.Load(), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Nil(t, db.PostgreSQL)
	require.NotNil(t, db.Redis)
	assert.NoError(t, db.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, db.HealthCheck(context.Background()))
}

func TestInitDBRemoteKeepsRunningWithoutPostgres(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("STORAGE_BACKEND", "remote")
	t.Setenv("REDIS_HOST", mr.Host())
	t.Setenv("REDIS_PORT", mr.Port())
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "1")

	db, err := InitDB(config.Load(), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Nil(t, db.PostgreSQL)
	assert.ErrorContains(t, db.RemoteErr, "PostgreSQL")
	require.NotNil(t, db.Redis)
}

func TestHealthCheckRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	db := &DB{Redis: client}
	assert.Error(t, db.HealthCheck(context.Background()))
	assert.NoError(t, db.Close())
}
