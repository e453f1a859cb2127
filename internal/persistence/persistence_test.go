package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicpulse/complaint-service/internal/config"
)

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o700))

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "002_b.sql"}, files)
}

func TestMigrationFiles_MissingDir(t *testing.T) {
	_, err := migrationFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestRunMigrations_NoPool(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, "does-not-matter", zap.NewNop()))
}

func TestNewPostgres_WithoutDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, pg.Enabled())
	assert.NoError(t, pg.Ping(context.Background()))
	pg.Close()
}

func TestNewRedis_WithoutAddr(t *testing.T) {
	r := NewRedis(config.RedisConfig{}, zap.NewNop())
	assert.False(t, r.Enabled())
	assert.NoError(t, r.Ping(context.Background()))
	r.Close()
}

func TestRedisSubmissionLimiter_DisabledAllows(t *testing.T) {
	var nilLimiter *RedisSubmissionLimiter
	ok, err := nilLimiter.Allow(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, ok)

	limiter := NewRedisSubmissionLimiter(nil, 0, time.Hour)
	ok, err = limiter.Allow(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisSubmissionLimiter_FixedWindow(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRedisSubmissionLimiter(client, 2, time.Minute)
	for i, want := range []bool{true, true, false, false} {
		ok, err := limiter.Allow(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "call %d", i+1)
	}

	ok, err := limiter.Allow(ctx, "u-2")
	require.NoError(t, err)
	assert.True(t, ok, "counters are per reporter")

	ttl := mr.TTL("complaints:submit:u-1")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	mr.FastForward(time.Minute + time.Second)
	ok, err = limiter.Allow(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, ok, "window resets after expiry")
}

func TestRedisSubmissionLimiter_RepairsMissingTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set("complaints:submit:u-1", "5"))
	limiter := NewRedisSubmissionLimiter(client, 2, time.Minute)

	ok, err := limiter.Allow(ctx, "u-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, mr.TTL("complaints:submit:u-1"), time.Duration(0))
}

func TestRedisSubmissionLimiter_BackendDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := NewRedisSubmissionLimiter(client, 2, time.Minute).Allow(context.Background(), "u-1")
	assert.Error(t, err)
}
