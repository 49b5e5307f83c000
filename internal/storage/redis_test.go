package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis connects to TEST_REDIS_ADDR (default localhost:6379).
// Tests are skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisRoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	b := NewRedis(client, "ta:test:", time.Minute)
	ctx := context.Background()
	t.Cleanup(func() { _ = b.Delete(ctx, "sid-1") })

	_, err := b.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Set(ctx, "sid-1", "tok"))
	got, err := b.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	ttl, err := client.TTL(ctx, "ta:test:sid-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, b.Delete(ctx, "sid-1"))
	_, err = b.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisEmptyKey(t *testing.T) {
	b := NewRedis(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "", 0)
	ctx := context.Background()

	_, err := b.Get(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, b.Set(ctx, "", "tok"))
	assert.NoError(t, b.Delete(ctx, ""))
	assert.Equal(t, DefaultRedisPrefix, b.prefix)
}
