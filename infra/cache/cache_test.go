package cache

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (*RedisInstitutionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() }) //nolint:errcheck
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewRedisInstitutionCache(client, "budget:", logger), mr
}

func TestRedisInstitutionCache_MissThenHit(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	name, ok, err := c.Get(ctx, "ins_1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, name)

	require.NoError(t, c.Set(ctx, "ins_1", "First Platypus Bank", time.Hour))
	assert.True(t, mr.Exists("budget:institution:ins_1"))

	name, ok, err = c.Get(ctx, "ins_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "First Platypus Bank", name)
}

func TestRedisInstitutionCache_Expires(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ins_1", "First Platypus Bank", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "ins_1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisInstitutionCache_ServerDown(t *testing.T) {
	c, mr := newRedisCache(t)
	mr.Close()

	_, ok, err := c.Get(context.Background(), "ins_1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestMemoryCache(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewMemoryCache(ctx, 0)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, ok, err := c.Get(ctx, "ins_1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "ins_1", "First Platypus Bank", time.Hour))
	name, ok, _ := c.Get(ctx, "ins_1")
	assert.True(t, ok)
	assert.Equal(t, "First Platypus Bank", name)

	now = now.Add(2 * time.Hour)
	_, ok, _ = c.Get(ctx, "ins_1")
	assert.False(t, ok)

	c.sweep()
	assert.Empty(t, c.entries)
}
