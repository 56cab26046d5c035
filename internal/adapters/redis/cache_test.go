package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/rehearse/internal/adapters/redis"
	"github.com/aretw0/rehearse/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, opts ...redis.Option) (*redis.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	c := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_Contract(t *testing.T) {
	c, _ := newCache(t)
	ports.RunReplyCacheContract(t, c)
}

func TestRedisCache_TTLAndPrefix(t *testing.T) {
	c, mr := newCache(t, redis.WithTTL(time.Hour), redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "abc", "I led the rollout."))
	assert.True(t, mr.Exists("test:abc"))
	assert.Equal(t, time.Hour, mr.TTL("test:abc"))

	mr.FastForward(2 * time.Hour)
	_, ok, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Hits(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "reply"))
	for range 3 {
		_, ok, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
	}

	hits, err := c.Hits(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 3, hits)

	hits, err = c.Hits(ctx, "unknown")
	require.NoError(t, err)
	assert.Zero(t, hits)
}

func TestRedisCache_Unreachable(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, c.Ping(context.Background()))
}
