package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/rehearse/pkg/adapters/memory"
	"github.com/aretw0/rehearse/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Contract(t *testing.T) {
	ports.RunReplyCacheContract(t, memory.NewCache())
}

func TestCache_TTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	c := memory.NewCache(memory.WithTTL(time.Minute), memory.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "reply"))
	reply, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "reply", reply)

	now = now.Add(time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}
