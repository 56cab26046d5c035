package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunReplyCacheContract runs a suite of tests to verify that a ReplyCache implementation
// adheres to the defined interface contract.
func RunReplyCacheContract(t *testing.T, cache ReplyCache) {
	ctx := context.Background()
	key := ReplyRequest{
		PersonaName: "contract",
		Utterance:   "contract-test-" + time.Now().Format("20060102150405"),
	}.Key()

	t.Run("Set and Get", func(t *testing.T) {
		err := cache.Set(ctx, key, "I led the migration.")
		require.NoError(t, err, "Set should not return error")

		reply, ok, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.True(t, ok)
		assert.Equal(t, "I led the migration.", reply)
	})

	t.Run("Miss", func(t *testing.T) {
		reply, ok, err := cache.Get(ctx, "missing-"+key)
		require.NoError(t, err, "a miss is not an error")
		assert.False(t, ok)
		assert.Empty(t, reply)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, "first"))
		require.NoError(t, cache.Set(ctx, key, "second"))

		reply, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "second", reply)
	})
}
