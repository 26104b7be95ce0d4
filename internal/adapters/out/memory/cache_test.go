package memory_test

import (
	"testing"
	"time"

	"orders/internal/adapters/out/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetDel(t *testing.T) {
	ctx := t.Context()
	cache := memory.NewCache()

	require.NoError(t, cache.Set(ctx, "order:1", []byte("payload"), time.Minute))

	value, hit, err := cache.Get(ctx, "order:1")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte("payload"), value)

	_, hit, err = cache.Get(ctx, "order:2")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Del(ctx, "order:1", "order:2"))
	_, hit, err = cache.Get(ctx, "order:1")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_Expiry(t *testing.T) {
	ctx := t.Context()
	cache := memory.NewCache()

	require.NoError(t, cache.Set(ctx, "order:1", []byte("payload"), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, hit, err := cache.Get(ctx, "order:1")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_ValueIsolation(t *testing.T) {
	ctx := t.Context()
	cache := memory.NewCache()

	original := []byte("payload")
	require.NoError(t, cache.Set(ctx, "order:1", original, time.Minute))
	original[0] = 'X'

	value, hit, err := cache.Get(ctx, "order:1")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte("payload"), value)

	value[0] = 'Y'
	again, _, err := cache.Get(ctx, "order:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), again)
}

func TestCache_ScanPrefix(t *testing.T) {
	ctx := t.Context()
	cache := memory.NewCache()

	require.NoError(t, cache.Set(ctx, "orders:user:u1:page:1", []byte("a"), time.Minute))
	require.NoError(t, cache.Set(ctx, "orders:user:u1:page:2", []byte("b"), time.Minute))
	require.NoError(t, cache.Set(ctx, "orders:user:u2:page:1", []byte("c"), time.Minute))

	keys, err := cache.ScanPrefix(ctx, "orders:user:u1:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"orders:user:u1:page:1", "orders:user:u1:page:2"}, keys)

	keys, err = cache.ScanPrefix(ctx, "missing:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
