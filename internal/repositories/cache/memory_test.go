package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}))

	var got map[string]int
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, got["a"])

	found, err = c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetWithTTL(ctx, "k", "v", time.Second))
	now = now.Add(2 * time.Second)

	var v string
	found, _ := c.Get(ctx, "k", &v)
	assert.False(t, found)
}

func TestMemoryCache_SetNX(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	first, err := c.SetNX(ctx, GenerateKey(KeyViewDedup, "sess", uint(1)), TTLViewDedup)
	require.NoError(t, err)
	second, err := c.SetNX(ctx, GenerateKey(KeyViewDedup, "sess", uint(1)), TTLViewDedup)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	_ = c.Set(ctx, GenerateKey(KeyTrending, "all", 8), 1)
	_ = c.Set(ctx, GenerateKey(KeyTrending, "shirts", 4), 1)
	_ = c.Set(ctx, GenerateKey(KeyProductItem, "AX-1"), 1)

	require.NoError(t, c.DeletePattern(ctx, KeyTrendingPattern))

	var v int
	found, _ := c.Get(ctx, GenerateKey(KeyTrending, "all", 8), &v)
	assert.False(t, found)
	found, _ = c.Get(ctx, GenerateKey(KeyProductItem, "AX-1"), &v)
	assert.True(t, found)
}
