package redis_a_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/retailtools/item-inspector/internal/adapters/redis_adapter"
	"github.com/retailtools/item-inspector/internal/core/domain"
	"github.com/retailtools/item-inspector/test/helpers"
)

func TestCache_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := redis_a.NewCache(client, 5*time.Minute, helpers.TestLogger())

	snap := helpers.CreateTestSnapshot()
	key := redis_a.BuildKey(redis_a.PrefixSnapshot, snap.Item.ItemCode)

	require.NoError(t, cache.Set(ctx, key, snap))

	var got domain.Snapshot
	require.NoError(t, cache.Get(ctx, key, &got))

	assert.Equal(t, snap.Item.ItemCode, got.Item.ItemCode)
	require.Len(t, got.Bins, 2)
	assert.InDelta(t, 15, got.Bins[0].ActualQty.Float64(), 1e-9)
	assert.Len(t, got.PriceHistory, 3)
	require.NotNil(t, got.SellingPrice)
	assert.InDelta(t, 20, got.SellingPrice.Price.Float64(), 1e-9)
}

func TestCache_GetMiss(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := redis_a.NewCache(client, 5*time.Minute, helpers.TestLogger())

	var dest string
	err := cache.Get(ctx, redis_a.BuildKey(redis_a.PrefixSnapshot, "NOPE"), &dest)
	assert.ErrorIs(t, err, redis_a.ErrCacheMiss)
}

func TestCache_GetOrSet(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := redis_a.NewCache(client, 5*time.Minute, helpers.TestLogger())

	key := redis_a.BuildKey(redis_a.PrefixSnapshot, "WIDGET-01")
	fetchCalls := 0
	fetch := func() (interface{}, error) {
		fetchCalls++
		return helpers.CreateTestSnapshot(), nil
	}

	var first domain.Snapshot
	require.NoError(t, cache.GetOrSet(ctx, key, &first, fetch, time.Minute))
	assert.Equal(t, 1, fetchCalls)
	assert.Equal(t, "WIDGET-01", first.Item.ItemCode)

	// Second call hits the cache; fetch must not run again.
	var second domain.Snapshot
	require.NoError(t, cache.GetOrSet(ctx, key, &second, fetch, time.Minute))
	assert.Equal(t, 1, fetchCalls)
	assert.Equal(t, "WIDGET-01", second.Item.ItemCode)
}

func TestCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := redis_a.NewCache(client, 5*time.Minute, helpers.TestLogger())

	require.NoError(t, cache.Set(ctx, redis_a.BuildKey(redis_a.PrefixResolution, "111"), "A1"))
	require.NoError(t, cache.Set(ctx, redis_a.BuildKey(redis_a.PrefixResolution, "222"), "A2"))
	require.NoError(t, cache.Set(ctx, redis_a.BuildKey(redis_a.PrefixSnapshot, "WIDGET-01"), "keep"))

	require.NoError(t, cache.DeletePattern(ctx, string(redis_a.PrefixResolution)+":*"))

	var dest string
	assert.ErrorIs(t, cache.Get(ctx, redis_a.BuildKey(redis_a.PrefixResolution, "111"), &dest), redis_a.ErrCacheMiss)
	assert.NoError(t, cache.Get(ctx, redis_a.BuildKey(redis_a.PrefixSnapshot, "WIDGET-01"), &dest))
}

func TestCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := redis_a.NewCache(client, 5*time.Minute, helpers.TestLogger())

	key := redis_a.BuildKey(redis_a.PrefixSnapshot, "WIDGET-01")
	require.NoError(t, cache.SetWithTTL(ctx, key, "value", time.Minute))

	ttl, err := cache.TTL(ctx, key)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	// miniredis advances time manually.
	mr.FastForward(2 * time.Minute)

	var dest string
	assert.ErrorIs(t, cache.Get(ctx, key, &dest), redis_a.ErrCacheMiss)
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "snap:WIDGET-01", redis_a.BuildKey(redis_a.PrefixSnapshot, "WIDGET-01"))
	assert.Equal(t, "barcode:123:456", redis_a.BuildKey(redis_a.PrefixResolution, "123", "456"))
}
