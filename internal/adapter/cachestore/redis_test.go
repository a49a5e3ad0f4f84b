package cachestore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nextmatch/matching-engine/internal/adapter/cachestore"
	"github.com/nextmatch/matching-engine/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*cachestore.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cachestore.NewRedisCache(client, time.Hour, "matching"), mr
}

func TestRedisCache_SetGetRoundtrip(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()

	resp := domain.MatchingResponse{
		FinalScore:    0.91,
		Compatibility: domain.Excellent,
		Components:    domain.ComponentResults{Semantic: domain.ScoringResult{Score: 0.9}},
	}
	require.NoError(t, c.Set(ctx, "match_x_y", resp))

	got, ok, err := c.Get(ctx, "match_x_y")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.91, got.FinalScore)
	assert.Equal(t, domain.Excellent, got.Compatibility)
	assert.True(t, got.Cached)
}

func TestRedisCache_MissOnUnknownKey(t *testing.T) {
	c, _ := newTestRedisCache(t)
	_, ok, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_ExpiresViaRedisTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cachestore.NewRedisCache(client, 10*time.Millisecond, "matching")

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", domain.MatchingResponse{FinalScore: 0.5}))

	mr.FastForward(50 * time.Millisecond)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_ClearRemovesNamespacedKeysOnly(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cachestore.NewRedisCache(client, time.Hour, "matching")

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k1", domain.MatchingResponse{}))
	require.NoError(t, client.Set(ctx, "other:k1", "unrelated", 0).Err())

	require.NoError(t, c.Clear(ctx))

	size, err := c.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	val, err := client.Get(ctx, "other:k1").Result()
	require.NoError(t, err)
	assert.Equal(t, "unrelated", val)
}

func TestRedisCache_StatsTracksHitsAndLookups(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k1", domain.MatchingResponse{}))

	_, _, _ = c.Get(ctx, "k1")
	_, _, _ = c.Get(ctx, "missing")

	stats := c.Stats(ctx)
	assert.Equal(t, int64(2), stats.TotalLookups)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 1, stats.Size)
}
