package cachestore_test

import (
	"context"
	"testing"
	"time"

	"github.com/nextmatch/matching-engine/internal/adapter/cachestore"
	"github.com/nextmatch/matching-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetRoundtrip(t *testing.T) {
	c := cachestore.NewMemoryCache(time.Hour, 0)
	ctx := context.Background()

	resp := domain.MatchingResponse{FinalScore: 0.82, Compatibility: domain.Good}
	require.NoError(t, c.Set(ctx, "k1", resp))

	got, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.82, got.FinalScore)
	assert.True(t, got.Cached)
}

func TestMemoryCache_MissOnUnknownKey(t *testing.T) {
	c := cachestore.NewMemoryCache(time.Hour, 0)
	_, ok, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_P4_EquivalenceWithinTTL(t *testing.T) {
	c := cachestore.NewMemoryCache(time.Hour, 0)
	ctx := context.Background()
	resp := domain.MatchingResponse{
		FinalScore:    0.77,
		Compatibility: domain.Good,
		Weighting:     domain.WeightingResult{ListeningReason: domain.SalaryTooLow},
	}
	require.NoError(t, c.Set(ctx, "match_a_b", resp))

	first, _, _ := c.Get(ctx, "match_a_b")
	second, _, _ := c.Get(ctx, "match_a_b")

	assert.Equal(t, first.FinalScore, second.FinalScore)
	assert.Equal(t, first.Compatibility, second.Compatibility)
	assert.Equal(t, first.Weighting, second.Weighting)
}

func TestMemoryCache_ExpiresAfterTTL(t *testing.T) {
	c := cachestore.NewMemoryCache(10*time.Millisecond, 0)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", domain.MatchingResponse{FinalScore: 0.5}))

	time.Sleep(30 * time.Millisecond)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_FIFOEvictionWhenBounded(t *testing.T) {
	c := cachestore.NewMemoryCache(time.Hour, 2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", domain.MatchingResponse{FinalScore: 0.1}))
	require.NoError(t, c.Set(ctx, "k2", domain.MatchingResponse{FinalScore: 0.2}))
	require.NoError(t, c.Set(ctx, "k3", domain.MatchingResponse{FinalScore: 0.3}))

	_, ok, _ := c.Get(ctx, "k1")
	assert.False(t, ok, "oldest entry should have been evicted")

	_, ok, _ = c.Get(ctx, "k3")
	assert.True(t, ok)

	size, err := c.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}

func TestMemoryCache_ClearRemovesEverything(t *testing.T) {
	c := cachestore.NewMemoryCache(time.Hour, 0)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k1", domain.MatchingResponse{}))
	require.NoError(t, c.Clear(ctx))

	size, err := c.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestMemoryCache_StatsTracksHitsAndLookups(t *testing.T) {
	c := cachestore.NewMemoryCache(time.Hour, 0)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k1", domain.MatchingResponse{}))

	_, _, _ = c.Get(ctx, "k1")
	_, _, _ = c.Get(ctx, "missing")

	stats := c.Stats(ctx)
	assert.Equal(t, int64(2), stats.TotalLookups)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 1, stats.Size)
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := cachestore.NewMemoryCache(time.Hour, 0)
	ctx := context.Background()
	done := make(chan struct{})

	for i := 0; i < 20; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			_ = c.Set(ctx, "k", domain.MatchingResponse{FinalScore: float64(n) / 20})
			_, _, _ = c.Get(ctx, "k")
		}(i)
	}
	for i := 0; i < 20; i++ {
		<-done
	}
}
