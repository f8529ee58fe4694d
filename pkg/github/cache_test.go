package github_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	t.Parallel()

	cache := github.NewMemoryCache(10)
	ctx := context.Background()

	entry := &github.CacheEntry{
		Body:     []byte(`[{"id": 1}]`),
		ETag:     `W/"abc"`,
		StoredAt: time.Now(),
	}

	require.NoError(t, cache.Set(ctx, "https://api.github.com/repos/a/b", entry))

	got, err := cache.Get(ctx, "https://api.github.com/repos/a/b")
	require.NoError(t, err)
	assert.Equal(t, `W/"abc"`, got.ETag)
	assert.True(t, cache.Has(ctx, "https://api.github.com/repos/a/b"))
}

func TestMemoryCacheMiss(t *testing.T) {
	t.Parallel()

	cache := github.NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, github.ErrCacheMiss)
}

func TestMemoryCacheExpiredEntryIsMiss(t *testing.T) {
	t.Parallel()

	cache := github.NewMemoryCache(10)
	ctx := context.Background()

	entry := &github.CacheEntry{
		Body:      []byte("stale"),
		StoredAt:  time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	require.NoError(t, cache.Set(ctx, "key", entry))

	_, err := cache.Get(ctx, "key")
	assert.ErrorIs(t, err, github.ErrCacheMiss)
	assert.False(t, cache.Has(ctx, "key"))
}

func TestMemoryCacheEvictsOldestAtCapacity(t *testing.T) {
	t.Parallel()

	cache := github.NewMemoryCache(2)
	ctx := context.Background()

	base := time.Now()

	for i := range 3 {
		entry := &github.CacheEntry{
			Body:     []byte{byte(i)},
			StoredAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("key-%d", i), entry))
	}

	_, err := cache.Get(ctx, "key-0")
	assert.ErrorIs(t, err, github.ErrCacheMiss)
	assert.True(t, cache.Has(ctx, "key-1"))
	assert.True(t, cache.Has(ctx, "key-2"))
}

func TestMemoryCacheClear(t *testing.T) {
	t.Parallel()

	cache := github.NewMemoryCache(10)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", &github.CacheEntry{StoredAt: time.Now()}))
	require.NoError(t, cache.Clear(ctx))

	assert.False(t, cache.Has(ctx, "key"))
}

func TestNoOpCacheAlwaysMisses(t *testing.T) {
	t.Parallel()

	cache := github.NewNoOpCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", &github.CacheEntry{}))

	_, err := cache.Get(ctx, "key")
	assert.ErrorIs(t, err, github.ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "key"))
}

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()

	memory, err := github.NewCacheFromConfig(&github.CacheConfig{Type: github.CacheTypeMemory})
	require.NoError(t, err)
	assert.IsType(t, &github.MemoryCache{}, memory)

	none, err := github.NewCacheFromConfig(&github.CacheConfig{Type: github.CacheTypeNone})
	require.NoError(t, err)
	assert.IsType(t, &github.NoOpCache{}, none)

	defaulted, err := github.NewCacheFromConfig(nil)
	require.NoError(t, err)
	assert.IsType(t, &github.MemoryCache{}, defaulted)

	_, err = github.NewCacheFromConfig(&github.CacheConfig{Type: github.CacheTypeNATS})
	assert.ErrorIs(t, err, github.ErrNATSConfigRequired)

	_, err = github.NewCacheFromConfig(&github.CacheConfig{Type: "bogus"})
	assert.ErrorIs(t, err, github.ErrUnsupportedCacheType)
}
