// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMemoryCache returns a cache with a controllable clock.
func newTestMemoryCache(ttl time.Duration) (*MemoryCache, *time.Time) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: ttl})
	c.now = func() time.Time { return now }
	return c, &now
}

func TestMemoryCache_BasicOperations(t *testing.T) {
	c, _ := newTestMemoryCache(time.Hour)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), 0))

	val, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", string(val))

	require.NoError(t, c.Delete(ctx, "key1"))
	_, err = c.Get(ctx, "key1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c, _ := newTestMemoryCache(time.Hour)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	src := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", src, 0))
	src[0] = 'x'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	got[1] = 'y'

	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestMemoryCache_Expiration(t *testing.T) {
	c, now := newTestMemoryCache(30 * time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "session", []byte("id"), 0))

	*now = now.Add(29 * time.Minute)
	_, err := c.Get(ctx, "session")
	require.NoError(t, err)

	*now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, "session")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Expire(t *testing.T) {
	c, now := newTestMemoryCache(30 * time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	assert.ErrorIs(t, c.Expire(ctx, "missing", 0), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "session", []byte("id"), 0))
	*now = now.Add(20 * time.Minute)
	require.NoError(t, c.Expire(ctx, "session", 0))

	// 40 minutes after Set, but only 20 after the refresh.
	*now = now.Add(20 * time.Minute)
	val, err := c.Get(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, "id", string(val))
}

func TestMemoryCache_RemoveExpired(t *testing.T) {
	c, now := newTestMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("a"), 0))
	require.NoError(t, c.Set(ctx, "long", []byte("b"), time.Hour))

	*now = now.Add(2 * time.Minute)
	c.removeExpired()
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_Closed(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{CleanupInterval: time.Millisecond})
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	ctx := context.Background()
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheClosed)
	assert.ErrorIs(t, c.Set(ctx, "k", nil, 0), ErrCacheClosed)
	assert.ErrorIs(t, c.Expire(ctx, "k", 0), ErrCacheClosed)
	assert.ErrorIs(t, c.Delete(ctx, "k"), ErrCacheClosed)
}

func TestMemoryCache_Stats(t *testing.T) {
	c, _ := newTestMemoryCache(time.Hour)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "missing")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.InDelta(t, 50.0, stats.HitRate, 0.001)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, "shared", []byte("v"), 0)
			_, _ = c.Get(ctx, "shared")
			_ = c.Expire(ctx, "shared", 0)
		}()
	}
	wg.Wait()

	val, err := c.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "v", string(val))
}
