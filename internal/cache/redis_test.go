// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfNoRedis skips the test if Redis is not configured.
func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	url := os.Getenv("CMSADMIN_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: CMSADMIN_TEST_REDIS_URL not set")
	}
	return url
}

func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	opts := DefaultRedisCacheOptions()
	opts.URL = skipIfNoRedis(t)
	opts.Prefix = "cmsadmin-test:"
	c, err := NewRedisCache(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_Basic(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "test-key", []byte("test-value"), time.Minute))
	got, err := c.Get(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, "test-value", string(got))

	require.NoError(t, c.Delete(ctx, "test-key"))
	_, err = c.Get(ctx, "test-key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Expire(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.Expire(ctx, "absent", time.Minute), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "ttl-key", []byte("v"), time.Second))
	require.NoError(t, c.Expire(ctx, "ttl-key", time.Minute))

	ttl, err := c.client.TTL(ctx, c.prefixKey("ttl-key")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 30*time.Second)
	_ = c.Delete(ctx, "ttl-key")
}

func TestRedisCache_Ping(t *testing.T) {
	c := newTestRedisCache(t)
	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Ping(context.Background()), ErrCacheClosed)
}

func TestNewRedisCache_RequiresURL(t *testing.T) {
	_, err := NewRedisCache(RedisCacheOptions{})
	assert.Error(t, err)
}
