package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

func startRedis(t *testing.T) *Cache {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	return NewCacheFromClient(client)
}

func TestCache_SetGetDelete(t *testing.T) {
	cache := startRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var got map[string]int
	require.NoError(t, cache.Get(ctx, "k", &got))
	assert.Equal(t, 1, got["a"])

	require.NoError(t, cache.Delete(ctx, "k"))
	assert.ErrorIs(t, cache.Get(ctx, "k", &got), ErrCacheMiss)
	assert.ErrorIs(t, cache.Set(ctx, "", 1, 0), ErrCacheKeyEmpty)
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(startRedis(t))
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "tok", "user-1", time.Minute))

	id, err := store.Resolve(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	require.NoError(t, store.Delete(ctx, "tok"))
	_, err = store.Resolve(ctx, "tok")
	assert.True(t, shared.IsNotAuthenticated(err))
}

func TestCategoriesCache(t *testing.T) {
	cc := NewCategoriesCache(startRedis(t))
	ctx := context.Background()

	_, ok, err := cc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cc.Set(ctx, []string{"all", "Go"}))
	cats, ok, err := cc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"all", "Go"}, cats)

	require.NoError(t, cc.Invalidate(ctx))
	_, ok, err = cc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(startRedis(t), 2, time.Hour)
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := rl.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "request %d", i)
	}

	ok, err := rl.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)
}
