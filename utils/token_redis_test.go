package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisBlocklist(t *testing.T) (*RedisBlocklist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisBlocklist(client), mr
}

func TestRedisBlocklistBlocksUntilExpiry(t *testing.T) {
	blocklist, mr := setupRedisBlocklist(t)
	ctx := context.Background()

	blocked, err := blocklist.IsBlocked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, blocklist.Block(ctx, "token-a", time.Now().Add(time.Hour)))

	blocked, err = blocklist.IsBlocked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = blocklist.IsBlocked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, blocked)

	// the raw token is never stored, only its hash with a TTL
	key := blocklistKey("token-a")
	assert.True(t, mr.Exists(key))
	assert.False(t, mr.Exists(blocklistPrefix+"token-a"))
	ttl := mr.TTL(key)
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	mr.FastForward(time.Hour + time.Second)
	blocked, err = blocklist.IsBlocked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestRedisBlocklistSkipsExpiredTokens(t *testing.T) {
	blocklist, mr := setupRedisBlocklist(t)
	ctx := context.Background()

	require.NoError(t, blocklist.Block(ctx, "old", time.Now().Add(-time.Minute)))
	require.NoError(t, blocklist.Block(ctx, "now", time.Now()))

	assert.Empty(t, mr.Keys())
	blocked, err := blocklist.IsBlocked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestRedisBlocklistReportsConnectionErrors(t *testing.T) {
	blocklist, mr := setupRedisBlocklist(t)
	mr.Close()

	_, err := blocklist.IsBlocked(context.Background(), "token-a")
	assert.Error(t, err)
}
