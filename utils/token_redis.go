package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis/v8"
)

const blocklistPrefix = "blocklist:"

// RedisBlocklist keeps revoked tokens in Redis so every server instance
// sees a logout.
type RedisBlocklist struct {
	client *redis.Client
}

func NewRedisBlocklist(client *redis.Client) *RedisBlocklist {
	return &RedisBlocklist{client: client}
}

func (b *RedisBlocklist) Block(ctx context.Context, token string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, blocklistKey(token), "1", ttl).Err()
}

func (b *RedisBlocklist) IsBlocked(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, blocklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func blocklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blocklistPrefix + hex.EncodeToString(sum[:])
}
