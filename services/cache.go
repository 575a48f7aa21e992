package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dcode-github/urban_nest/backend/logger"
	"github.com/dcode-github/urban_nest/backend/store"
)

const cachePrefix = "property:"

// PropertyCache stores rendered listing responses.
type PropertyCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
	// Invalidate drops every cached listing.
	Invalidate(ctx context.Context)
}

// CacheKey hashes the scope and the canonical filter into a property:<sha256> key.
func CacheKey(scope string, f store.PropertyFilter) string {
	sum := sha256.Sum256([]byte(scope + ":" + f.Key()))
	return cachePrefix + hex.EncodeToString(sum[:])
}

// NewPropertyCache returns a Redis backed cache, or a no-op one when client is nil.
func NewPropertyCache(client *redis.Client, ttl time.Duration) PropertyCache {
	if client == nil {
		return NopCache{}
	}
	return &redisCache{client: client, ttl: ttl}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Str("key", key).Msg("redis GET failed")
		}
		return nil, false
	}
	logger.Debug().Str("key", key).Msg("cache hit")
	return data, true
}

func (c *redisCache) Set(ctx context.Context, key string, data []byte) {
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("redis SET failed")
	}
}

func (c *redisCache) Invalidate(ctx context.Context) {
	const scanPattern = cachePrefix + "*"
	const scanCount = 100

	var keys []string
	var cursor uint64
	for {
		batch, next, err := c.client.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			logger.Error().Err(err).Str("pattern", scanPattern).Msg("redis SCAN failed")
			return
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return
	}

	pipe := c.client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error().Err(err).Int("keys", len(keys)).Msg("failed to delete property cache keys")
		return
	}
	logger.Debug().Int("keys", len(keys)).Msg("property cache invalidated")
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (NopCache) Set(context.Context, string, []byte)        {}
func (NopCache) Invalidate(context.Context)                 {}
