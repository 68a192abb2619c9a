package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"vessel-match-service/internal/domain"
)

const defaultRedisPrefix = "vesselmatch:rank"

// RedisRankingCache stores rankings as JSON under a generation-scoped key.
// Purge bumps the generation counter, which orphans every earlier entry at
// once; orphans expire through their TTL.
type RedisRankingCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisRankingCache(client *redis.Client, prefix string, ttl time.Duration) *RedisRankingCache {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisRankingCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisRankingCache) genKey() string { return c.prefix + ":gen" }

func (c *RedisRankingCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, eris.Wrap(err, "redis cache: read generation")
	}
	return gen, nil
}

func (c *RedisRankingCache) entryKey(gen int64, key string) string {
	return c.prefix + ":" + strconv.FormatInt(gen, 10) + ":" + key
}

func (c *RedisRankingCache) Get(ctx context.Context, key string) ([]domain.RankedOffer, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, false, err
	}

	b, err := c.client.Get(ctx, c.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "redis cache: get")
	}

	var ranked []domain.RankedOffer
	if err := json.Unmarshal(b, &ranked); err != nil {
		return nil, false, eris.Wrap(err, "redis cache: decode entry")
	}
	return ranked, true, nil
}

func (c *RedisRankingCache) Set(ctx context.Context, key string, ranked []domain.RankedOffer) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	b, err := json.Marshal(ranked)
	if err != nil {
		return eris.Wrap(err, "redis cache: encode entry")
	}
	if err := c.client.Set(ctx, c.entryKey(gen, key), b, c.ttl).Err(); err != nil {
		return eris.Wrap(err, "redis cache: set")
	}
	return nil
}

func (c *RedisRankingCache) Purge(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.genKey()).Err(); err != nil {
		return eris.Wrap(err, "redis cache: bump generation")
	}
	return nil
}
