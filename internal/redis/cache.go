package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// MetadataCache is the process-wide cache for cross-cutting provider
// metadata. Keyed lookups with explicit TTLs only; it holds nothing the
// database owns.
type MetadataCache struct {
	client *redis.Client
	ttl    time.Duration
}

const DefaultMetadataTTL = 5 * time.Minute

func NewMetadataCache(client *redis.Client, ttl time.Duration) *MetadataCache {
	if ttl <= 0 {
		ttl = DefaultMetadataTTL
	}
	return &MetadataCache{client: client, ttl: ttl}
}

// Get unmarshals the cached value for key into dest. The second return is
// false on a miss.
func (c *MetadataCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, "meta:"+key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value under key with the cache TTL.
func (c *MetadataCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "meta:"+key, data, c.ttl).Err()
}

// Invalidate drops a cached entry.
func (c *MetadataCache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, "meta:"+key).Err()
}

// Ping checks if Redis is available.
func (c *MetadataCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
