package price

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores raw price pages keyed by their filter set so repeated
// requests inside the TTL window skip the upstream call. Implementations
// must be safe for concurrent use across requests.
type Cache interface {
	Get(ctx context.Context, key string) ([]Record, bool)
	Set(ctx context.Context, key string, records []Record)
}

// MemoryCache is an in-process TTL cache. Entries expire wholesale; there
// is no partial invalidation.
type MemoryCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	records []Record
	expires time.Time
}

// NewMemoryCache creates an in-memory cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]Record, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.records, true
}

func (c *MemoryCache) Set(_ context.Context, key string, records []Record) {
	c.mu.Lock()
	c.entries[key] = memoryEntry{records: records, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// RedisCache shares the price cache across service instances. Failures are
// treated as cache misses; the upstream API remains the source of truth.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache with the given TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Record, bool) {
	data, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false
	}
	return records, true
}

func (c *RedisCache) Set(ctx context.Context, key string, records []Record) {
	data, err := json.Marshal(records)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.redisKey(key), data, c.ttl).Err()
}

func (c *RedisCache) redisKey(key string) string {
	return fmt.Sprintf("advisor:mandi:%s", key)
}
