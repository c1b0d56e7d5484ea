package rates

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "rates:active"

// Cache stores rate table snapshots in Redis as JSON. A nil client or
// non-positive TTL disables caching entirely, which keeps the default
// load-fresh-per-calculation behaviour.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached entries if present. It reports whether the key existed.
func (c *Cache) Get(ctx context.Context) (map[string]Entry, bool, error) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

// Set serialises the entries and stores them with the configured TTL.
func (c *Cache) Set(ctx context.Context, entries map[string]Entry) error {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey, data, c.ttl).Err()
}
