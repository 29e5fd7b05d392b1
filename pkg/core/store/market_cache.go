package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"deal_evaluation/pkg/core/market"
)

// MarketCache keeps scraped market snapshots in redis so the comps
// source is not re-fetched on every dashboard load.
type MarketCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMarketCache connects to redis at addr. A 15 minute TTL keeps
// snapshots fresh without hammering the comps source.
func NewMarketCache(addr string) *MarketCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &MarketCache{client: rdb, ttl: 15 * time.Minute}
}

// Ping verifies the connection.
func (c *MarketCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GetSnapshot returns the cached snapshot for a market key, nil on a miss.
func (c *MarketCache) GetSnapshot(ctx context.Context, key string) (*market.Snapshot, error) {
	val, err := c.client.Get(ctx, snapshotKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read market cache: %w", err)
	}

	var snap market.Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached snapshot: %w", err)
	}
	return &snap, nil
}

// SetSnapshot caches a snapshot under a market key.
func (c *MarketCache) SetSnapshot(ctx context.Context, key string, snap *market.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write market cache: %w", err)
	}
	return nil
}

// Close releases the redis connection.
func (c *MarketCache) Close() error {
	return c.client.Close()
}

func snapshotKey(key string) string {
	return "market:snapshot:" + key
}
