package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mintbay/marketgate/internal/domain"
)

// MetadataCache implements domain.MetadataCache on Redis with a TTL.
type MetadataCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewMetadataCache creates a MetadataCache with the given TTL.
func NewMetadataCache(client *Client, ttl time.Duration) *MetadataCache {
	return &MetadataCache{rdb: client.Underlying(), ttl: ttl}
}

func metadataKey(tokenID uint64) string {
	return "metadata:" + strconv.FormatUint(tokenID, 10)
}

// Get returns the cached metadata, mapping a Redis miss onto
// domain.ErrNotFound.
func (c *MetadataCache) Get(ctx context.Context, tokenID uint64) (domain.Metadata, error) {
	raw, err := c.rdb.Get(ctx, metadataKey(tokenID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Metadata{}, fmt.Errorf("redis: metadata %d: %w", tokenID, domain.ErrNotFound)
		}
		return domain.Metadata{}, fmt.Errorf("redis: get metadata %d: %w", tokenID, err)
	}

	var md domain.Metadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return domain.Metadata{}, fmt.Errorf("redis: decode metadata %d: %w", tokenID, err)
	}
	return md, nil
}

// Set stores metadata with the cache TTL.
func (c *MetadataCache) Set(ctx context.Context, tokenID uint64, md domain.Metadata) error {
	raw, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("redis: encode metadata %d: %w", tokenID, err)
	}
	if err := c.rdb.Set(ctx, metadataKey(tokenID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set metadata %d: %w", tokenID, err)
	}
	return nil
}

// Invalidate drops a token's entry.
func (c *MetadataCache) Invalidate(ctx context.Context, tokenID uint64) error {
	if err := c.rdb.Del(ctx, metadataKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate metadata %d: %w", tokenID, err)
	}
	return nil
}
