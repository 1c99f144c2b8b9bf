package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements domain.RateLimiter with a sliding window on a
// Redis sorted set per key. Members are scored by microsecond
// timestamp; each Allow drops entries older than the window, records
// the attempt, and counts what remains. Shared Redis state makes the
// limit global across replicas.
type RateLimiter struct {
	rdb *redis.Client
}

// NewRateLimiter creates a RateLimiter backed by the given client.
func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{rdb: client.Underlying()}
}

func rateKey(key string) string {
	return "ratelimit:" + key
}

// Allow records an attempt under key and reports whether it fits
// inside limit attempts over the trailing window. The attempt is
// counted even when denied, so a saturating client stays limited.
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	k := rateKey(key)

	pipe := rl.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "0", strconv.FormatInt(now.Add(-window).UnixMicro(), 10))
	pipe.ZAdd(ctx, k, redis.Z{
		Score:  float64(now.UnixMicro()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	card := pipe.ZCard(ctx, k)
	pipe.Expire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis: rate limit %s: %w", key, err)
	}
	return card.Val() <= int64(limit), nil
}
