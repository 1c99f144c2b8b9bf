package domain

import (
	"context"
	"time"
)

// MetadataCache is a session-scale cache of resolved token metadata,
// keyed by token ID. Implementations must treat a miss as ErrNotFound.
// The cache only ever holds successfully resolved (non-degraded)
// documents; placeholders are recomputed on every request.
type MetadataCache interface {
	Get(ctx context.Context, tokenID uint64) (Metadata, error)
	Set(ctx context.Context, tokenID uint64, md Metadata) error
	Invalidate(ctx context.Context, tokenID uint64) error
}

// RateLimiter enforces a sliding-window request budget per key. Allow
// records the attempt and reports whether it fits inside limit
// requests over the trailing window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
