package memory

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is an in-process sliding-window limiter, used when no
// Redis backend is configured. State is per instance, so limits apply
// per replica rather than globally.
type RateLimiter struct {
	now func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewRateLimiter creates an empty limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		now:  time.Now,
		hits: make(map[string][]time.Time),
	}
}

// Allow records an attempt under key and reports whether it fits
// inside limit attempts over the trailing window.
func (rl *RateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := rl.now()
	cutoff := now.Add(-window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	kept := rl.hits[key][:0]
	for _, t := range rl.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= limit {
		rl.hits[key] = kept
		return false, nil
	}
	rl.hits[key] = append(kept, now)
	return true, nil
}
