// Package memory implements the metadata cache in process memory.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mintbay/marketgate/internal/domain"
)

type entry struct {
	md        domain.Metadata
	expiresAt time.Time
}

// MetadataCache is a TTL cache of resolved metadata keyed by token ID.
// It is safe for concurrent use.
type MetadataCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[uint64]entry
}

// NewMetadataCache creates a cache whose entries expire after ttl.
func NewMetadataCache(ttl time.Duration) *MetadataCache {
	return &MetadataCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uint64]entry),
	}
}

// Get returns the cached metadata, or domain.ErrNotFound on a miss or
// an expired entry.
func (c *MetadataCache) Get(_ context.Context, tokenID uint64) (domain.Metadata, error) {
	c.mu.RLock()
	e, ok := c.entries[tokenID]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		return domain.Metadata{}, fmt.Errorf("memory: metadata %d: %w", tokenID, domain.ErrNotFound)
	}
	return e.md, nil
}

// Set stores metadata for a token.
func (c *MetadataCache) Set(_ context.Context, tokenID uint64, md domain.Metadata) error {
	c.mu.Lock()
	c.entries[tokenID] = entry{md: md, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

// Invalidate drops a token's entry.
func (c *MetadataCache) Invalidate(_ context.Context, tokenID uint64) error {
	c.mu.Lock()
	delete(c.entries, tokenID)
	c.mu.Unlock()
	return nil
}
