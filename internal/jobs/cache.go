package jobs

import (
	"context"
	"sync"

	"resume-ats/internal/shared/util"
)

// Cache stores parsed job descriptions keyed by a digest of the raw text.
type Cache interface {
	Get(ctx context.Context, key string) (ParsedJobDescription, bool, error)
	Put(ctx context.Context, key string, parsed ParsedJobDescription) error
}

// CacheKey returns the cache key for raw job text.
func CacheKey(text string) string {
	return util.HashKey(text)
}

// MemoryCache is an in-process Cache safe for concurrent use.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]ParsedJobDescription
}

// NewMemoryCache constructs a MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]ParsedJobDescription)}
}

// Get returns the cached value for key, if any.
func (c *MemoryCache) Get(ctx context.Context, key string) (ParsedJobDescription, bool, error) {
	if err := ctx.Err(); err != nil {
		return ParsedJobDescription{}, false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	parsed, ok := c.data[key]
	if !ok {
		return ParsedJobDescription{}, false, nil
	}
	return clone(parsed), true, nil
}

// Put stores parsed under key.
func (c *MemoryCache) Put(ctx context.Context, key string, parsed ParsedJobDescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = clone(parsed)
	return nil
}

func clone(p ParsedJobDescription) ParsedJobDescription {
	p.Skills = append([]string{}, p.Skills...)
	p.Responsibilities = append([]string{}, p.Responsibilities...)
	return p
}
