package app

import (
	"context"
	"time"

	"tourguide/internal/domain"
)

const catalogCacheKey = "attractions:all"

// CachedCatalog is a read-through cache in front of the attraction catalog.
type CachedCatalog struct {
	next  domain.AttractionCatalog
	cache domain.Cache
	ttl   time.Duration
}

func NewCachedCatalog(next domain.AttractionCatalog, c domain.Cache, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{next: next, cache: c, ttl: ttl}
}

func (c *CachedCatalog) ListAttractions(ctx context.Context) ([]domain.Attraction, error) {
	var out []domain.Attraction
	if ok, _ := c.cache.Get(ctx, catalogCacheKey, &out); ok {
		return out, nil
	}
	out, err := c.next.ListAttractions(ctx)
	if err != nil {
		return nil, err
	}
	// an empty catalog is not cached so a late-loaded catalog shows up on the next call
	if len(out) > 0 {
		_ = c.cache.Set(ctx, catalogCacheKey, out, c.ttl)
	}
	return out, nil
}

// Invalidate drops the cached catalog.
func (c *CachedCatalog) Invalidate(ctx context.Context) error {
	return c.cache.Del(ctx, catalogCacheKey)
}
