// Package gocache provides an in-memory caching decorator for vogel.Fetcher
// backed by github.com/patrickmn/go-cache.
package gocache

import (
	"context"
	"time"

	"github.com/fwojciec/vogel"
	"github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a fetched page stays cached.
const DefaultTTL = 30 * time.Minute

// Ensure CachingFetcher implements vogel.Fetcher at compile time.
var _ vogel.Fetcher = (*CachingFetcher)(nil)

// CachingFetcher serves repeated fetches of the same URL from memory.
// Only successful responses are cached.
type CachingFetcher struct {
	next  vogel.Fetcher
	cache *cache.Cache
}

// NewCachingFetcher wraps next with a cache whose entries expire after ttl.
// A non-positive ttl selects DefaultTTL.
func NewCachingFetcher(next vogel.Fetcher, ttl time.Duration) *CachingFetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachingFetcher{
		next:  next,
		cache: cache.New(ttl, ttl*2),
	}
}

// Fetch returns the cached HTML for url or delegates to the wrapped fetcher.
func (f *CachingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if cached, found := f.cache.Get(url); found {
		if html, ok := cached.(string); ok {
			return html, nil
		}
	}

	html, err := f.next.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	f.cache.Set(url, html, cache.DefaultExpiration)
	return html, nil
}

// Len returns the number of cached pages, including expired ones that have
// not been evicted yet.
func (f *CachingFetcher) Len() int {
	return f.cache.ItemCount()
}

// Close flushes the cache and closes the wrapped fetcher.
func (f *CachingFetcher) Close() error {
	f.cache.Flush()
	return f.next.Close()
}
