package persistence

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/andrescamacho/tradeups-go/internal/domain/catalog"
	"github.com/andrescamacho/tradeups-go/internal/domain/condition"
)

// CachedCatalog memoizes catalog lookups for the duration of a generation pass.
// Lookup misses are cached too so a missing price is only queried once.
// Store failures are never cached.
type CachedCatalog struct {
	inner catalog.Reader
	cache *gocache.Cache
}

type cachedMiss struct {
	err error
}

// NewCachedCatalog wraps reader; entries expire after ttl (0 keeps them for the cache lifetime)
func NewCachedCatalog(reader catalog.Reader, ttl time.Duration) *CachedCatalog {
	expiration := ttl
	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	return &CachedCatalog{
		inner: reader,
		cache: gocache.New(expiration, 10*time.Minute),
	}
}

func (c *CachedCatalog) ItemsByRarity(ctx context.Context, rarity catalog.Rarity) ([]*catalog.Item, error) {
	return cached(c, fmt.Sprintf("items:r%d", rarity), func() ([]*catalog.Item, error) {
		return c.inner.ItemsByRarity(ctx, rarity)
	})
}

func (c *CachedCatalog) ItemsByContainerAndRarity(ctx context.Context, containerID int, rarity catalog.Rarity) ([]*catalog.Item, error) {
	return cached(c, fmt.Sprintf("items:c%d:r%d", containerID, rarity), func() ([]*catalog.Item, error) {
		return c.inner.ItemsByContainerAndRarity(ctx, containerID, rarity)
	})
}

func (c *CachedCatalog) ItemByID(ctx context.Context, itemID int) (*catalog.Item, error) {
	return cached(c, fmt.Sprintf("item:%d", itemID), func() (*catalog.Item, error) {
		return c.inner.ItemByID(ctx, itemID)
	})
}

func (c *CachedCatalog) ContainerByID(ctx context.Context, containerID int) (*catalog.Container, error) {
	return cached(c, fmt.Sprintf("container:%d", containerID), func() (*catalog.Container, error) {
		return c.inner.ContainerByID(ctx, containerID)
	})
}

func (c *CachedCatalog) Containers(ctx context.Context) ([]*catalog.Container, error) {
	return cached(c, "containers", func() ([]*catalog.Container, error) {
		return c.inner.Containers(ctx)
	})
}

func (c *CachedCatalog) Cheapest(ctx context.Context, containerID int, rarity catalog.Rarity, tier condition.Tier) (*catalog.Cheapest, error) {
	return cached(c, fmt.Sprintf("cheapest:c%d:r%d:t%d", containerID, rarity, tier), func() (*catalog.Cheapest, error) {
		return c.inner.Cheapest(ctx, containerID, rarity, tier)
	})
}

func (c *CachedCatalog) PriceQuote(ctx context.Context, itemID int, tier condition.Tier) (*catalog.PriceQuote, error) {
	return cached(c, fmt.Sprintf("quote:%d:t%d", itemID, tier), func() (*catalog.PriceQuote, error) {
		return c.inner.PriceQuote(ctx, itemID, tier)
	})
}

// Flush drops every cached entry
func (c *CachedCatalog) Flush() {
	c.cache.Flush()
}

// ItemCount returns the number of cached entries, expired ones included
func (c *CachedCatalog) ItemCount() int {
	return c.cache.ItemCount()
}

func cached[T any](c *CachedCatalog, key string, load func() (T, error)) (T, error) {
	if v, ok := c.cache.Get(key); ok {
		if miss, isMiss := v.(cachedMiss); isMiss {
			var zero T
			return zero, miss.err
		}
		return v.(T), nil
	}

	v, err := load()
	if err != nil {
		if catalog.IsMissingData(err) {
			c.cache.SetDefault(key, cachedMiss{err: err})
		}
		return v, err
	}
	c.cache.SetDefault(key, v)
	return v, nil
}
