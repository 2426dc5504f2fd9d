package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/quickbite/storefront/internal/models"
)

// Lister fetches the restaurant list from the upstream backend.
type Lister interface {
	ListRestaurants(ctx context.Context, filter models.RestaurantFilter) ([]models.Restaurant, error)
}

// Cache keeps the most recently fetched restaurant list plus a
// membership filter of known restaurant ids. The filter answers
// "definitely unknown" queries at order-grouping time without a
// backend round trip; a false positive only leaves an id in its own
// order group, which is the default behavior anyway.
type Cache struct {
	upstream Lister
	log      *slog.Logger

	mu     sync.RWMutex
	byID   map[string]models.Restaurant
	known  *bloom.BloomFilter
	loaded bool
}

// Minimum filter capacity so small catalogs still get a low
// false-positive rate.
const minFilterCapacity = 128

// New creates an empty cache; call Refresh to populate it.
func New(upstream Lister, log *slog.Logger) *Cache {
	return &Cache{
		upstream: upstream,
		log:      log,
	}
}

// Refresh replaces the cache contents with the current upstream list.
func (c *Cache) Refresh(ctx context.Context) error {
	restaurants, err := c.upstream.ListRestaurants(ctx, models.RestaurantFilter{})
	if err != nil {
		return err
	}

	capacity := uint(len(restaurants))
	if capacity < minFilterCapacity {
		capacity = minFilterCapacity
	}

	known := bloom.NewWithEstimates(capacity, 0.001)
	byID := make(map[string]models.Restaurant, len(restaurants))
	for _, r := range restaurants {
		known.AddString(r.ID)
		byID[r.ID] = r
	}

	c.mu.Lock()
	c.byID = byID
	c.known = known
	c.loaded = true
	c.mu.Unlock()

	c.log.Info("restaurant catalog refreshed", "restaurants", len(restaurants))
	return nil
}

// Known reports whether the id plausibly belongs to a known restaurant.
// Before the first successful refresh every non-empty id counts as
// known, since nothing can be resolved yet.
func (c *Cache) Known(id string) bool {
	if id == "" {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.loaded {
		return true
	}
	return c.known.TestString(id)
}

// Get returns a cached restaurant by id.
func (c *Cache) Get(id string) (models.Restaurant, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.byID[id]
	return r, ok
}
