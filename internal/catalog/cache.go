package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/CaseBot_Go/internal/domain"
	"github.com/osse101/CaseBot_Go/internal/logger"
	"github.com/osse101/CaseBot_Go/internal/repository"
)

const activeCasesKey = "active"

// Cache is a read-through cache over the stored catalog with time-based
// expiration. It satisfies lootbox.ItemPool and the economy's catalog
// lookups. Misses for unknown ids are not cached.
type Cache struct {
	repo repository.Catalog

	items  *expirable.LRU[int64, domain.Item]
	cases  *expirable.LRU[int64, domain.Case]
	tiers  *expirable.LRU[domain.Rarity, []domain.Item]
	active *expirable.LRU[string, []domain.Case]

	// serializes tier rebuilds so a cold cache lists items once
	fill sync.Mutex
}

// NewCache wraps repo. size bounds the per-id maps; ttl bounds staleness.
func NewCache(repo repository.Catalog, size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		repo:   repo,
		items:  expirable.NewLRU[int64, domain.Item](size, nil, ttl),
		cases:  expirable.NewLRU[int64, domain.Case](size, nil, ttl),
		tiers:  expirable.NewLRU[domain.Rarity, []domain.Item](len(domain.Rarities), nil, ttl),
		active: expirable.NewLRU[string, []domain.Case](1, nil, ttl),
	}
}

// ItemsByRarity returns every catalog item of the tier, ordered by id
func (c *Cache) ItemsByRarity(ctx context.Context, rarity domain.Rarity) ([]domain.Item, error) {
	if items, ok := c.tiers.Get(rarity); ok {
		return items, nil
	}

	c.fill.Lock()
	defer c.fill.Unlock()
	if items, ok := c.tiers.Get(rarity); ok {
		return items, nil
	}

	all, err := c.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	byTier := make(map[domain.Rarity][]domain.Item, len(domain.Rarities))
	for _, it := range all {
		byTier[it.Rarity] = append(byTier[it.Rarity], it)
		c.items.Add(it.ID, it)
	}
	for _, tier := range domain.Rarities {
		c.tiers.Add(tier, byTier[tier])
	}
	return byTier[rarity], nil
}

// GetCase returns the case or nil when it does not exist
func (c *Cache) GetCase(ctx context.Context, caseID int64) (*domain.Case, error) {
	if cs, ok := c.cases.Get(caseID); ok {
		return &cs, nil
	}
	cs, err := c.repo.GetCase(ctx, caseID)
	if err != nil || cs == nil {
		return cs, err
	}
	c.cases.Add(caseID, *cs)
	return cs, nil
}

// GetItem returns the item or nil when it does not exist
func (c *Cache) GetItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	if it, ok := c.items.Get(itemID); ok {
		return &it, nil
	}
	it, err := c.repo.GetItem(ctx, itemID)
	if err != nil || it == nil {
		return it, err
	}
	c.items.Add(itemID, *it)
	return it, nil
}

// ListActiveCases returns the active cases in ascending id order
func (c *Cache) ListActiveCases(ctx context.Context) ([]domain.Case, error) {
	if cases, ok := c.active.Get(activeCasesKey); ok {
		return cases, nil
	}
	cases, err := c.repo.ListActiveCases(ctx)
	if err != nil {
		return nil, err
	}
	c.active.Add(activeCasesKey, cases)
	return cases, nil
}

// Purge drops every cached entry, typically after a catalog sync
func (c *Cache) Purge(ctx context.Context) {
	c.items.Purge()
	c.cases.Purge()
	c.tiers.Purge()
	c.active.Purge()
	logger.FromContext(ctx).Debug(LogMsgCachePurged)
}
