package user

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// cachedIdentity records that a user was bootstrapped recently under a name
type cachedIdentity struct {
	Version  string
	Username string
	CachedAt time.Time
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// identityCache remembers recent registrations so repeated first-contact
// calls from the chat layer read instead of write. It never holds balances.
type identityCache struct {
	lru    *expirable.LRU[int64, *cachedIdentity]
	hits   atomic.Int64
	misses atomic.Int64
}

func newIdentityCache(size int, ttl time.Duration) *identityCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &identityCache{
		lru: expirable.NewLRU[int64, *cachedIdentity](size, nil, ttl),
	}
}

// Seen reports whether userID registered recently under username.
// Entries with a mismatched schema version are dropped.
func (c *identityCache) Seen(userID int64, username string) bool {
	entry, found := c.lru.Get(userID)
	if !found {
		c.misses.Add(1)
		return false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(userID)
		c.misses.Add(1)
		return false
	}
	if username != "" && entry.Username != username {
		c.misses.Add(1)
		return false
	}
	c.hits.Add(1)
	return true
}

func (c *identityCache) Set(userID int64, username string) {
	c.lru.Add(userID, &cachedIdentity{
		Version:  CacheSchemaVersion,
		Username: username,
		CachedAt: time.Now(),
	})
}

func (c *identityCache) Invalidate(userID int64) {
	c.lru.Remove(userID)
}

// Clear removes all entries, used after a bulk reset
func (c *identityCache) Clear() {
	c.lru.Purge()
}

func (c *identityCache) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}
