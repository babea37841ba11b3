package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIdentityCache_SeenAndInvalidate(t *testing.T) {
	c := newIdentityCache(10, time.Minute)

	assert.False(t, c.Seen(1, "alice"))
	c.Set(1, "alice")
	assert.True(t, c.Seen(1, "alice"))
	assert.True(t, c.Seen(1, ""), "empty name matches any cached name")
	assert.False(t, c.Seen(1, "alicia"))

	c.Invalidate(1)
	assert.False(t, c.Seen(1, "alice"))
}

func TestIdentityCache_VersionMismatchDropsEntry(t *testing.T) {
	c := newIdentityCache(10, time.Minute)
	c.lru.Add(5, &cachedIdentity{Version: "0.9", Username: "old"})

	assert.False(t, c.Seen(5, "old"))
	assert.Zero(t, c.Stats().Size)
}

func TestIdentityCache_Expiry(t *testing.T) {
	c := newIdentityCache(10, 20*time.Millisecond)
	c.Set(1, "alice")
	assert.Eventually(t, func() bool { return !c.Seen(1, "alice") }, time.Second, 10*time.Millisecond)
}

func TestIdentityCache_Stats(t *testing.T) {
	c := newIdentityCache(0, 0)
	c.Seen(1, "a")
	c.Set(1, "a")
	c.Seen(1, "a")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}
