package enrich

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"postforge/internal/domain"
)

// cacheKey derives a deterministic key from the lookup inputs so concurrent
// fills for the same (topic, source) race benignly: last writer wins.
func cacheKey(topic, source string) string {
	sum := sha256.Sum256([]byte(topic + "|" + source))
	return hex.EncodeToString(sum[:])
}

type cacheEntry struct {
	digest    domain.PatternDigest
	expiresAt time.Time
}

// Cache is a bounded in-process TTL cache for pattern digests. A hit
// short-circuits both the live research and the historical similarity
// lookup, which is the whole point: external-API spend is bounded by TTL.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func NewCache(ttl time.Duration, maxEntries int) *Cache {
	if maxEntries < 1 {
		maxEntries = 256
	}
	return &Cache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *Cache) Get(topic, source string) (domain.PatternDigest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[cacheKey(topic, source)]
	if !ok || c.now().After(entry.expiresAt) {
		return domain.PatternDigest{}, false
	}
	return entry.digest, true
}

func (c *Cache) Set(topic, source string, digest domain.PatternDigest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxEntries {
		c.evictExpired()
		// Still full after dropping expired entries: reset rather than
		// grow without bound. Digests are cheap to recompute.
		if len(c.entries) >= c.maxEntries {
			c.entries = make(map[string]cacheEntry)
		}
	}
	c.entries[cacheKey(topic, source)] = cacheEntry{digest: digest, expiresAt: c.now().Add(c.ttl)}
}

func (c *Cache) evictExpired() {
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
