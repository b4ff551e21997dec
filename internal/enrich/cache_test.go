package enrich

import (
	"testing"
	"time"

	"postforge/internal/domain"
)

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache(time.Hour, 8)
	digest := domain.PatternDigest{AvgWordCount: 42}

	if _, ok := cache.Get("topic", "linkedin"); ok {
		t.Fatal("expected miss on empty cache")
	}
	cache.Set("topic", "linkedin", digest)

	got, ok := cache.Get("topic", "linkedin")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got.AvgWordCount != 42 {
		t.Fatalf("AvgWordCount = %d, want 42", got.AvgWordCount)
	}
	if _, ok := cache.Get("topic", "twitter"); ok {
		t.Fatal("source participates in the key; expected miss for other source")
	}
}

func TestCacheExpires(t *testing.T) {
	cache := NewCache(time.Hour, 8)
	now := time.Now()
	cache.now = func() time.Time { return now }

	cache.Set("topic", "linkedin", domain.PatternDigest{AvgWordCount: 42})

	now = now.Add(2 * time.Hour)
	if _, ok := cache.Get("topic", "linkedin"); ok {
		t.Fatal("expected entry to expire after TTL")
	}
}

func TestCacheBoundsEntries(t *testing.T) {
	cache := NewCache(time.Hour, 2)
	cache.Set("a", "s", domain.PatternDigest{})
	cache.Set("b", "s", domain.PatternDigest{})
	cache.Set("c", "s", domain.PatternDigest{})

	if len(cache.entries) > 2 {
		t.Fatalf("cache holds %d entries, want at most 2", len(cache.entries))
	}
}
