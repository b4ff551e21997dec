package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"postforge/internal/domain"
)

type fakeResearcher struct {
	snippets []string
	err      error
	calls    int
}

func (f *fakeResearcher) Search(ctx context.Context, topic string) ([]string, error) {
	f.calls++
	return f.snippets, f.err
}

type fakeHistory struct {
	posts []domain.HistoricalPost
	err   error
	calls int
}

func (f *fakeHistory) ListRecent(ctx context.Context, limit int) ([]domain.HistoricalPost, error) {
	f.calls++
	return f.posts, f.err
}

func newTestService(research Researcher, history domain.HistoryRepository) *Service {
	return NewService(ServiceOptions{
		Research: research,
		History:  history,
		Logger:   zerolog.Nop(),
		CacheTTL: time.Hour,
	})
}

func TestEnrichTotalOutageYieldsBaseline(t *testing.T) {
	research := &fakeResearcher{err: errors.New("search down")}
	history := &fakeHistory{err: errors.New("db down")}
	svc := newTestService(research, history)

	digest := svc.Enrich(context.Background(), "leadership burnout", domain.PlatformLinkedIn)

	if digest.HistoricalContext {
		t.Fatal("expected HistoricalContext=false when every step fails")
	}
	baseline := domain.BaselineDigest()
	if digest.AvgWordCount != baseline.AvgWordCount {
		t.Fatalf("AvgWordCount = %d, want baseline %d", digest.AvgWordCount, baseline.AvgWordCount)
	}
}

func TestEnrichHistoryOutageKeepsResearch(t *testing.T) {
	research := &fakeResearcher{snippets: []string{"burnout is rising"}}
	history := &fakeHistory{err: errors.New("db down")}
	svc := newTestService(research, history)

	digest := svc.Enrich(context.Background(), "leadership burnout", domain.PlatformLinkedIn)

	if digest.HistoricalContext {
		t.Fatal("expected HistoricalContext=false without historical posts")
	}
	if len(digest.ResearchSnippets) != 1 {
		t.Fatalf("ResearchSnippets length = %d, want 1", len(digest.ResearchSnippets))
	}
}

func TestEnrichUsesHistoricalPosts(t *testing.T) {
	history := &fakeHistory{posts: []domain.HistoricalPost{
		{Text: "Leadership burnout is real and measurable", Reactions: 120, Comments: 40, Reposts: 12, PostedAt: time.Now()},
	}}
	svc := newTestService(&fakeResearcher{}, history)

	digest := svc.Enrich(context.Background(), "leadership burnout", domain.PlatformLinkedIn)

	if !digest.HistoricalContext {
		t.Fatal("expected HistoricalContext=true")
	}
	if digest.TopPerformerCount != 1 {
		t.Fatalf("TopPerformerCount = %d, want 1", digest.TopPerformerCount)
	}
}

func TestEnrichCacheHitShortCircuits(t *testing.T) {
	research := &fakeResearcher{snippets: []string{"snippet"}}
	history := &fakeHistory{}
	svc := newTestService(research, history)

	ctx := context.Background()
	svc.Enrich(ctx, "leadership burnout", domain.PlatformLinkedIn)
	svc.Enrich(ctx, "leadership burnout", domain.PlatformLinkedIn)

	if research.calls != 1 {
		t.Fatalf("research called %d times, want 1 (cache should short-circuit)", research.calls)
	}
	if history.calls != 1 {
		t.Fatalf("history called %d times, want 1 (cache should short-circuit)", history.calls)
	}

	// A different platform is a different cache key.
	svc.Enrich(ctx, "leadership burnout", domain.PlatformTwitter)
	if research.calls != 2 {
		t.Fatalf("research called %d times after new platform, want 2", research.calls)
	}
}
