package enrich

import (
	"context"
	"time"

	"postforge/internal/domain"
	"postforge/internal/infra"
)

const (
	defaultCandidateLimit = 40
	defaultTopK           = 6
	defaultRelatedK       = 24
)

// Researcher is the live research step. *ResearchClient satisfies it; tests
// substitute fakes.
type Researcher interface {
	Search(ctx context.Context, topic string) ([]string, error)
}

// ServiceOptions configures the enrichment service.
type ServiceOptions struct {
	Research       Researcher
	History        domain.HistoryRepository
	Logger         infra.Logger
	CacheTTL       time.Duration
	CandidateLimit int
	TopK           int
	RelatedK       int
}

// Service turns a topic into a pattern digest. Every step degrades
// independently: research failure means no snippets, history failure means
// no historical context, and total failure yields the baseline digest.
// Enrich never fails the pipeline.
type Service struct {
	research   Researcher
	history    domain.HistoryRepository
	logger     infra.Logger
	cache      *Cache
	candidates int
	topK       int
	relatedK   int
}

func NewService(opts ServiceOptions) *Service {
	if opts.CandidateLimit < 1 {
		opts.CandidateLimit = defaultCandidateLimit
	}
	if opts.TopK < 1 {
		opts.TopK = defaultTopK
	}
	if opts.RelatedK < 1 {
		opts.RelatedK = defaultRelatedK
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 6 * time.Hour
	}
	return &Service{
		research:   opts.Research,
		history:    opts.History,
		logger:     opts.Logger,
		cache:      NewCache(opts.CacheTTL, 512),
		candidates: opts.CandidateLimit,
		topK:       opts.TopK,
		relatedK:   opts.RelatedK,
	}
}

// Enrich computes (or recalls) the pattern digest for a topic. A cache hit
// skips the research and similarity steps entirely.
func (s *Service) Enrich(ctx context.Context, topic string, platform domain.Platform) domain.PatternDigest {
	source := string(platform)
	if digest, ok := s.cache.Get(topic, source); ok {
		s.logger.Debug().Str("topic", topic).Msg("enrich: cache hit")
		return digest
	}

	var research []string
	if s.research != nil {
		snippets, err := s.research.Search(ctx, topic)
		if err != nil {
			s.logger.Warn().Err(err).Str("topic", topic).Msg("enrich: research failed, continuing without")
		} else {
			research = snippets
		}
	}

	var top, related []domain.HistoricalPost
	if s.history != nil {
		posts, err := s.history.ListRecent(ctx, s.candidates)
		if err != nil {
			s.logger.Warn().Err(err).Str("topic", topic).Msg("enrich: historical lookup failed, continuing without")
		} else {
			top, related = RankHistorical(topic, posts, s.topK, s.relatedK)
		}
	}

	digest := DeriveDigest(top, related, research)
	s.cache.Set(topic, source, digest)
	return digest
}
