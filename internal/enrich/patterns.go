package enrich

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"postforge/internal/domain"
)

// Engagement weighting. The exact weights are product policy; the contract
// is monotonicity in each count and a score bounded to [0, 100].
const (
	weightReaction = 1
	weightComment  = 3
	weightRepost   = 4

	// Saturation constant: the weighted sum at which a post scores 50.
	viralMidpoint = 150.0
)

// ViralScore maps engagement counts onto [0, 100] with a saturating curve:
// strictly increasing in every input, asymptotic to 100.
func ViralScore(reactions, comments, reposts int) int {
	if reactions < 0 {
		reactions = 0
	}
	if comments < 0 {
		comments = 0
	}
	if reposts < 0 {
		reposts = 0
	}
	w := float64(weightReaction*reactions + weightComment*comments + weightRepost*reposts)
	return int(100 * w / (w + viralMidpoint))
}

// TierFor buckets a viral score.
func TierFor(score int) domain.PerformanceTier {
	switch {
	case score >= 75:
		return domain.TierViral
	case score >= 50:
		return domain.TierStrong
	case score >= 25:
		return domain.TierAverage
	default:
		return domain.TierLow
	}
}

// relevance is a token-overlap score between the topic and a post text.
func relevance(topicTokens map[string]struct{}, text string) int {
	matched := 0
	for _, tok := range tokenize(text) {
		if _, ok := topicTokens[tok]; ok {
			matched++
		}
	}
	return matched
}

func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()[]#")
		if len(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// RankHistorical orders candidate posts by topical relevance, breaking ties
// by engagement, and splits them into top performers and a broader related
// set.
func RankHistorical(topic string, posts []domain.HistoricalPost, topK, relatedK int) (top, related []domain.HistoricalPost) {
	topicTokens := make(map[string]struct{})
	for _, tok := range tokenize(topic) {
		topicTokens[tok] = struct{}{}
	}

	type ranked struct {
		post      domain.HistoricalPost
		relevance int
	}
	candidates := make([]ranked, 0, len(posts))
	for _, p := range posts {
		if p.ViralScore == 0 {
			p.ViralScore = ViralScore(p.Reactions, p.Comments, p.Reposts)
		}
		if p.Tier == "" {
			p.Tier = TierFor(p.ViralScore)
		}
		candidates = append(candidates, ranked{post: p, relevance: relevance(topicTokens, p.Text)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].relevance != candidates[j].relevance {
			return candidates[i].relevance > candidates[j].relevance
		}
		return candidates[i].post.ViralScore > candidates[j].post.ViralScore
	})

	for i, c := range candidates {
		if i < topK {
			top = append(top, c.post)
		} else if i < topK+relatedK {
			related = append(related, c.post)
		} else {
			break
		}
	}
	return top, related
}

var vulnerabilityWords = []string{
	"struggled", "failed", "afraid", "mistake", "honest", "vulnerable", "burnout", "doubt",
}

var authorityWords = []string{
	"proven", "framework", "strategy", "data", "results", "research", "playbook", "metric",
}

var openingTitler = cases.Title(language.English)

// openingPattern normalizes the head of a post's first sentence into a
// short, comparable label.
func openingPattern(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	sentence := text
	for _, stop := range []string{". ", "? ", "! ", "\n"} {
		if idx := strings.Index(sentence, stop); idx > 0 {
			sentence = sentence[:idx+1]
		}
	}
	words := strings.Fields(sentence)
	if len(words) > 6 {
		words = words[:6]
	}
	head := strings.Trim(strings.Join(words, " "), ".?!")
	return openingTitler.String(strings.ToLower(head))
}

// DeriveDigest computes the pattern digest from ranked historical posts and
// research snippets.
func DeriveDigest(top, related []domain.HistoricalPost, research []string) domain.PatternDigest {
	if len(top) == 0 && len(research) == 0 {
		return domain.BaselineDigest()
	}

	digest := domain.BaselineDigest()
	digest.ResearchSnippets = research
	digest.TopPerformerCount = len(top)
	digest.RelatedPostCount = len(related)
	digest.HistoricalContext = len(top) > 0

	if len(top) > 0 {
		totalWords := 0
		vulnerability := 0
		authority := 0
		openings := make([]string, 0, len(top))
		seen := make(map[string]struct{})
		for _, p := range top {
			totalWords += len(strings.Fields(p.Text))
			lower := strings.ToLower(p.Text)
			for _, w := range vulnerabilityWords {
				vulnerability += strings.Count(lower, w)
			}
			for _, w := range authorityWords {
				authority += strings.Count(lower, w)
			}
			if op := openingPattern(p.Text); op != "" {
				if _, dup := seen[op]; !dup {
					seen[op] = struct{}{}
					openings = append(openings, op)
				}
			}
		}
		digest.AvgWordCount = totalWords / len(top)
		digest.VulnerabilitySignals = vulnerability
		digest.AuthoritySignals = authority
		if len(openings) > 0 {
			digest.OpeningPatterns = openings
		}
		if vulnerability > authority {
			digest.DominantTone = "personal"
			digest.RecommendedStructures = []string{"hook-story-lesson", "confession-insight"}
		} else {
			digest.DominantTone = "authoritative"
			digest.RecommendedStructures = []string{"claim-evidence-action", "problem-insight-action"}
		}
	}

	digest.Confidence = confidence(len(top) + len(related))
	return digest
}

// confidence grows with sample size and is clamped to [0, 100].
func confidence(samples int) int {
	if samples < 0 {
		samples = 0
	}
	c := 20 + samples*6
	if c > 100 {
		c = 100
	}
	return c
}
