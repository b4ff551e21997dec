package domain

// PatternDigest is the derived guidance enrichment hands to the generation
// agents: how long top performers run, how they open, what tone and signal
// words dominate, and which structures to recommend.
type PatternDigest struct {
	AvgWordCount          int      `json:"avg_word_count"`
	OpeningPatterns       []string `json:"opening_patterns"`
	DominantTone          string   `json:"dominant_tone"`
	VulnerabilitySignals  int      `json:"vulnerability_signals"`
	AuthoritySignals      int      `json:"authority_signals"`
	RecommendedStructures []string `json:"recommended_structures"`
	ResearchSnippets      []string `json:"research_snippets,omitempty"`
	TopPerformerCount     int      `json:"top_performer_count"`
	RelatedPostCount      int      `json:"related_post_count"`
	Confidence            int      `json:"confidence"`
	HistoricalContext     bool     `json:"historical_context"`
}

// BaselineDigest is the degraded digest used when every enrichment step
// fails. Generation proceeds on these default assumptions rather than
// aborting the job.
func BaselineDigest() PatternDigest {
	return PatternDigest{
		AvgWordCount:          180,
		OpeningPatterns:       []string{"Direct statement", "Personal anecdote"},
		DominantTone:          "professional",
		RecommendedStructures: []string{"hook-story-lesson", "problem-insight-action"},
		Confidence:            20,
	}
}
