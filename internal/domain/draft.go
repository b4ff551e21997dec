package domain

import "time"

// DraftCount is the fixed number of variants a completed job must carry.
const DraftCount = 3

// FallbackVoiceFit is the fixed score stamped on substituted fallback
// drafts so they are recognizably low-confidence.
const FallbackVoiceFit = 40

// GenerationMeta records how a draft was produced. It is stored as JSON
// alongside the draft body and surfaced verbatim to clients.
type GenerationMeta struct {
	ModelID               string `json:"model_id"`
	TokenCount            int    `json:"token_count"`
	LatencyMS             int64  `json:"latency_ms"`
	Fallback              bool   `json:"fallback"`
	HistoricalContextUsed bool   `json:"historical_context_used"`
	HistoricalPostsUsed   int    `json:"historical_posts_used"`
}

// Draft is one accepted output variant of a job. Drafts are write-once:
// created by a successful agent run (or fallback substitution) and never
// mutated afterwards.
type Draft struct {
	ID            string
	JobID         string
	VariantNumber int
	AgentName     string
	Body          string
	Hashtags      []string
	VoiceFit      int
	Meta          GenerationMeta
	CreatedAt     time.Time
}
