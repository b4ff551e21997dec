package domain

import "time"

// PerformanceTier buckets historical posts by engagement.
type PerformanceTier string

const (
	TierViral   PerformanceTier = "viral"
	TierStrong  PerformanceTier = "strong"
	TierAverage PerformanceTier = "average"
	TierLow     PerformanceTier = "low"
)

// HistoricalPost is read-only reference data: a previously published post
// with its engagement counts. The pipeline only ever reads these rows.
type HistoricalPost struct {
	ID         string
	Text       string
	PostedAt   time.Time
	Reactions  int
	Comments   int
	Reposts    int
	ViralScore int
	Tier       PerformanceTier
}
