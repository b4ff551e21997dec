package domain

import "time"

// JobStatus enumerates job lifecycle states as observed by polling clients.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status will never change again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Progress checkpoints reported while a job moves through the pipeline.
// Clients see these values grow monotonically; the store keeps the
// high-water mark so a retried attempt can never appear to move backwards.
const (
	ProgressJobCreated   = 10
	ProgressEnriched     = 40
	ProgressAgentFloor   = 50
	ProgressAgentCeiling = 95
	ProgressBeforeCommit = 98
	ProgressComplete     = 100
)

// Job is the durable, client-visible record of a generation request. The
// job id is the canonical identity; QueueTaskID links back to the queue
// task that produced it and stays valid after the task has been pruned.
type Job struct {
	ID           string
	QueueTaskID  string
	Status       JobStatus
	Progress     int
	Topic        string
	Platform     Platform
	UserID       string
	DigestJSON   []byte
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// JobStats aggregates job counts per status for the stats endpoint.
type JobStats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
}
