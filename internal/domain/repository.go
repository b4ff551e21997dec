package domain

import "context"

// JobRepository defines persistence for job records.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	SetProcessing(ctx context.Context, jobID string) error
	SetProgress(ctx context.Context, jobID string, progress int) error
	SetDigest(ctx context.Context, jobID string, digestJSON []byte) error
	Complete(ctx context.Context, jobID string) error
	Fail(ctx context.Context, jobID, reason string) error
	GetByID(ctx context.Context, jobID string) (*Job, error)
	GetByQueueTaskID(ctx context.Context, taskID string) (*Job, error)
	Stats(ctx context.Context) (*JobStats, error)
}

// DraftRepository persists generated variants. Save must be idempotent per
// (job id, variant number) so a reclaimed task can replay safely.
type DraftRepository interface {
	Save(ctx context.Context, draft *Draft) error
	ListByJobID(ctx context.Context, jobID string) ([]Draft, error)
}

// HistoryRepository reads the historical reference posts used by enrichment.
type HistoryRepository interface {
	ListRecent(ctx context.Context, limit int) ([]HistoricalPost, error)
}
