package repo

import (
	"context"
	"fmt"

	"postforge/internal/domain"
	"postforge/internal/infra"
	"postforge/internal/sqlinline"
)

// JobRepositoryPG implements domain.JobRepository over Postgres.
type JobRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(sql infra.SQLExecutor) *JobRepositoryPG {
	return &JobRepositoryPG{sql: sql}
}

// Create inserts a new job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.Job) error {
	if job.Status == "" {
		job.Status = domain.JobStatusPending
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertJob,
		job.ID,
		nullableString(job.QueueTaskID),
		job.Status,
		job.Progress,
		job.Topic,
		job.Platform,
		job.UserID,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepositoryPG) SetProcessing(ctx context.Context, jobID string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QJobSetProcessing, jobID)
	return err
}

// SetProgress advances the job's progress high-water mark. The statement
// uses GREATEST so a late or replayed write can never lower the value a
// poller has already observed.
func (r *JobRepositoryPG) SetProgress(ctx context.Context, jobID string, progress int) error {
	_, err := r.sql.Exec(ctx, sqlinline.QJobSetProgress, jobID, progress)
	return err
}

func (r *JobRepositoryPG) SetDigest(ctx context.Context, jobID string, digestJSON []byte) error {
	_, err := r.sql.Exec(ctx, sqlinline.QJobSetDigest, jobID, digestJSON)
	return err
}

func (r *JobRepositoryPG) Complete(ctx context.Context, jobID string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QJobComplete, jobID)
	return err
}

func (r *JobRepositoryPG) Fail(ctx context.Context, jobID, reason string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QJobFail, jobID, reason)
	return err
}

// GetByID fetches a job by its canonical identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	return r.scanJob(r.sql.QueryRow(ctx, sqlinline.QJobByID, jobID))
}

// GetByQueueTaskID fetches the job created for a queue task.
func (r *JobRepositoryPG) GetByQueueTaskID(ctx context.Context, taskID string) (*domain.Job, error) {
	return r.scanJob(r.sql.QueryRow(ctx, sqlinline.QJobByQueueTaskID, taskID))
}

func (r *JobRepositoryPG) Stats(ctx context.Context) (*domain.JobStats, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QJobStats)
	var s domain.JobStats
	if err := row.Scan(&s.Pending, &s.Processing, &s.Completed, &s.Failed); err != nil {
		return nil, fmt.Errorf("%w: job stats: %v", domain.ErrStoreUnavailable, err)
	}
	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *JobRepositoryPG) scanJob(row rowScanner) (*domain.Job, error) {
	var (
		job         domain.Job
		queueTaskID *string
		digest      []byte
	)
	if err := row.Scan(
		&job.ID,
		&queueTaskID,
		&job.Status,
		&job.Progress,
		&job.Topic,
		&job.Platform,
		&job.UserID,
		&digest,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if queueTaskID != nil {
		job.QueueTaskID = *queueTaskID
	}
	job.DigestJSON = digest
	return &job, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)
