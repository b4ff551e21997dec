package worker

import (
	"context"

	"postforge/internal/domain"
	"postforge/internal/infra"
)

// ProgressSink receives checkpoint values as a job moves through the
// pipeline. It is an explicit capability handed to the pipeline, not an
// ambient side channel; tests substitute recorders.
type ProgressSink interface {
	Report(ctx context.Context, jobID string, progress int)
}

// JobStoreSink writes progress to the job store. Failures are logged and
// swallowed: a missed checkpoint only makes polling momentarily stale, and
// the store's high-water mark keeps observed values monotonic regardless.
type JobStoreSink struct {
	Jobs   domain.JobRepository
	Logger infra.Logger
}

func (s *JobStoreSink) Report(ctx context.Context, jobID string, progress int) {
	if err := s.Jobs.SetProgress(ctx, jobID, progress); err != nil {
		s.Logger.Warn().Err(err).Str("job_id", jobID).Int("progress", progress).Msg("worker: progress write failed")
	}
}
