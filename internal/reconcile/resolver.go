package reconcile

import (
	"context"
	"errors"

	"postforge/internal/domain"
)

// Resolver maps an external identifier onto the canonical job record. A
// client that submitted a request only holds the queue task id; a client
// reading a status response holds the job id. Callers are not guaranteed to
// know which kind they have, so every status read goes through this
// two-step lookup: queue task id first, then job id.
type Resolver struct {
	jobs domain.JobRepository
}

func NewResolver(jobs domain.JobRepository) *Resolver {
	return &Resolver{jobs: jobs}
}

// Resolve returns the job for either identifier, or domain.ErrNotFound when
// neither matches. Absence is a normal outcome: the worker may not have
// created the job record yet, or the record may have been cleaned up.
func (r *Resolver) Resolve(ctx context.Context, id string) (*domain.Job, error) {
	job, err := r.jobs.GetByQueueTaskID(ctx, id)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return r.jobs.GetByID(ctx, id)
}
