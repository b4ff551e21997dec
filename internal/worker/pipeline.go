package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"postforge/internal/agents"
	"postforge/internal/domain"
	"postforge/internal/enrich"
	"postforge/internal/infra"
	"postforge/internal/observability"
	"postforge/internal/queue"
)

// Enricher computes a pattern digest for a topic. *enrich.Service satisfies
// it; tests substitute fixed digests.
type Enricher interface {
	Enrich(ctx context.Context, topic string, platform domain.Platform) domain.PatternDigest
}

var _ Enricher = (*enrich.Service)(nil)

// Pipeline drives one claimed task through job creation, enrichment,
// generation and persistence. Every error it returns is fatal for the
// attempt; degraded enrichment and per-agent failures are absorbed inside.
type Pipeline struct {
	jobs     domain.JobRepository
	drafts   domain.DraftRepository
	enricher Enricher
	ensemble *agents.Ensemble
	progress ProgressSink
	logger   infra.Logger
}

func NewPipeline(jobs domain.JobRepository, drafts domain.DraftRepository, enricher Enricher, ensemble *agents.Ensemble, progress ProgressSink, logger infra.Logger) *Pipeline {
	return &Pipeline{
		jobs:     jobs,
		drafts:   drafts,
		enricher: enricher,
		ensemble: ensemble,
		progress: progress,
		logger:   logger,
	}
}

// Run processes one task attempt. On success the job is committed with
// exactly domain.DraftCount drafts and progress 100.
func (p *Pipeline) Run(ctx context.Context, task *queue.Task) error {
	request := task.Payload.Request

	job, err := p.findOrCreateJob(ctx, task)
	if err != nil {
		return fmt.Errorf("create job record: %w", err)
	}
	if err := p.jobs.SetProcessing(ctx, job.ID); err != nil {
		return fmt.Errorf("mark job processing: %w", err)
	}
	p.progress.Report(ctx, job.ID, domain.ProgressJobCreated)

	// The payload shape is resolved exactly here: strategic tasks carry a
	// precomputed digest, standard tasks compute one. Enrichment never
	// fails the job; worst case is the baseline digest.
	enrichStart := time.Now()
	var digest domain.PatternDigest
	if task.Payload.Digest != nil {
		digest = *task.Payload.Digest
	} else {
		digest = p.enricher.Enrich(ctx, request.Topic, request.Platform)
	}
	observability.StageDuration.WithLabelValues("enrich").Observe(time.Since(enrichStart).Seconds())

	if snapshot, err := json.Marshal(digest); err == nil {
		if err := p.jobs.SetDigest(ctx, job.ID, snapshot); err != nil {
			p.logger.Warn().Err(err).Str("job_id", job.ID).Msg("worker: digest snapshot write failed")
		}
	}
	p.progress.Report(ctx, job.ID, domain.ProgressEnriched)

	generateStart := time.Now()
	results := p.ensemble.Run(ctx, job.ID, request, digest, func(settled int) {
		span := domain.ProgressAgentCeiling - domain.ProgressAgentFloor
		p.progress.Report(ctx, job.ID, domain.ProgressAgentFloor+span*settled/domain.DraftCount)
	})
	observability.StageDuration.WithLabelValues("generate").Observe(time.Since(generateStart).Seconds())

	persistStart := time.Now()
	for _, result := range results {
		draft := result.Draft
		if result.Err != nil {
			p.logger.Warn().Err(result.Err).
				Str("job_id", job.ID).
				Int("variant", result.Variant).
				Str("role", string(result.Role)).
				Msg("worker: agent failed, substituting fallback draft")
			observability.FallbackDrafts.Inc()
			draft = agents.FallbackDraft(agents.GenerateRequest{
				JobID:   job.ID,
				Variant: result.Variant,
				Role:    result.Role,
				Request: request,
				Digest:  digest,
			})
		}
		if err := p.drafts.Save(ctx, draft); err != nil {
			return fmt.Errorf("persist draft %d: %w", result.Variant, err)
		}
	}
	observability.StageDuration.WithLabelValues("persist").Observe(time.Since(persistStart).Seconds())

	p.progress.Report(ctx, job.ID, domain.ProgressBeforeCommit)
	if err := p.jobs.Complete(ctx, job.ID); err != nil {
		return fmt.Errorf("commit job: %w", err)
	}
	return nil
}

// findOrCreateJob returns the job for this task's lineage, creating it on
// the first attempt. A retried attempt reuses the record created earlier so
// one task never commits two distinct jobs.
func (p *Pipeline) findOrCreateJob(ctx context.Context, task *queue.Task) (*domain.Job, error) {
	existing, err := p.jobs.GetByQueueTaskID(ctx, task.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	job := &domain.Job{
		ID:          uuid.NewString(),
		QueueTaskID: task.ID,
		Status:      domain.JobStatusPending,
		Topic:       task.Payload.Request.Topic,
		Platform:    task.Payload.Request.Platform,
		UserID:      task.Payload.Request.UserID,
	}
	if err := p.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// EnsureFailed guarantees a failed job record with a readable reason after
// a fatal attempt. If the attempt died before the job row existed, the row
// is created retroactively, tagged with the task id, so the failure is
// never invisible to a polling client.
func (p *Pipeline) EnsureFailed(ctx context.Context, task *queue.Task, reason string) {
	if reason == "" {
		reason = "generation failed for an unknown reason"
	}
	job, err := p.findOrCreateJob(ctx, task)
	if err != nil {
		p.logger.Error().Err(err).Str("task_id", task.ID).Msg("worker: could not ensure job record for failed task")
		return
	}
	if err := p.jobs.Fail(ctx, job.ID, reason); err != nil {
		p.logger.Error().Err(err).Str("job_id", job.ID).Msg("worker: could not mark job failed")
	}
}
