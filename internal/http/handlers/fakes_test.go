package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"postforge/internal/domain"
	"postforge/internal/queue"
	"postforge/internal/reconcile"
)

// stubQueue scripts the queue behavior one handler test needs.
type stubQueue struct {
	enqueueID    string
	enqueueErr   error
	enqueued     []queue.Payload
	enqueueKinds []queue.TaskKind

	taskStatus *queue.TaskStatus
	taskFound  bool
	statusErr  error

	stats queue.Stats
}

func (q *stubQueue) Enqueue(ctx context.Context, kind queue.TaskKind, payload queue.Payload, priority int) (string, error) {
	q.enqueued = append(q.enqueued, payload)
	q.enqueueKinds = append(q.enqueueKinds, kind)
	if q.enqueueErr != nil {
		return "", q.enqueueErr
	}
	return q.enqueueID, nil
}

func (q *stubQueue) Claim(ctx context.Context, kind queue.TaskKind) (*queue.Task, error) {
	return nil, queue.ErrNoTask
}

func (q *stubQueue) Complete(ctx context.Context, taskID string) error { return nil }

func (q *stubQueue) Fail(ctx context.Context, task *queue.Task, reason string) (bool, error) {
	return false, nil
}

func (q *stubQueue) TaskStatus(ctx context.Context, taskID string) (*queue.TaskStatus, bool, error) {
	return q.taskStatus, q.taskFound, q.statusErr
}

func (q *stubQueue) Stats(ctx context.Context) queue.Stats { return q.stats }

func (q *stubQueue) ReclaimStalled(ctx context.Context) (int, error) { return 0, nil }

// stubJobRepo serves lookups and stats from fixed data.
type stubJobRepo struct {
	byTask    map[string]*domain.Job
	byID      map[string]*domain.Job
	lookupErr error
	stats     *domain.JobStats
	statsErr  error
}

func (r *stubJobRepo) GetByQueueTaskID(ctx context.Context, taskID string) (*domain.Job, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	if job, ok := r.byTask[taskID]; ok {
		return job, nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubJobRepo) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	if job, ok := r.byID[jobID]; ok {
		return job, nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubJobRepo) Stats(ctx context.Context) (*domain.JobStats, error) {
	return r.stats, r.statsErr
}

func (r *stubJobRepo) Create(ctx context.Context, job *domain.Job) error     { return nil }
func (r *stubJobRepo) SetProcessing(ctx context.Context, jobID string) error { return nil }
func (r *stubJobRepo) SetProgress(ctx context.Context, jobID string, progress int) error {
	return nil
}
func (r *stubJobRepo) SetDigest(ctx context.Context, jobID string, digestJSON []byte) error {
	return nil
}
func (r *stubJobRepo) Complete(ctx context.Context, jobID string) error     { return nil }
func (r *stubJobRepo) Fail(ctx context.Context, jobID, reason string) error { return nil }

type stubDraftRepo struct {
	drafts map[string][]domain.Draft
	err    error
}

func (r *stubDraftRepo) Save(ctx context.Context, draft *domain.Draft) error { return nil }

func (r *stubDraftRepo) ListByJobID(ctx context.Context, jobID string) ([]domain.Draft, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.drafts[jobID], nil
}

func newTestApp(q *stubQueue, jobs *stubJobRepo, drafts *stubDraftRepo) *App {
	if jobs == nil {
		jobs = &stubJobRepo{}
	}
	if drafts == nil {
		drafts = &stubDraftRepo{}
	}
	return &App{
		Queue:    q,
		Resolver: reconcile.NewResolver(jobs),
		Jobs:     jobs,
		Drafts:   drafts,
		Logger:   zerolog.Nop(),
	}
}

func serve(app *App, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Post("/v1/requests", app.Submit)
	r.Get("/v1/requests/{id}", app.Status)
	r.Get("/v1/stats", app.Stats)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
