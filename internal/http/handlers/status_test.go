package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"postforge/internal/domain"
	"postforge/internal/queue"
)

func completedJob() *domain.Job {
	return &domain.Job{
		ID:          "job-1",
		QueueTaskID: "task-1",
		Status:      domain.JobStatusCompleted,
		Progress:    domain.ProgressComplete,
		Topic:       "leadership burnout",
		Platform:    domain.PlatformLinkedIn,
	}
}

func TestStatusByTaskID(t *testing.T) {
	job := completedJob()
	jobs := &stubJobRepo{byTask: map[string]*domain.Job{"task-1": job}}
	drafts := &stubDraftRepo{drafts: map[string][]domain.Draft{
		"job-1": {
			{ID: "d1", JobID: "job-1", VariantNumber: 1, AgentName: "storyteller", Body: "one"},
			{ID: "d2", JobID: "job-1", VariantNumber: 2, AgentName: "contrarian", Body: "two"},
			{ID: "d3", JobID: "job-1", VariantNumber: 3, AgentName: "data-driven", Body: "three"},
		},
	}}
	q := &stubQueue{taskFound: true, taskStatus: &queue.TaskStatus{State: queue.StateCompleted}}
	app := newTestApp(q, jobs, drafts)

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/v1/requests/task-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Job == nil || resp.Job.JobID != "job-1" {
		t.Fatalf("job section = %+v", resp.Job)
	}
	if resp.Job.Progress != domain.ProgressComplete {
		t.Fatalf("Progress = %d, want %d", resp.Job.Progress, domain.ProgressComplete)
	}
	if len(resp.Drafts) != 3 {
		t.Fatalf("drafts = %d, want 3", len(resp.Drafts))
	}
	if resp.Queue == nil || resp.Queue.State != string(queue.StateCompleted) {
		t.Fatalf("queue section = %+v", resp.Queue)
	}
}

func TestStatusByJobIDAfterTaskPruned(t *testing.T) {
	job := completedJob()
	jobs := &stubJobRepo{byID: map[string]*domain.Job{"job-1": job}}
	// The queue pruned the task; only the job store remembers it.
	q := &stubQueue{taskFound: false}
	app := newTestApp(q, jobs, nil)

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/v1/requests/job-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Job == nil || resp.Job.JobID != "job-1" {
		t.Fatalf("job section = %+v", resp.Job)
	}
	if resp.Queue != nil {
		t.Fatal("queue section must be absent for a pruned task")
	}
}

func TestStatusBeforeWorkerPickup(t *testing.T) {
	// No job record yet; only the queue knows the task.
	q := &stubQueue{taskFound: true, taskStatus: &queue.TaskStatus{State: queue.StateWaiting}}
	app := newTestApp(q, &stubJobRepo{}, nil)

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/v1/requests/task-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Job != nil {
		t.Fatal("no job section expected before pickup")
	}
	if resp.Queue == nil || resp.Queue.State != string(queue.StateWaiting) {
		t.Fatalf("queue section = %+v", resp.Queue)
	}
	if resp.Queue.Progress != 0 {
		t.Fatalf("Progress = %d, want 0 before pickup", resp.Queue.Progress)
	}
}

func TestStatusUnknownIDIs404(t *testing.T) {
	app := newTestApp(&stubQueue{}, &stubJobRepo{}, nil)

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/v1/requests/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStatusFailedJobCarriesReason(t *testing.T) {
	job := completedJob()
	job.Status = domain.JobStatusFailed
	job.ErrorMessage = "generation failed after 3 attempts"
	jobs := &stubJobRepo{byTask: map[string]*domain.Job{"task-1": job}}
	app := newTestApp(&stubQueue{}, jobs, nil)

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/v1/requests/task-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Job.Status != string(domain.JobStatusFailed) {
		t.Fatalf("Status = %q, want failed", resp.Job.Status)
	}
	if resp.Job.ErrorMessage == "" {
		t.Fatal("failed job must expose its error message")
	}
}
