package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"postforge/internal/domain"
	"postforge/internal/queue"
)

func TestStatsReturnsBothSections(t *testing.T) {
	q := &stubQueue{stats: queue.Stats{Available: true, Waiting: 4, Active: 2, Completed: 9}}
	jobs := &stubJobRepo{stats: &domain.JobStats{Completed: 9, Failed: 1}}
	app := newTestApp(q, jobs, nil)

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/v1/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Queue *queue.Stats     `json:"queue"`
		Jobs  *domain.JobStats `json:"jobs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Queue == nil || resp.Queue.Waiting != 4 || resp.Queue.Active != 2 {
		t.Fatalf("queue section = %+v", resp.Queue)
	}
	if resp.Jobs == nil || resp.Jobs.Completed != 9 || resp.Jobs.Failed != 1 {
		t.Fatalf("jobs section = %+v", resp.Jobs)
	}
}

func TestStatsDegradesPerSection(t *testing.T) {
	// Queue backend down, job store up: still a 200 with a null queue section.
	q := &stubQueue{stats: queue.Stats{}}
	jobs := &stubJobRepo{stats: &domain.JobStats{Pending: 1}}
	app := newTestApp(q, jobs, nil)

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/v1/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even with the queue down", rec.Code)
	}

	var resp struct {
		Queue *queue.Stats     `json:"queue"`
		Jobs  *domain.JobStats `json:"jobs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Queue != nil {
		t.Fatalf("queue section = %+v, want null", resp.Queue)
	}
	if resp.Jobs == nil || resp.Jobs.Pending != 1 {
		t.Fatalf("jobs section = %+v", resp.Jobs)
	}
}

func TestStatsJobStoreOutageYieldsNullJobs(t *testing.T) {
	q := &stubQueue{stats: queue.Stats{Available: true, Waiting: 1}}
	jobs := &stubJobRepo{statsErr: errors.New("store down")}
	app := newTestApp(q, jobs, nil)

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/v1/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even with the job store down", rec.Code)
	}

	var resp struct {
		Queue *queue.Stats     `json:"queue"`
		Jobs  *domain.JobStats `json:"jobs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Queue == nil {
		t.Fatal("queue section missing")
	}
	if resp.Jobs != nil {
		t.Fatalf("jobs section = %+v, want null", resp.Jobs)
	}
}
