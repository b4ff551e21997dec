package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"postforge/internal/domain"
)

func TestSubmitAcceptsValidRequest(t *testing.T) {
	q := &stubQueue{enqueueID: "task-1"}
	app := newTestApp(q, nil, nil)

	body := `{"topic":"leadership burnout","platform":"linkedin","user_id":"user-1"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader(body))
	rec := serve(app, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		TaskID string `json:"task_id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TaskID != "task-1" || resp.Status != "queued" {
		t.Fatalf("response = %+v", resp)
	}
	if len(q.enqueued) != 1 {
		t.Fatalf("enqueued %d payloads, want 1", len(q.enqueued))
	}
	if q.enqueued[0].Request.Topic != "leadership burnout" {
		t.Fatalf("enqueued Topic = %q", q.enqueued[0].Request.Topic)
	}
	if q.enqueueKinds[0] != "standard" {
		t.Fatalf("kind = %q, want standard", q.enqueueKinds[0])
	}
}

func TestSubmitWithPrecomputedDigestGoesStrategic(t *testing.T) {
	q := &stubQueue{enqueueID: "task-1"}
	app := newTestApp(q, nil, nil)

	body := `{"topic":"leadership burnout","platform":"linkedin","pattern_digest":{"avg_word_count":220,"historical_context":true}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader(body))
	rec := serve(app, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body %s", rec.Code, rec.Body.String())
	}
	if q.enqueueKinds[0] != "strategic" {
		t.Fatalf("kind = %q, want strategic", q.enqueueKinds[0])
	}
	if q.enqueued[0].Digest == nil || q.enqueued[0].Digest.AvgWordCount != 220 {
		t.Fatalf("digest not carried into the payload: %+v", q.enqueued[0].Digest)
	}
}

func TestSubmitRejectsMalformedJSON(t *testing.T) {
	q := &stubQueue{enqueueID: "task-1"}
	app := newTestApp(q, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader("{not json"))
	rec := serve(app, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(q.enqueued) != 0 {
		t.Fatal("malformed payload must not be enqueued")
	}
}

func TestSubmitRejectsInvalidRequest(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing topic", `{"platform":"linkedin","user_id":"u"}`},
		{"unknown platform", `{"topic":"x","platform":"myspace","user_id":"u"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &stubQueue{enqueueID: "task-1"}
			app := newTestApp(q, nil, nil)

			req := httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader(tc.body))
			rec := serve(app, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
			if len(q.enqueued) != 0 {
				t.Fatal("invalid payload must not be enqueued")
			}
		})
	}
}

func TestSubmitReportsQueueOutage(t *testing.T) {
	q := &stubQueue{enqueueErr: domain.ErrQueueUnavailable}
	app := newTestApp(q, nil, nil)

	body := `{"topic":"leadership burnout","platform":"linkedin","user_id":"user-1"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader(body))
	rec := serve(app, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "queue_unavailable" {
		t.Fatalf("error code = %q, want queue_unavailable", resp.Error)
	}
}
