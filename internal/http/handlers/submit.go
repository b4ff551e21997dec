package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"postforge/internal/domain"
	"postforge/internal/observability"
	"postforge/internal/queue"
)

type submitRequest struct {
	domain.GenerationRequest
	// A precomputed digest routes the request to the strategic pool
	// instead of the inline-enrichment one.
	Digest *domain.PatternDigest `json:"pattern_digest,omitempty"`
}

type submitResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// Submit accepts a GenerationRequest and enqueues a task. The queue client
// retries transient failures internally; by the time an error surfaces here
// the retry budget is spent.
func (a *App) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := req.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	kind := queue.KindStandard
	if req.Digest != nil {
		kind = queue.KindStrategic
	}

	taskID, err := a.Queue.Enqueue(r.Context(), kind, queue.Payload{Request: req.GenerationRequest, Digest: req.Digest}, 0)
	if err != nil {
		if errors.Is(err, domain.ErrQueueUnavailable) {
			a.error(w, http.StatusServiceUnavailable, "queue_unavailable", "could not accept request, try again later")
			return
		}
		a.Logger.Error().Err(err).Msg("submit: enqueue failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue request")
		return
	}

	observability.TasksEnqueued.WithLabelValues(string(kind)).Inc()
	a.json(w, http.StatusAccepted, submitResponse{TaskID: taskID, Status: "queued"})
}
