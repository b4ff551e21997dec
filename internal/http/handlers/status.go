package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"postforge/internal/domain"
)

type jobView struct {
	JobID        string          `json:"job_id"`
	QueueTaskID  string          `json:"queue_task_id,omitempty"`
	Status       string          `json:"status"`
	Progress     int             `json:"progress"`
	Topic        string          `json:"topic"`
	Platform     string          `json:"platform"`
	Digest       json.RawMessage `json:"pattern_digest,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

type draftView struct {
	DraftID       string                `json:"draft_id"`
	VariantNumber int                   `json:"variant_number"`
	AgentName     string                `json:"agent_name"`
	Body          string                `json:"body"`
	Hashtags      []string              `json:"hashtags"`
	VoiceFit      int                   `json:"voice_fit"`
	Meta          domain.GenerationMeta `json:"metadata"`
}

type queueView struct {
	State    string `json:"state"`
	Progress int    `json:"progress"`
}

type statusResponse struct {
	Job    *jobView    `json:"job"`
	Drafts []draftView `json:"drafts"`
	Queue  *queueView  `json:"queue"`
}

// Status resolves either identifier kind to the job and returns job, drafts
// and the queue's view. A request the worker has not picked up yet has no
// job record; the queue section alone is returned for it. Only when neither
// side knows the id is this a 404, and that is a normal outcome, not a
// server error.
func (a *App) Status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return
	}
	ctx := r.Context()

	job, err := a.Resolver.Resolve(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		a.Logger.Error().Err(err).Str("id", id).Msg("status: resolve failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load status")
		return
	}

	resp := statusResponse{Drafts: []draftView{}}

	taskID := id
	if job != nil {
		taskID = job.QueueTaskID
		resp.Job = &jobView{
			JobID:        job.ID,
			QueueTaskID:  job.QueueTaskID,
			Status:       string(job.Status),
			Progress:     job.Progress,
			Topic:        job.Topic,
			Platform:     string(job.Platform),
			Digest:       job.DigestJSON,
			ErrorMessage: job.ErrorMessage,
			CreatedAt:    job.CreatedAt,
			CompletedAt:  job.CompletedAt,
		}

		drafts, err := a.Drafts.ListByJobID(ctx, job.ID)
		if err != nil {
			a.Logger.Error().Err(err).Str("job_id", job.ID).Msg("status: list drafts failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to load drafts")
			return
		}
		for _, d := range drafts {
			resp.Drafts = append(resp.Drafts, draftView{
				DraftID:       d.ID,
				VariantNumber: d.VariantNumber,
				AgentName:     d.AgentName,
				Body:          d.Body,
				Hashtags:      d.Hashtags,
				VoiceFit:      d.VoiceFit,
				Meta:          d.Meta,
			})
		}
	}

	if taskID != "" {
		if st, found, err := a.Queue.TaskStatus(ctx, taskID); err == nil && found {
			progress := 0
			if job != nil {
				progress = job.Progress
			}
			resp.Queue = &queueView{State: string(st.State), Progress: progress}
		}
	}

	if resp.Job == nil && resp.Queue == nil {
		a.error(w, http.StatusNotFound, "not_found", "no job or task matches this id")
		return
	}
	a.json(w, http.StatusOK, resp)
}
