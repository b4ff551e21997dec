package queue

import (
	"context"
	"errors"
	"time"

	"postforge/internal/domain"
)

// TaskState enumerates queue-side lifecycle states.
type TaskState string

const (
	StateWaiting   TaskState = "waiting"
	StateActive    TaskState = "active"
	StateCompleted TaskState = "completed"
	StateFailed    TaskState = "failed"
	StateDelayed   TaskState = "delayed"
)

// TaskKind is the scheduling class of a task. Standard tasks compute
// enrichment inline; strategic tasks arrive with a precomputed digest and
// run on the smaller pool.
type TaskKind string

const (
	KindStandard  TaskKind = "standard"
	KindStrategic TaskKind = "strategic"
)

// Payload is the task body: the immutable generation request plus, for
// strategic tasks, the precomputed pattern digest. The shape is resolved
// exactly once, at the enrichment boundary; downstream code never branches
// on it.
type Payload struct {
	Request domain.GenerationRequest `json:"request"`
	Digest  *domain.PatternDigest    `json:"digest,omitempty"`
}

// Task is a claimed unit of work. Attempts counts the claim that returned
// this task, so the first attempt observes Attempts == 1.
type Task struct {
	ID          string
	Kind        TaskKind
	Payload     Payload
	Attempts    int
	MaxAttempts int
}

// FinalAttempt reports whether the current attempt is the last one the
// retry budget allows.
func (t *Task) FinalAttempt() bool {
	return t.Attempts >= t.MaxAttempts
}

// TaskStatus is the queue's view of a task for the status endpoint.
type TaskStatus struct {
	State         TaskState `json:"state"`
	Payload       Payload   `json:"-"`
	Attempts      int       `json:"attempts"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Stats holds per-state task counts. Available is false when the backend
// could not be reached; callers render that as "unavailable", not an error.
type Stats struct {
	Available bool  `json:"available"`
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Delayed   int64 `json:"delayed"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// ErrNoTask is returned by Claim when no task is ready.
var ErrNoTask = errors.New("no task available")

// Queue is the durable work list contract. The worker pool is the only
// mutator of task state beyond Enqueue.
type Queue interface {
	Enqueue(ctx context.Context, kind TaskKind, payload Payload, priority int) (string, error)
	Claim(ctx context.Context, kind TaskKind) (*Task, error)
	Complete(ctx context.Context, taskID string) error
	// Fail either re-schedules the task with backoff or, on the final
	// attempt, marks it terminally failed. It reports whether a retry was
	// scheduled.
	Fail(ctx context.Context, task *Task, reason string) (bool, error)
	TaskStatus(ctx context.Context, taskID string) (*TaskStatus, bool, error)
	Stats(ctx context.Context) Stats
	ReclaimStalled(ctx context.Context) (int, error)
}
