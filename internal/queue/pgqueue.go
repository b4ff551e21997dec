package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"postforge/internal/domain"
	"postforge/internal/infra"
	"postforge/internal/sqlinline"
)

// Options configures a PGQueue. Everything is injected: no package-level
// connection state, no implicit retry tuning.
type Options struct {
	SQL               infra.SQLExecutor
	Logger            infra.Logger
	EnqueueRetry      infra.RetryPolicy
	TaskRetry         infra.RetryPolicy
	VisibilityTimeout time.Duration
	RetainCompleted   int
	RetainFailed      int
	Notifier          *Notifier
}

// PGQueue is the Postgres-backed task queue. Claim exclusivity comes from
// FOR UPDATE SKIP LOCKED plus the waiting→active transition; stalled active
// tasks are swept back to waiting after the visibility timeout.
type PGQueue struct {
	sql      infra.SQLExecutor
	logger   infra.Logger
	enqueue  infra.RetryPolicy
	retry    infra.RetryPolicy
	visible  time.Duration
	keepDone int
	keepFail int
	notifier *Notifier
}

func NewPGQueue(opts Options) *PGQueue {
	if opts.EnqueueRetry.MaxAttempts < 1 {
		opts.EnqueueRetry.MaxAttempts = 1
	}
	if opts.RetainCompleted < 1 {
		opts.RetainCompleted = 50
	}
	if opts.RetainFailed < 1 {
		opts.RetainFailed = 50
	}
	if opts.VisibilityTimeout <= 0 {
		opts.VisibilityTimeout = 10 * time.Minute
	}
	return &PGQueue{
		sql:      opts.SQL,
		logger:   opts.Logger,
		enqueue:  opts.EnqueueRetry,
		retry:    opts.TaskRetry,
		visible:  opts.VisibilityTimeout,
		keepDone: opts.RetainCompleted,
		keepFail: opts.RetainFailed,
		notifier: opts.Notifier,
	}
}

// Enqueue inserts a task, retrying transient insert failures with
// increasing delay before surfacing a typed error. The notifier hint is
// best-effort: a publish failure never fails the enqueue.
func (q *PGQueue) Enqueue(ctx context.Context, kind TaskKind, payload Payload, priority int) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal task payload: %w", err)
	}
	taskID := uuid.NewString()

	var lastErr error
	for attempt := 1; attempt <= q.enqueue.MaxAttempts; attempt++ {
		_, lastErr = q.sql.Exec(ctx, sqlinline.QEnqueueTask, taskID, string(kind), body, priority, q.retry.MaxAttempts)
		if lastErr == nil {
			if q.notifier != nil {
				if err := q.notifier.Publish(ctx, kind, taskID); err != nil {
					q.logger.Warn().Err(err).Str("task_id", taskID).Msg("queue: wake-up publish failed")
				}
			}
			return taskID, nil
		}
		if attempt < q.enqueue.MaxAttempts {
			if err := sleepCtx(ctx, q.enqueue.DelayFor(attempt)); err != nil {
				return "", err
			}
		}
	}
	return "", fmt.Errorf("%w: enqueue after %d attempts: %v", domain.ErrQueueUnavailable, q.enqueue.MaxAttempts, lastErr)
}

// Claim pulls the oldest ready task of the given kind, or ErrNoTask.
func (q *PGQueue) Claim(ctx context.Context, kind TaskKind) (*Task, error) {
	row := q.sql.QueryRow(ctx, sqlinline.QClaimTask, string(kind))
	var (
		id          string
		body        []byte
		attempts    int
		maxAttempts int
	)
	if err := row.Scan(&id, &body, &attempts, &maxAttempts); err != nil {
		if infra.IsNoRows(err) {
			return nil, ErrNoTask
		}
		return nil, fmt.Errorf("claim task: %w", err)
	}
	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode task %s payload: %w", id, err)
	}
	return &Task{ID: id, Kind: kind, Payload: payload, Attempts: attempts, MaxAttempts: maxAttempts}, nil
}

func (q *PGQueue) Complete(ctx context.Context, taskID string) error {
	if _, err := q.sql.Exec(ctx, sqlinline.QCompleteTask, taskID); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	q.prune(ctx, StateCompleted, q.keepDone)
	return nil
}

// Fail re-schedules the task with exponential backoff while attempts
// remain; on the final attempt it marks the task terminally failed.
func (q *PGQueue) Fail(ctx context.Context, task *Task, reason string) (bool, error) {
	if task.FinalAttempt() {
		if _, err := q.sql.Exec(ctx, sqlinline.QFailTaskTerminal, task.ID, reason); err != nil {
			return false, fmt.Errorf("fail task: %w", err)
		}
		q.prune(ctx, StateFailed, q.keepFail)
		return false, nil
	}
	delay := q.retry.DelayFor(task.Attempts)
	if _, err := q.sql.Exec(ctx, sqlinline.QDelayTaskRetry, task.ID, int64(delay.Seconds()), reason); err != nil {
		return false, fmt.Errorf("delay task retry: %w", err)
	}
	q.logger.Info().
		Str("task_id", task.ID).
		Int("attempt", task.Attempts).
		Dur("delay", delay).
		Msg("queue: task scheduled for retry")
	return true, nil
}

// TaskStatus reports the queue's view of a task. A pruned or unknown id is
// a normal outcome: found=false, no error.
func (q *PGQueue) TaskStatus(ctx context.Context, taskID string) (*TaskStatus, bool, error) {
	row := q.sql.QueryRow(ctx, sqlinline.QTaskStatus, taskID)
	var (
		st   TaskStatus
		body []byte
	)
	if err := row.Scan(&st.State, &body, &st.Attempts, &st.FailureReason, &st.CreatedAt, &st.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("task status: %w", err)
	}
	if err := json.Unmarshal(body, &st.Payload); err != nil {
		return nil, false, fmt.Errorf("decode task %s payload: %w", taskID, err)
	}
	return &st, true, nil
}

// Stats returns per-state counts, degrading to Available=false when the
// backend is unreachable.
func (q *PGQueue) Stats(ctx context.Context) Stats {
	rows, err := q.sql.Query(ctx, sqlinline.QQueueStats)
	if err != nil {
		q.logger.Warn().Err(err).Msg("queue: stats unavailable")
		return Stats{}
	}
	defer rows.Close()

	stats := Stats{Available: true}
	for rows.Next() {
		var (
			state string
			count int64
		)
		if err := rows.Scan(&state, &count); err != nil {
			q.logger.Warn().Err(err).Msg("queue: stats unavailable")
			return Stats{}
		}
		switch TaskState(state) {
		case StateWaiting:
			stats.Waiting = count
		case StateActive:
			stats.Active = count
		case StateDelayed:
			stats.Delayed = count
		case StateCompleted:
			stats.Completed = count
		case StateFailed:
			stats.Failed = count
		}
	}
	if err := rows.Err(); err != nil {
		q.logger.Warn().Err(err).Msg("queue: stats unavailable")
		return Stats{}
	}
	return stats
}

// ReclaimStalled returns active tasks whose claim outlived the visibility
// timeout to the waiting state so another worker can pick them up.
func (q *PGQueue) ReclaimStalled(ctx context.Context) (int, error) {
	rows, err := q.sql.Query(ctx, sqlinline.QReclaimStalled, int64(q.visible.Seconds()))
	if err != nil {
		return 0, fmt.Errorf("reclaim stalled: %w", err)
	}
	defer rows.Close()

	reclaimed := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return reclaimed, err
		}
		q.logger.Warn().Str("task_id", id).Msg("queue: reclaimed stalled task")
		reclaimed++
	}
	return reclaimed, rows.Err()
}

// prune keeps the queue from growing into an audit log; the job store is
// the audit log.
func (q *PGQueue) prune(ctx context.Context, state TaskState, keep int) {
	if _, err := q.sql.Exec(ctx, sqlinline.QPruneTasks, string(state), keep); err != nil {
		q.logger.Warn().Err(err).Str("state", string(state)).Msg("queue: prune failed")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ Queue = (*PGQueue)(nil)
