package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"postforge/internal/infra"
	"postforge/internal/observability"
	"postforge/internal/queue"
)

// PoolOptions configures one worker pool. A deployment runs two: the
// standard pool and the smaller strategic pool, same pipeline, different
// task kind.
type PoolOptions struct {
	Queue        queue.Queue
	Pipeline     *Pipeline
	Logger       infra.Logger
	Kind         queue.TaskKind
	Concurrency  int
	PollInterval time.Duration
	// Hints is an optional wake-up stream (AMQP deliveries carrying task
	// ids). The pool still claims through the queue; a hint only cuts the
	// poll latency.
	Hints <-chan amqp.Delivery
	// SweepInterval > 0 enables the stalled-task sweeper on this pool.
	SweepInterval time.Duration
}

// Pool claims up to Concurrency tasks at a time and drives each through the
// pipeline. Each claimed task is owned by exactly one goroutine; claim
// exclusivity is the queue's job.
type Pool struct {
	queue    queue.Queue
	pipeline *Pipeline
	logger   infra.Logger
	kind     queue.TaskKind
	workers  int
	poll     time.Duration
	hints    <-chan amqp.Delivery
	sweep    time.Duration
}

func NewPool(opts PoolOptions) *Pool {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	return &Pool{
		queue:    opts.Queue,
		pipeline: opts.Pipeline,
		logger:   opts.Logger,
		kind:     opts.Kind,
		workers:  opts.Concurrency,
		poll:     opts.PollInterval,
		hints:    opts.Hints,
		sweep:    opts.SweepInterval,
	}
}

// Run blocks until ctx is done. In-flight tasks finish before it returns.
func (p *Pool) Run(ctx context.Context) {
	p.logger.Info().
		Str("kind", string(p.kind)).
		Int("concurrency", p.workers).
		Msg("worker: pool started")

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.runWorker(ctx)
		}()
	}
	if p.sweep > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.runSweeper(ctx)
		}()
	}
	wg.Wait()
	p.logger.Info().Str("kind", string(p.kind)).Msg("worker: pool stopped")
}

func (p *Pool) runWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		task, err := p.queue.Claim(ctx, p.kind)
		if err != nil {
			if errors.Is(err, queue.ErrNoTask) {
				p.waitForWork(ctx)
				continue
			}
			p.logger.Error().Err(err).Str("kind", string(p.kind)).Msg("worker: claim failed")
			p.waitForWork(ctx)
			continue
		}

		p.handleTask(ctx, task)
	}
}

// waitForWork sleeps until the poll interval elapses, a wake-up hint
// arrives, or shutdown begins.
func (p *Pool) waitForWork(ctx context.Context) {
	timer := time.NewTimer(p.poll)
	defer timer.Stop()
	if p.hints == nil {
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
		return
	}
	select {
	case <-ctx.Done():
	case <-timer.C:
	case <-p.hints:
	}
}

func (p *Pool) handleTask(ctx context.Context, task *queue.Task) {
	log := p.logger.With().
		Str("task_id", task.ID).
		Str("kind", string(task.Kind)).
		Int("attempt", task.Attempts).
		Logger()
	log.Info().Msg("worker: picked task")

	err := p.pipeline.Run(ctx, task)
	if err == nil {
		if err := p.queue.Complete(ctx, task.ID); err != nil {
			log.Error().Err(err).Msg("worker: complete task failed")
		}
		observability.TasksProcessed.WithLabelValues(string(task.Kind), "completed").Inc()
		log.Info().Msg("worker: task completed")
		return
	}

	log.Error().Err(err).Msg("worker: task attempt failed")
	p.pipeline.EnsureFailed(ctx, task, err.Error())

	retried, failErr := p.queue.Fail(ctx, task, err.Error())
	if failErr != nil {
		log.Error().Err(failErr).Msg("worker: fail task failed")
		return
	}
	if retried {
		observability.TasksProcessed.WithLabelValues(string(task.Kind), "retried").Inc()
	} else {
		observability.TasksProcessed.WithLabelValues(string(task.Kind), "failed").Inc()
		log.Error().Msg("worker: task failed terminally")
	}
}

func (p *Pool) runSweeper(ctx context.Context) {
	ticker := time.NewTicker(p.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := p.queue.ReclaimStalled(ctx); err != nil {
				p.logger.Warn().Err(err).Msg("worker: stalled sweep failed")
			} else if n > 0 {
				p.logger.Info().Int("reclaimed", n).Msg("worker: returned stalled tasks to queue")
			}
		}
	}
}
