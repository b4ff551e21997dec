package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"postforge/internal/adapter/repo"
	"postforge/internal/agents"
	"postforge/internal/enrich"
	"postforge/internal/infra"
	"postforge/internal/queue"
	"postforge/internal/worker"
)

func main() {
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := infra.Migrate(cfg); err != nil {
		logger.Fatal().Err(err).Msg("worker: schema bootstrap failed")
	}

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)

	var (
		notifier       *queue.Notifier
		standardHints  <-chan amqp.Delivery
		strategicHints <-chan amqp.Delivery
	)
	if cfg.AMQPURL != "" {
		notifier, err = queue.NewNotifier(cfg.AMQPURL)
		if err != nil {
			logger.Warn().Err(err).Msg("worker: rabbitmq unavailable, falling back to polling")
		} else {
			defer notifier.Close()
			if standardHints, err = notifier.Consume(queue.KindStandard); err != nil {
				logger.Warn().Err(err).Msg("worker: standard hint stream unavailable")
			}
			if strategicHints, err = notifier.Consume(queue.KindStrategic); err != nil {
				logger.Warn().Err(err).Msg("worker: strategic hint stream unavailable")
			}
		}
	}

	q := queue.NewPGQueue(queue.Options{
		SQL:               runner,
		Logger:            logger,
		EnqueueRetry:      cfg.EnqueueRetry,
		TaskRetry:         cfg.TaskRetry,
		VisibilityTimeout: cfg.VisibilityTimeout,
		RetainCompleted:   cfg.QueueRetainCompleted,
		RetainFailed:      cfg.QueueRetainFailed,
	})

	jobs := repo.NewJobRepository(runner)
	drafts := repo.NewDraftRepository(runner)
	history := repo.NewHistoryRepository(runner)

	enricher := enrich.NewService(enrich.ServiceOptions{
		Research: enrich.NewResearchClient(enrich.ResearchOptions{
			APIKey:     cfg.ResearchAPIKey,
			BaseURL:    cfg.ResearchBaseURL,
			HTTPClient: &http.Client{Timeout: cfg.ResearchTimeout},
		}),
		History:  history,
		Logger:   logger,
		CacheTTL: cfg.EnrichCacheTTL,
	})

	llm := agents.NewClient(agents.ClientOptions{
		APIKey:     cfg.LLMAPIKey,
		Model:      cfg.LLMModel,
		BaseURL:    cfg.LLMBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.LLMTimeout},
	})
	if llm.Keyless() {
		logger.Warn().Str("model", llm.Model()).Msg("worker: llm api key missing, using synthetic draft generation")
	}
	ensemble := agents.NewEnsemble(agents.NewLLMAgent(llm))

	pipeline := worker.NewPipeline(jobs, drafts, enricher, ensemble,
		&worker.JobStoreSink{Jobs: jobs, Logger: logger}, logger)

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error().Err(err).Msg("worker: metrics server failed")
			}
		}()
	}

	standard := worker.NewPool(worker.PoolOptions{
		Queue:         q,
		Pipeline:      pipeline,
		Logger:        logger,
		Kind:          queue.KindStandard,
		Concurrency:   cfg.WorkerConcurrency,
		PollInterval:  cfg.WorkerPollInterval,
		Hints:         standardHints,
		SweepInterval: cfg.VisibilityTimeout / 2,
	})
	strategic := worker.NewPool(worker.PoolOptions{
		Queue:        q,
		Pipeline:     pipeline,
		Logger:       logger,
		Kind:         queue.KindStrategic,
		Concurrency:  cfg.StrategicConcurrency(),
		PollInterval: cfg.WorkerPollInterval,
		Hints:        strategicHints,
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		standard.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		strategic.Run(ctx)
	}()
	wg.Wait()

	logger.Info().Msg("worker: stopped")
}
