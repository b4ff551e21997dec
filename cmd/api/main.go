package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"postforge/internal/adapter/repo"
	"postforge/internal/http/handlers"
	httpapi "postforge/internal/http/httpapi"
	"postforge/internal/infra"
	"postforge/internal/queue"
	"postforge/internal/reconcile"
)

func main() {
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if err := infra.Migrate(cfg); err != nil {
		logger.Fatal().Err(err).Msg("api: schema bootstrap failed")
	}

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)

	var notifier *queue.Notifier
	if cfg.AMQPURL != "" {
		notifier, err = queue.NewNotifier(cfg.AMQPURL)
		if err != nil {
			logger.Warn().Err(err).Msg("api: rabbitmq unavailable, workers will rely on polling")
		} else {
			defer notifier.Close()
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
		Notifier:          notifier,
	})

	jobs := repo.NewJobRepository(runner)
	drafts := repo.NewDraftRepository(runner)

	app := &handlers.App{
		Queue:    q,
		Resolver: reconcile.NewResolver(jobs),
		Jobs:     jobs,
		Drafts:   drafts,
		Logger:   logger,
	}

	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app))

	go func() {
		logger.Info().Msgf("api: listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("api: http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: failed to shutdown server")
	}
	logger.Info().Msg("api: stopped")
}
