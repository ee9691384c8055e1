package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/config"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/db"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/logger"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/notify"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/queue"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/report"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/review"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/storage"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting render worker")

	database, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	repo := db.NewRepository(database)

	store, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	dispatcher := notify.NewDispatcher(cfg.Webhooks.Timeout)
	renderer := report.NewHTTPRenderer(cfg)

	// The worker never re-queues on its own; failed retries go to the DLQ.
	reviewSvc := review.NewService(repo, store, renderer, dispatcher, nil, cfg)

	renderWorker := worker.NewRenderWorker(cfg, reviewSvc, redisClient)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down render worker...")
		cancel()
	}()

	if err := renderWorker.Start(ctx); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("Render worker stopped with error")
	}

	renderWorker.Stop()
	log.Info().Msg("Render worker exited")
}
