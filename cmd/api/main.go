package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/api"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/config"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/db"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/logger"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/notify"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/queue"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/report"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/review"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/storage"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/upload"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting API server")

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
	producer := queue.NewProducer(redisClient, cfg)

	uploadSvc := upload.NewService(repo, store, dispatcher, cfg)
	reviewSvc := review.NewService(repo, store, renderer, dispatcher, producer, cfg)

	handler := api.NewHandler(repo, uploadSvc, reviewSvc, store, cfg)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.CORSMiddleware(cfg.Server.CORSOrigin))
	router.Use(api.LoggingMiddleware())
	router.Use(api.RecoveryMiddleware())

	api.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
