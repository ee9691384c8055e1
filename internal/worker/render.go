package worker

import (
	"context"
	"encoding/json"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/config"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/logger"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/model"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/queue"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/review"

	"github.com/rs/zerolog"
)

// RenderWorker is the manual-recovery channel for approvals whose synchronous
// render failed. It drains the render queue and regenerates artifacts for
// uploads that are still APPROVED; anything else is skipped, not retried.
type RenderWorker struct {
	cfg      *config.Config
	reviews  *review.Service
	consumer *queue.Consumer
	pool     *Pool
	log      zerolog.Logger
}

func NewRenderWorker(cfg *config.Config, reviews *review.Service, redisClient *queue.RedisClient) *RenderWorker {
	return &RenderWorker{
		cfg:      cfg,
		reviews:  reviews,
		consumer: queue.NewConsumer(redisClient, cfg),
		pool:     NewPool(cfg.Workers.Render.Count),
		log:      logger.Get(),
	}
}

func (w *RenderWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting render worker")

	w.pool.Start(ctx)
	return w.consumer.ConsumeRenderQueue(ctx, w.handleMessage)
}

func (w *RenderWorker) Stop() {
	w.log.Info().Msg("Stopping render worker")
	w.pool.Stop()
}

func (w *RenderWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.RenderJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal render job")
		return err
	}

	w.log.Info().Int64("upload_id", job.UploadID).Msg("Processing render job")

	w.pool.Submit(func(ctx context.Context) error {
		return w.process(ctx, job)
	})

	return nil
}

func (w *RenderWorker) process(ctx context.Context, job model.RenderJob) error {
	log := w.log.With().Int64("upload_id", job.UploadID).Logger()

	if err := w.reviews.RenderAndNotify(ctx, job.UploadID); err != nil {
		log.Error().Err(err).Msg("Render retry failed")
		return err
	}

	log.Info().Msg("Render retry succeeded")
	return nil
}
