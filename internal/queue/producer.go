package queue

import (
	"context"
	"encoding/json"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/config"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/model"

	"github.com/go-redis/redis/v8"
)

// Producer feeds the render retry queue. Approvals whose synchronous render
// failed land here for out-of-band regeneration.
type Producer struct {
	client *redis.Client
	cfg    *config.Config
}

func NewProducer(redisClient *RedisClient, cfg *config.Config) *Producer {
	return &Producer{
		client: redisClient.Client(),
		cfg:    cfg,
	}
}

func (p *Producer) EnqueueRenderJob(ctx context.Context, job model.RenderJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return p.client.LPush(ctx, p.cfg.Redis.RenderQueue, data).Err()
}
