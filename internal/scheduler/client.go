package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"renoquote_backend/platform/config"
	"renoquote_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueFlyerExpiry enqueues one flyer expiry sweep.
func (c *Client) EnqueueFlyerExpiry(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewFlyerExpiryTask(FlyerExpiryPayload{RequestedAt: time.Now()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// RunPeriodicExpiry enqueues an expiry sweep immediately and then on every
// interval tick until the context is cancelled.
func (c *Client) RunPeriodicExpiry(ctx context.Context, interval time.Duration, log *logger.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}

	if err := c.EnqueueFlyerExpiry(ctx); err != nil {
		log.Error("failed to enqueue flyer expiry", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.EnqueueFlyerExpiry(ctx); err != nil {
				log.Error("failed to enqueue flyer expiry", "error", err)
			}
		}
	}
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
