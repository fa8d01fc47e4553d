package scheduler

import (
	"context"
	"fmt"
	"time"

	"renoquote_backend/platform/config"
	"renoquote_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// FlyerExpirer removes stale flyers. Implemented by the flyers service.
type FlyerExpirer interface {
	ExpireStale(ctx context.Context, retention time.Duration) (int, error)
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	flyers    FlyerExpirer
	retention time.Duration
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, flyers FlyerExpirer, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		flyers:    flyers,
		retention: cfg.GetFlyerRetention(),
		log:       log,
	}

	mux.HandleFunc(TaskFlyerExpiry, w.handleFlyerExpiry)

	return w, nil
}

func (w *Worker) handleFlyerExpiry(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFlyerExpiryPayload(task)
	if err != nil {
		return err
	}

	removed, err := w.flyers.ExpireStale(ctx, w.retention)
	if err != nil {
		return err
	}

	w.log.Info("flyer expiry sweep finished", "removed", removed, "requestedAt", payload.RequestedAt)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
