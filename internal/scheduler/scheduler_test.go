package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"renoquote_backend/platform/logger"
)

type stubConfig struct {
	redisURL string
}

func (s stubConfig) GetRedisURL() string                   { return s.redisURL }
func (s stubConfig) GetRedisTLSInsecure() bool             { return false }
func (s stubConfig) GetAsynqQueueName() string             { return "default" }
func (s stubConfig) GetAsynqConcurrency() int              { return 2 }
func (s stubConfig) GetFlyerRetention() time.Duration      { return 30 * 24 * time.Hour }
func (s stubConfig) GetFlyerExpiryInterval() time.Duration { return time.Hour }

type stubExpirer struct {
	calls     int
	retention time.Duration
}

func (s *stubExpirer) ExpireStale(_ context.Context, retention time.Duration) (int, error) {
	s.calls++
	s.retention = retention
	return 3, nil
}

func TestFlyerExpiryTaskRoundTrip(t *testing.T) {
	requested := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	task, err := NewFlyerExpiryTask(FlyerExpiryPayload{RequestedAt: requested})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TaskFlyerExpiry {
		t.Fatalf("expected task type %q, got %q", TaskFlyerExpiry, task.Type())
	}

	payload, err := ParseFlyerExpiryPayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payload.RequestedAt.Equal(requested) {
		t.Fatalf("expected requestedAt %v, got %v", requested, payload.RequestedAt)
	}
}

func TestNewClient_RequiresRedisURL(t *testing.T) {
	if _, err := NewClient(stubConfig{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestNewWorker_RequiresRedisURL(t *testing.T) {
	if _, err := NewWorker(stubConfig{}, &stubExpirer{}, logger.New("test")); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestClient_EnqueueFlyerExpiry(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(stubConfig{redisURL: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if err := client.EnqueueFlyerExpiry(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(srv.Keys()) == 0 {
		t.Fatal("expected enqueued task keys in redis")
	}
}

func TestWorker_HandleFlyerExpiry(t *testing.T) {
	srv := miniredis.RunT(t)

	expirer := &stubExpirer{}
	cfg := stubConfig{redisURL: "redis://" + srv.Addr()}
	worker, err := NewWorker(cfg, expirer, logger.New("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	task, err := NewFlyerExpiryTask(FlyerExpiryPayload{RequestedAt: time.Now()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := worker.handleFlyerExpiry(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expirer.calls != 1 {
		t.Fatalf("expected 1 expiry call, got %d", expirer.calls)
	}
	if expirer.retention != cfg.GetFlyerRetention() {
		t.Fatalf("expected retention %v, got %v", cfg.GetFlyerRetention(), expirer.retention)
	}
}
