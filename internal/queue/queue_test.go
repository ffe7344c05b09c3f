package queue

import (
	"context"
	"testing"
	"time"

	"github.com/afiliados-next/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueAffiliateRegistered(context.Background(), AffiliateRegisteredPayload{CURP: "X"}); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
}

func TestAffiliateRegisteredTask(t *testing.T) {
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	task, err := NewAffiliateRegisteredTask(AffiliateRegisteredPayload{CURP: "GOMC800101HDFNRL09", Section: "12", RegisteredAt: now})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskAffiliateRegistered {
		t.Fatalf("task type want %s got %s", TaskAffiliateRegistered, task.Type())
	}
	payload, err := ParseAffiliateRegisteredPayload(task)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if payload.CURP != "GOMC800101HDFNRL09" || !payload.RegisteredAt.Equal(now) {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	if _, err := NewAffiliateRegisteredTask(AffiliateRegisteredPayload{}); err == nil {
		t.Fatalf("empty curp should be rejected")
	}
}

func TestEnqueueAffiliateRegistered(t *testing.T) {
	mr := miniredis.RunT(t)
	opt := asynq.RedisClientOpt{Addr: mr.Addr()}
	client := NewClientWithRedisOpt(opt)
	defer client.Close()

	err := client.EnqueueAffiliateRegistered(context.Background(), AffiliateRegisteredPayload{CURP: "GOMC800101HDFNRL09"})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	pending, err := mr.List("asynq:{default}:pending")
	if err != nil {
		t.Fatalf("read pending list failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending want 1 got %d", len(pending))
	}
}

func TestBuildServerConfig(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2, Concurrency: 3})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 3 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
