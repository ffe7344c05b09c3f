package worker

import (
	"context"
	"strings"

	"github.com/afiliados-next/internal/logger"
	"github.com/afiliados-next/internal/provider"
	"github.com/afiliados-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskAffiliateRegistered, c.handleAffiliateRegistered)
}

func (c *Consumer) handleAffiliateRegistered(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_affiliate_registered_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseAffiliateRegisteredPayload(task)
	if err != nil {
		logger.Warnw("worker_affiliate_registered_unmarshal_failed", "error", err)
		// 载荷损坏重试无意义
		return asynq.SkipRetry
	}
	if strings.TrimSpace(payload.CURP) == "" {
		logger.Debugw("worker_affiliate_registered_skip_invalid_payload", "request_id", payload.RequestID)
		return nil
	}
	if c.Container == nil || c.AuditService == nil {
		logger.Warnw("worker_affiliate_registered_skip_audit_service_nil", "request_id", payload.RequestID)
		return nil
	}
	if err := c.AuditService.Record(payload); err != nil {
		logger.Warnw("worker_affiliate_registered_record_failed",
			"request_id", payload.RequestID,
			"section", payload.Section,
			"error", err,
		)
		return err
	}
	logger.Debugw("worker_affiliate_registered_recorded", "request_id", payload.RequestID)
	return nil
}
