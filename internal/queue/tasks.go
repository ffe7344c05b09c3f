package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/afiliados-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskAffiliateRegistered 登记成功审计任务
	TaskAffiliateRegistered = constants.TaskAffiliateRegistered
)

// AffiliateRegisteredPayload 登记成功审计任务载荷
// 电话只传掩码
type AffiliateRegisteredPayload struct {
	CURP         string    `json:"curp"`
	Section      string    `json:"section"`
	Promoter     string    `json:"promoter"`
	Affiliator   string    `json:"affiliator"`
	PhoneMasked  string    `json:"phone_masked"`
	ClientIP     string    `json:"client_ip"`
	RequestID    string    `json:"request_id"`
	StoreDriver  string    `json:"store_driver"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewAffiliateRegisteredTask 创建登记成功审计任务
func NewAffiliateRegisteredTask(payload AffiliateRegisteredPayload) (*asynq.Task, error) {
	if strings.TrimSpace(payload.CURP) == "" {
		return nil, fmt.Errorf("affiliate registered payload: empty curp")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAffiliateRegistered, body), nil
}

// ParseAffiliateRegisteredPayload 解析任务载荷
func ParseAffiliateRegisteredPayload(task *asynq.Task) (AffiliateRegisteredPayload, error) {
	var payload AffiliateRegisteredPayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
