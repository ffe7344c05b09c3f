package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/afiliados-next/internal/form"
	"github.com/afiliados-next/internal/logger"
	"github.com/afiliados-next/internal/models"
	"github.com/afiliados-next/internal/queue"
	"github.com/afiliados-next/internal/repository"
)

// 提交结果分类，表单状态中已写入对应的字段错误
var (
	ErrAffiliateValidation   = errors.New("affiliate validation failed")
	ErrAffiliateDuplicate    = errors.New("affiliate curp already registered")
	ErrAffiliateSubmitFailed = errors.New("affiliate submit failed")
)

// SubmitMeta 提交请求附带信息，仅用于审计
type SubmitMeta struct {
	ClientIP  string
	RequestID string
}

// AffiliateService 登记提交服务
type AffiliateService struct {
	repo    repository.AffiliateRepository
	audit   *RegistrationAuditService
	queue   *queue.Client
	timeout time.Duration
	now     func() time.Time
}

// NewAffiliateService 创建登记提交服务
func NewAffiliateService(repo repository.AffiliateRepository, audit *RegistrationAuditService, queueClient *queue.Client, timeout time.Duration) *AffiliateService {
	return &AffiliateService{
		repo:    repo,
		audit:   audit,
		queue:   queueClient,
		timeout: timeout,
		now:     time.Now,
	}
}

// Submit 校验并写入一条登记记录，返回提交后的表单状态
//   - 校验失败：写入字段错误，不访问远端
//   - CURP 重复：仅设置 curp 字段错误，保留表单
//   - 其他失败：设置通用错误，保留表单
//   - 成功：清空表单并写入成功提示
//
// 远端写入只发起一次，不自动重试。
func (s *AffiliateService) Submit(ctx context.Context, state form.State, meta SubmitMeta) (form.State, error) {
	state = state.Clone()
	state.Success = ""
	state.Values = state.Values.Normalized()

	if errs := form.Validate(state.Values); len(errs) > 0 {
		return state.Failed(errs), ErrAffiliateValidation
	}

	state = state.BeginSubmit()
	record := buildAffiliateRecord(state.Values)

	err := s.create(ctx, record)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrDuplicateKey):
		logger.Infow("affiliate_submit_duplicate",
			"request_id", meta.RequestID,
			"section", record.Section,
		)
		return state.Failed(form.Errors{form.FieldCURP: form.MsgCURPDuplicate}), ErrAffiliateDuplicate
	default:
		logger.Warnw("affiliate_submit_failed",
			"request_id", meta.RequestID,
			"driver", s.driver(),
			"error", err,
		)
		return state.Failed(form.Errors{form.FieldForm: form.MsgSubmitFailed}), fmt.Errorf("%w: %v", ErrAffiliateSubmitFailed, err)
	}

	logger.Infow("affiliate_submit_succeeded",
		"request_id", meta.RequestID,
		"section", record.Section,
		"driver", s.driver(),
	)
	s.recordRegistration(ctx, record, meta)
	return state.Succeeded(), nil
}

func (s *AffiliateService) create(ctx context.Context, record *models.Affiliate) error {
	if s.repo == nil {
		return errors.New("affiliate repository not configured")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.repo.Create(ctx, record)
}

func (s *AffiliateService) driver() string {
	if s.repo == nil {
		return ""
	}
	return s.repo.Driver()
}

// recordRegistration 写入审计日志，失败只记日志不影响提交结果
func (s *AffiliateService) recordRegistration(ctx context.Context, record *models.Affiliate, meta SubmitMeta) {
	payload := queue.AffiliateRegisteredPayload{
		CURP:         record.CURP,
		Section:      record.Section,
		Promoter:     record.Promoter,
		Affiliator:   record.Affiliator,
		PhoneMasked:  models.MaskPhone(record.Phone),
		ClientIP:     meta.ClientIP,
		RequestID:    meta.RequestID,
		StoreDriver:  s.driver(),
		RegisteredAt: s.now(),
	}

	if s.queue.Enabled() {
		err := s.queue.EnqueueAffiliateRegistered(ctx, payload)
		if err == nil {
			return
		}
		logger.Warnw("affiliate_registered_enqueue_failed", "request_id", meta.RequestID, "error", err)
	}
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(payload); err != nil {
		logger.Warnw("affiliate_registered_log_failed", "request_id", meta.RequestID, "error", err)
	}
}

func buildAffiliateRecord(values form.Values) *models.Affiliate {
	return &models.Affiliate{
		CURP:       values.CURP,
		Section:    values.Section,
		FullName:   values.FullName,
		Promoter:   values.Promoter,
		Affiliator: values.Affiliator,
		Phone:      values.Phone,
	}
}
