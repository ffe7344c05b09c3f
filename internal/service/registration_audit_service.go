package service

import (
	"errors"
	"strings"
	"time"

	"github.com/afiliados-next/internal/form"
	"github.com/afiliados-next/internal/models"
	"github.com/afiliados-next/internal/queue"
	"github.com/afiliados-next/internal/repository"
)

// ErrAuditPayloadInvalid 审计载荷缺少 CURP
var ErrAuditPayloadInvalid = errors.New("registration audit payload invalid")

// RegistrationAuditService 登记审计日志服务
type RegistrationAuditService struct {
	repo repository.RegistrationLogRepository
}

// NewRegistrationAuditService 创建登记审计日志服务
func NewRegistrationAuditService(repo repository.RegistrationLogRepository) *RegistrationAuditService {
	return &RegistrationAuditService{repo: repo}
}

// Record 写入一条审计日志
func (s *RegistrationAuditService) Record(payload queue.AffiliateRegisteredPayload) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if strings.TrimSpace(payload.CURP) == "" {
		return ErrAuditPayloadInvalid
	}
	registeredAt := payload.RegisteredAt
	if registeredAt.IsZero() {
		registeredAt = time.Now()
	}
	row := &models.RegistrationLog{
		CURP:         payload.CURP,
		Section:      payload.Section,
		Promoter:     payload.Promoter,
		Affiliator:   payload.Affiliator,
		PhoneMasked:  payload.PhoneMasked,
		ClientIP:     payload.ClientIP,
		RequestID:    payload.RequestID,
		StoreDriver:  payload.StoreDriver,
		RegisteredAt: registeredAt,
	}
	if info, err := form.DecodeCURP(payload.CURP); err == nil {
		row.BirthDate = info.BirthDate
		row.Sex = string(info.Sex)
		row.StateCode = info.StateCode
	}
	return s.repo.Create(row)
}

// List 查询审计日志
func (s *RegistrationAuditService) List(filter repository.RegistrationLogListFilter) ([]models.RegistrationLog, int64, error) {
	return s.repo.List(filter)
}

// Summarize 按天与推广人汇总
func (s *RegistrationAuditService) Summarize(filter repository.RegistrationLogListFilter) ([]repository.RegistrationDailySummary, error) {
	return s.repo.Summarize(filter)
}
