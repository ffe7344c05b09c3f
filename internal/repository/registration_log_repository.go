package repository

import (
	"github.com/afiliados-next/internal/models"

	"gorm.io/gorm"
)

// RegistrationLogRepository 登记审计日志数据访问接口
type RegistrationLogRepository interface {
	Create(log *models.RegistrationLog) error
	List(filter RegistrationLogListFilter) ([]models.RegistrationLog, int64, error)
	Summarize(filter RegistrationLogListFilter) ([]RegistrationDailySummary, error)
}

// GormRegistrationLogRepository GORM 实现
type GormRegistrationLogRepository struct {
	db *gorm.DB
}

// NewRegistrationLogRepository 创建登记审计日志仓库
func NewRegistrationLogRepository(db *gorm.DB) *GormRegistrationLogRepository {
	return &GormRegistrationLogRepository{db: db}
}

// Create 写入审计日志
func (r *GormRegistrationLogRepository) Create(log *models.RegistrationLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// List 按条件查询，PageSize 为 0 时返回全部
func (r *GormRegistrationLogRepository) List(filter RegistrationLogListFilter) ([]models.RegistrationLog, int64, error) {
	query := applyRegistrationLogFilter(r.db.Model(&models.RegistrationLog{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = pageRegistrationLogs(query, filter.Page, filter.PageSize)
	var logs []models.RegistrationLog
	if err := query.Order("registered_at ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// Summarize 按天与推广人统计登记数量，忽略分页参数
func (r *GormRegistrationLogRepository) Summarize(filter RegistrationLogListFilter) ([]RegistrationDailySummary, error) {
	day := dayBucketExpr(r.db, "registered_at")
	query := applyRegistrationLogFilter(r.db.Model(&models.RegistrationLog{}), filter)

	var rows []RegistrationDailySummary
	err := query.
		Select(day + " AS day, promoter, COUNT(*) AS total").
		Group(day + ", promoter").
		Order("day ASC, promoter ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func applyRegistrationLogFilter(query *gorm.DB, filter RegistrationLogListFilter) *gorm.DB {
	if filter.Promoter != "" {
		query = query.Where("promoter = ?", filter.Promoter)
	}
	if filter.Section != "" {
		query = query.Where("section = ?", filter.Section)
	}
	if filter.RegisteredFrom != nil {
		query = query.Where("registered_at >= ?", *filter.RegisteredFrom)
	}
	if filter.RegisteredTo != nil {
		query = query.Where("registered_at < ?", *filter.RegisteredTo)
	}
	return query
}

// pageRegistrationLogs 导出工具按页拉取；pageSize<=0 不分页，页码小于 1 视为第 1 页
func pageRegistrationLogs(query *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return query
	}
	page = max(page, 1)
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
