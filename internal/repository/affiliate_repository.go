package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/afiliados-next/internal/constants"
	"github.com/afiliados-next/internal/models"
	"github.com/afiliados-next/internal/remote/postgrest"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateKey 登记表唯一约束冲突（CURP 已存在）
var ErrDuplicateKey = errors.New("duplicate key")

// AffiliateRepository 登记数据写入接口
type AffiliateRepository interface {
	Create(ctx context.Context, affiliate *models.Affiliate) error
	Driver() string
}

// GormAffiliateRepository 直连数据库实现
type GormAffiliateRepository struct {
	db    *gorm.DB
	table string
}

// NewAffiliateRepository 创建直连数据库仓储
func NewAffiliateRepository(db *gorm.DB, table string) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db, table: normalizeTable(table)}
}

// Create 插入一行，唯一约束冲突返回 ErrDuplicateKey
func (r *GormAffiliateRepository) Create(ctx context.Context, affiliate *models.Affiliate) error {
	if affiliate == nil {
		return nil
	}
	err := r.db.WithContext(ctx).Table(r.table).Create(affiliate).Error
	if isDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

// Driver 写入目标名称
func (r *GormAffiliateRepository) Driver() string {
	return constants.StoreDriverDatabase
}

// RowInserter 托管表写入能力
type RowInserter interface {
	Insert(ctx context.Context, table string, row interface{}) error
}

// PostgrestAffiliateRepository 托管表 REST 实现
type PostgrestAffiliateRepository struct {
	client RowInserter
	table  string
}

// NewPostgrestAffiliateRepository 创建托管表仓储
func NewPostgrestAffiliateRepository(client RowInserter, table string) *PostgrestAffiliateRepository {
	return &PostgrestAffiliateRepository{client: client, table: normalizeTable(table)}
}

// Create 发送一次插入请求；错误码 23505 返回 ErrDuplicateKey
func (r *PostgrestAffiliateRepository) Create(ctx context.Context, affiliate *models.Affiliate) error {
	if affiliate == nil {
		return nil
	}
	row := postgrestRow{
		CURP:       affiliate.CURP,
		Section:    affiliate.Section,
		FullName:   affiliate.FullName,
		Promoter:   affiliate.Promoter,
		Affiliator: affiliate.Affiliator,
		Phone:      affiliate.Phone,
	}
	err := r.client.Insert(ctx, r.table, row)
	if postgrest.IsUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

// Driver 写入目标名称
func (r *PostgrestAffiliateRepository) Driver() string {
	return constants.StoreDriverPostgrest
}

// postgrestRow 仅发送六个业务列，主键与时间戳由托管表生成
type postgrestRow struct {
	CURP       string `json:"curp"`
	Section    string `json:"seccion"`
	FullName   string `json:"nombre"`
	Promoter   string `json:"promotor"`
	Affiliator string `json:"afiliador"`
	Phone      string `json:"telefono"`
}

func normalizeTable(table string) string {
	table = strings.TrimSpace(table)
	if table == "" {
		return constants.DefaultAffiliateTable
	}
	return table
}

// isDuplicateKeyError 兼容 TranslateError、pgx 原始错误与 sqlite 错误文本
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == postgrest.CodeUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
