package provider

import (
	"strings"
	"time"

	"github.com/afiliados-next/internal/cache"
	"github.com/afiliados-next/internal/config"
	"github.com/afiliados-next/internal/constants"
	"github.com/afiliados-next/internal/logger"
	"github.com/afiliados-next/internal/models"
	"github.com/afiliados-next/internal/queue"
	"github.com/afiliados-next/internal/remote/postgrest"
	"github.com/afiliados-next/internal/repository"
	"github.com/afiliados-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AffiliateRepo       repository.AffiliateRepository
	RegistrationLogRepo repository.RegistrationLogRepository

	// Services
	CaptchaService     *service.CaptchaService
	AuditService       *service.RegistrationAuditService
	AffiliateService   *service.AffiliateService
	FormSessionService *service.FormSessionService
}

// NewContainer 初始化容器，依赖 models.DB 已初始化
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(models.DB)

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.RegistrationLogRepo = repository.NewRegistrationLogRepository(db)

	store := c.Config.Store
	switch strings.ToLower(strings.TrimSpace(store.Driver)) {
	case constants.StoreDriverDatabase:
		c.AffiliateRepo = repository.NewAffiliateRepository(db, store.Table)
	default:
		client := postgrest.New(postgrest.Options{
			BaseURL: store.Postgrest.URL,
			APIKey:  store.Postgrest.APIKey,
			Schema:  store.Postgrest.Schema,
			Timeout: time.Duration(store.Postgrest.TimeoutMS) * time.Millisecond,
		})
		if !client.Configured() {
			logger.Warnw("provider_postgrest_not_configured",
				"hint", "set STORE_POSTGREST_URL and STORE_POSTGREST_API_KEY",
			)
		}
		c.AffiliateRepo = repository.NewPostgrestAffiliateRepository(client, store.Table)
	}
}

func (c *Container) initServices() {
	captchaSetting := service.CaptchaDefaultSetting(c.Config.Captcha)
	if err := service.ValidateCaptchaSetting(captchaSetting); err != nil {
		logger.Warnw("provider_captcha_setting_invalid", "error", err)
	}
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)

	remoteTimeout := time.Duration(c.Config.Store.Postgrest.TimeoutMS) * time.Millisecond
	c.AuditService = service.NewRegistrationAuditService(c.RegistrationLogRepo)
	c.AffiliateService = service.NewAffiliateService(
		c.AffiliateRepo,
		c.AuditService,
		c.QueueClient,
		remoteTimeout,
	)

	formCfg := c.Config.Form
	ttl := time.Duration(formCfg.SessionTTLSeconds) * time.Second
	var store service.FormSessionStore
	if cache.Enabled() {
		configuredLock := time.Duration(formCfg.SubmitLockSeconds) * time.Second
		lockTTL := service.SubmitLockTTL(configuredLock, remoteTimeout)
		if lockTTL != configuredLock {
			logger.Warnw("provider_submit_lock_raised",
				"configured_seconds", formCfg.SubmitLockSeconds,
				"effective", lockTTL.String(),
			)
		}
		store = service.NewRedisFormSessionStore(ttl, lockTTL)
	} else {
		store = service.NewMemoryFormSessionStore(ttl, formCfg.MaxMemorySessions)
	}
	c.FormSessionService = service.NewFormSessionService(store, c.AffiliateService)

	logger.Infow("provider_initialized",
		"store_driver", c.AffiliateRepo.Driver(),
		"form_session_store", formSessionStoreName(),
		"queue_enabled", c.QueueClient.Enabled(),
	)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}

func formSessionStoreName() string {
	if cache.Enabled() {
		return "redis"
	}
	return "memory"
}
