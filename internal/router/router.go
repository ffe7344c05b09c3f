package router

import (
	"context"
	"net/http"
	"time"

	"github.com/afiliados-next/internal/cache"
	"github.com/afiliados-next/internal/config"
	publichandlers "github.com/afiliados-next/internal/http/handlers/public"
	"github.com/afiliados-next/internal/logger"
	"github.com/afiliados-next/internal/provider"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()
	r.SetHTMLTemplate(publichandlers.PageTemplate())

	publicHandler := publichandlers.New(c)
	submitRule := RateLimitRule{
		Prefix:        cache.Key("rate:affiliate_submit"),
		WindowSeconds: cfg.Security.SubmitRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SubmitRateLimit.MaxRequests,
	}
	submitLimit := RateLimitMiddleware(cache.Client(), submitRule, KeyByIP)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 登记页面
	r.GET("/", publicHandler.ShowForm)
	r.POST("/", submitLimit, publicHandler.SubmitForm)

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
			public.POST("/affiliates", submitLimit, publicHandler.SubmitAffiliate)

			forms := public.Group("/forms")
			forms.POST("", publicHandler.CreateFormSession)
			forms.GET("/:id", publicHandler.GetFormSession)
			forms.PATCH("/:id/fields", publicHandler.UpdateFormField)
			forms.POST("/:id/submit", submitLimit, publicHandler.SubmitFormSession)
		}
	}

	// 健康检查
	r.GET("/healthz", healthHandler)

	return r
}

func healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	redisStatus := "disabled"
	if cache.Enabled() {
		redisStatus = "ok"
		if err := cache.Ping(ctx); err != nil {
			redisStatus = "error"
			logger.Warnw("healthz_redis_ping_failed", "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "redis": redisStatus})
}
