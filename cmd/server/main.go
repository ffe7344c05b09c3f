package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/afiliados-next/internal/app"
	"github.com/afiliados-next/internal/config"
	"github.com/afiliados-next/internal/constants"
	"github.com/afiliados-next/internal/logger"
	"github.com/afiliados-next/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
	ansiCyan  = "\033[36m"
)

func main() {
	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()
	mode, err := app.ParseMode(mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if missing := missingStoreSettings(cfg.Store); len(missing) > 0 {
		if cfg.Server.Mode == "release" {
			stdLog.Fatalf("登记表远端配置缺失: %s", strings.Join(missing, ", "))
		}
		stdLog.Printf("警告: 登记表远端配置缺失 (%s)，提交将返回通用错误", strings.Join(missing, ", "))
	}

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	// 自动迁移数据库表；登记表仅在直连数据库模式下由本服务维护
	affiliateTable := ""
	if strings.EqualFold(strings.TrimSpace(cfg.Store.Driver), constants.StoreDriverDatabase) {
		affiliateTable = cfg.Store.Table
	}
	if err := models.AutoMigrate(models.DB, affiliateTable); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + ansiBold + "Afiliados API" + ansiReset)
	fmt.Println(ansiGreen + "Registro de afiliados por CURP" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func missingStoreSettings(store config.StoreConfig) []string {
	if strings.EqualFold(strings.TrimSpace(store.Driver), constants.StoreDriverDatabase) {
		return nil
	}
	var missing []string
	if strings.TrimSpace(store.Postgrest.URL) == "" {
		missing = append(missing, "STORE_POSTGREST_URL")
	}
	if strings.TrimSpace(store.Postgrest.APIKey) == "" {
		missing = append(missing, "STORE_POSTGREST_API_KEY")
	}
	return missing
}
