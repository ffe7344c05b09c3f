package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/afiliados-next/internal/config"
	"github.com/afiliados-next/internal/export"
	"github.com/afiliados-next/internal/logger"
	"github.com/afiliados-next/internal/models"
	"github.com/afiliados-next/internal/repository"
	"github.com/afiliados-next/internal/service"
)

func main() {
	var (
		out      string
		promoter string
		section  string
		from     string
		to       string
	)
	flag.StringVar(&out, "out", "afiliados.xlsx", "输出文件路径")
	flag.StringVar(&promoter, "promoter", "", "按推广人过滤")
	flag.StringVar(&section, "section", "", "按选区过滤")
	flag.StringVar(&from, "from", "", "起始日期 YYYY-MM-DD")
	flag.StringVar(&to, "to", "", "结束日期 YYYY-MM-DD（含当天）")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	registeredFrom, registeredTo, err := export.ParseDateRange(from, to, time.Local)
	if err != nil {
		stdLog.Fatalf("日期参数无效: %v", err)
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(models.DB, ""); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	audit := service.NewRegistrationAuditService(repository.NewRegistrationLogRepository(models.DB))
	filter := repository.RegistrationLogListFilter{
		Promoter:       strings.ToUpper(strings.TrimSpace(promoter)),
		Section:        strings.TrimSpace(section),
		RegisteredFrom: registeredFrom,
		RegisteredTo:   registeredTo,
	}
	logs, err := export.CollectRegistrationLogs(audit, filter)
	if err != nil {
		stdLog.Fatalf("Failed to load registration logs: %v", err)
	}
	summary, err := audit.Summarize(filter)
	if err != nil {
		stdLog.Fatalf("Failed to summarize registration logs: %v", err)
	}

	file, err := os.Create(out)
	if err != nil {
		stdLog.Fatalf("Failed to create %s: %v", out, err)
	}
	if err := export.WriteRegistrationLogs(file, logs, summary, time.Local); err != nil {
		_ = file.Close()
		stdLog.Fatalf("Failed to write %s: %v", out, err)
	}
	if err := file.Close(); err != nil {
		stdLog.Fatalf("Failed to close %s: %v", out, err)
	}

	logger.Infow("registration_export_done", "file", out, "rows", len(logs))
	fmt.Printf("Exported %d registrations to %s\n", len(logs), out)
}
