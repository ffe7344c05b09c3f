package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/afiliados-next/internal/config"
	"github.com/afiliados-next/internal/logger"

	"go.uber.org/zap"
)

// 启动模式：all 同时提供登记页面/API 与审计 worker
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	// 停机时为正在进行的远端写入预留的额外时间
	shutdownGrace = 2 * time.Second
)

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// ParseMode 校验启动模式，空值视为 all
func ParseMode(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "":
		return ModeAll, nil
	case ModeAll, ModeAPI, ModeWorker:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown mode: %s", raw)
	}
}

// servesHTTP 是否启动登记页面与 API
func servesHTTP(mode string) bool {
	return mode == ModeAll || mode == ModeAPI
}

// runsWorker 是否启动审计 worker；all 模式仅在队列启用时启动
func runsWorker(mode string, queueEnabled bool) bool {
	return mode == ModeWorker || (mode == ModeAll && queueEnabled)
}

// normalizeOptions 补齐默认参数
// 未指定停机超时时，至少覆盖一次远端写入，避免提交中途被中断
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
		if opts.Config != nil {
			remote := time.Duration(opts.Config.Store.Postgrest.TimeoutMS) * time.Millisecond
			opts.ShutdownTimeout = max(opts.ShutdownTimeout, remote+shutdownGrace)
		}
	}
	if mode, err := ParseMode(opts.Mode); err == nil {
		opts.Mode = mode
	}
	return opts
}
