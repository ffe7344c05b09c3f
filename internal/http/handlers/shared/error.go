package shared

import (
	"github.com/afiliados-next/internal/http/response"
	"github.com/afiliados-next/internal/i18n"
	"github.com/afiliados-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if id := RequestID(c); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithData(c, code, key, nil, err)
}

// RespondErrorWithData 返回带数据的国际化错误响应。
// 4xx 记 warn，5xx 记 error；err 为空时不记日志。
func RespondErrorWithData(c *gin.Context, code int, key string, data interface{}, err error) {
	locale := i18n.ResolveLocale(c)
	appErr := response.WrapError(code, key, err).Localize(func(key string) string {
		return i18n.T(locale, key)
	})
	if err != nil {
		log := RequestLog(c).With("code", appErr.Code, "key", appErr.Key, "error", err)
		if appErr.Internal() {
			log.Errorw("handler_error")
		} else {
			log.Warnw("handler_error")
		}
	}
	appErr.Respond(c, data)
}
