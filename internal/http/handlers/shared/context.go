package shared

import (
	"github.com/afiliados-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RequestID 读取请求追踪 ID
func RequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}

// SubmitMeta 构建提交审计信息
func SubmitMeta(c *gin.Context) service.SubmitMeta {
	return service.SubmitMeta{
		ClientIP:  c.ClientIP(),
		RequestID: RequestID(c),
	}
}
