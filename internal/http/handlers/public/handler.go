package public

import (
	handlershared "github.com/afiliados-next/internal/http/handlers/shared"
	"github.com/afiliados-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 公开接口处理器入口
// 说明：登记页面与登记 API 均无需登录。
type Handler struct {
	*provider.Container
}

// New 创建公开处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondErrorWithData(c *gin.Context, code int, key string, data interface{}, err error) {
	handlershared.RespondErrorWithData(c, code, key, data, err)
}
