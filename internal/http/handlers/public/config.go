package public

import (
	"github.com/afiliados-next/internal/form"
	"github.com/afiliados-next/internal/http/response"
	"github.com/afiliados-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// GetConfig 获取页面所需的公开配置
func (h *Handler) GetConfig(c *gin.Context) {
	fields := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		fields = append(fields, string(field))
	}
	data := gin.H{
		"languages": i18n.SupportedLocales(),
		"locale":    i18n.ResolveLocale(c),
		"fields":    fields,
	}
	if h.CaptchaService != nil {
		data["captcha"] = h.CaptchaService.GetPublicSetting()
	}
	response.Success(c, data)
}
