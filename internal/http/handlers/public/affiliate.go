package public

import (
	"github.com/afiliados-next/internal/form"
	handlershared "github.com/afiliados-next/internal/http/handlers/shared"
	"github.com/afiliados-next/internal/http/response"
	"github.com/afiliados-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// AffiliateSubmitRequest 一次性登记请求
type AffiliateSubmitRequest struct {
	form.Values
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// SubmitAffiliate 一次性提交登记（不经过表单会话）
func (h *Handler) SubmitAffiliate(c *gin.Context) {
	var req AffiliateSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.verifySubmitCaptcha(c, req.CaptchaPayload.ToServicePayload()); err != nil {
		respondCaptchaError(c, err)
		return
	}
	if h.AffiliateService == nil {
		respondError(c, response.CodeInternal, "form.submit_failed", nil)
		return
	}

	locale := i18n.ResolveLocale(c)
	state, err := h.AffiliateService.Submit(c.Request.Context(), stateFromValues(req.Values), handlershared.SubmitMeta(c))
	data := gin.H{"form": newFormStateView(locale, "", state)}
	if err != nil {
		respondAffiliateSubmitError(c, err, data)
		return
	}
	response.SuccessWithMsg(c, i18n.T(locale, form.MsgSubmitSuccess), data)
}
