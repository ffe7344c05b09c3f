package public

import (
	"errors"
	"io"

	"github.com/afiliados-next/internal/cache"
	"github.com/afiliados-next/internal/form"
	handlershared "github.com/afiliados-next/internal/http/handlers/shared"
	"github.com/afiliados-next/internal/http/response"
	"github.com/afiliados-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// FormFieldUpdateRequest 字段变更请求
type FormFieldUpdateRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// FormSubmitRequest 会话提交请求，未启用验证码时可为空
type FormSubmitRequest struct {
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

func sessionData(locale string, session *cache.FormSession) interface{} {
	if session == nil {
		return nil
	}
	return gin.H{"form": newFormStateView(locale, session.ID, session.State)}
}

// CreateFormSession 创建表单会话
func (h *Handler) CreateFormSession(c *gin.Context) {
	if h.FormSessionService == nil {
		respondError(c, response.CodeInternal, "error.form_save_failed", nil)
		return
	}
	locale := i18n.ResolveLocale(c)
	session, err := h.FormSessionService.Create(c.Request.Context(), locale)
	if err != nil {
		respondFormSessionError(c, err, nil)
		return
	}
	response.Success(c, sessionData(locale, session))
}

// GetFormSession 读取表单会话
func (h *Handler) GetFormSession(c *gin.Context) {
	if h.FormSessionService == nil {
		respondError(c, response.CodeNotFound, "error.form_not_found", nil)
		return
	}
	session, err := h.FormSessionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondFormSessionError(c, err, nil)
		return
	}
	response.Success(c, sessionData(i18n.ResolveLocale(c), session))
}

// UpdateFormField 归一化并写入单个字段
func (h *Handler) UpdateFormField(c *gin.Context) {
	var req FormFieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if h.FormSessionService == nil {
		respondError(c, response.CodeNotFound, "error.form_not_found", nil)
		return
	}
	session, err := h.FormSessionService.UpdateField(c.Request.Context(), c.Param("id"), req.Field, req.Value)
	if err != nil {
		respondFormSessionError(c, err, nil)
		return
	}
	response.Success(c, sessionData(i18n.ResolveLocale(c), session))
}

// SubmitFormSession 提交表单会话
func (h *Handler) SubmitFormSession(c *gin.Context) {
	var req FormSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.verifySubmitCaptcha(c, req.CaptchaPayload.ToServicePayload()); err != nil {
		respondCaptchaError(c, err)
		return
	}
	if h.FormSessionService == nil {
		respondError(c, response.CodeNotFound, "error.form_not_found", nil)
		return
	}

	locale := i18n.ResolveLocale(c)
	session, err := h.FormSessionService.Submit(c.Request.Context(), c.Param("id"), handlershared.SubmitMeta(c))
	data := sessionData(locale, session)
	if err != nil {
		respondFormSessionError(c, err, data)
		return
	}
	response.SuccessWithMsg(c, i18n.T(locale, form.MsgSubmitSuccess), data)
}
