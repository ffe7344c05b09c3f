package public

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/afiliados-next/internal/constants"
	"github.com/afiliados-next/internal/form"
	handlershared "github.com/afiliados-next/internal/http/handlers/shared"
	"github.com/afiliados-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// PageTemplateName 登记页模板名
const PageTemplateName = "form.html"

//go:embed templates/*.html
var templateFS embed.FS

// PageTemplate 解析内嵌页面模板，供 gin.Engine.SetHTMLTemplate 使用
func PageTemplate() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

type pageField struct {
	Name      string
	Label     string
	Value     string
	Error     string
	InputMode string
}

type pageView struct {
	Locale           string
	Title            string
	Fields           []pageField
	FormError        string
	Success          string
	SubmitLabel      string
	SubmittingLabel  string
	NetworkError     string
	CaptchaLabel     string
	CaptchaProvider  string
	TurnstileSiteKey string
}

// ShowForm 渲染空白登记页
func (h *Handler) ShowForm(c *gin.Context) {
	h.renderForm(c, form.NewState())
}

// SubmitForm 处理无脚本环境下的表单提交并重新渲染页面
func (h *Handler) SubmitForm(c *gin.Context) {
	state := form.NewState()
	for _, field := range form.Fields {
		state = state.With(field, c.PostForm(string(field)))
	}

	var captchaReq handlershared.CaptchaPayloadRequest
	if err := c.ShouldBind(&captchaReq); err != nil {
		handlershared.RequestLog(c).Debugw("page_captcha_bind_failed", "error", err)
	}
	if err := h.verifySubmitCaptcha(c, captchaReq.ToServicePayload()); err != nil {
		handlershared.RequestLog(c).Infow("page_captcha_rejected", "error", err)
		h.renderForm(c, state.Failed(form.Errors{form.FieldForm: captchaErrorKey(err)}))
		return
	}
	if h.AffiliateService == nil {
		h.renderForm(c, state.Failed(form.Errors{form.FieldForm: form.MsgSubmitFailed}))
		return
	}

	next, _ := h.AffiliateService.Submit(c.Request.Context(), state, handlershared.SubmitMeta(c))
	h.renderForm(c, next)
}

func (h *Handler) renderForm(c *gin.Context, state form.State) {
	locale := i18n.ResolveLocale(c)
	view := pageView{
		Locale:          locale,
		Title:           i18n.T(locale, "page.title"),
		SubmitLabel:     i18n.T(locale, "page.button.submit"),
		SubmittingLabel: i18n.T(locale, "page.button.submitting"),
		NetworkError:    i18n.T(locale, "page.network_error"),
		CaptchaLabel:    i18n.T(locale, "page.label.captcha"),
		CaptchaProvider: constants.CaptchaProviderNone,
	}
	for _, field := range form.Fields {
		item := pageField{
			Name:  string(field),
			Label: i18n.T(locale, "page.label."+string(field)),
			Value: state.Values.Get(field),
		}
		if key := state.Error(field); key != "" {
			item.Error = i18n.T(locale, key)
		}
		// 不设 maxlength，粘贴的带分隔符号码需先归一化再校验长度
		if field == form.FieldSection || field == form.FieldPhone {
			item.InputMode = "numeric"
		}
		view.Fields = append(view.Fields, item)
	}
	if key := state.Error(form.FieldForm); key != "" {
		view.FormError = i18n.T(locale, key)
	}
	if state.Success != "" {
		view.Success = i18n.T(locale, state.Success)
	}
	if h.CaptchaService != nil {
		setting := h.CaptchaService.Setting()
		if setting.IsSceneEnabled(constants.CaptchaSceneAffiliateSubmit) {
			view.CaptchaProvider = setting.Provider
			view.TurnstileSiteKey = setting.Turnstile.SiteKey
		}
	}
	c.HTML(http.StatusOK, PageTemplateName, view)
}
