package public

import (
	"errors"

	"github.com/afiliados-next/internal/http/response"
	"github.com/afiliados-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

// respondWithMappedError 命中规则时不记录原始错误，未命中时按兜底响应并记录。
func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, data interface{}, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondErrorWithData(c, rule.code, rule.key, data, nil)
			return
		}
	}
	respondErrorWithData(c, fallbackCode, fallbackKey, data, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
	{target: service.ErrCaptchaConfigInvalid, code: response.CodeInternal, key: "error.captcha_config_invalid"},
}

var affiliateSubmitErrorRules = []mappedHandlerError{
	{target: service.ErrAffiliateValidation, code: response.CodeBadRequest, key: "error.form_invalid"},
	{target: service.ErrAffiliateDuplicate, code: response.CodeConflict, key: "form.curp_duplicate"},
	{target: service.ErrAffiliateSubmitFailed, code: response.CodeInternal, key: "form.submit_failed"},
}

var formSessionErrorRules = []mappedHandlerError{
	{target: service.ErrFormSessionNotFound, code: response.CodeNotFound, key: "error.form_not_found"},
	{target: service.ErrFormFieldInvalid, code: response.CodeBadRequest, key: "error.form_field_invalid"},
	{target: service.ErrSubmissionInProgress, code: response.CodeConflict, key: "error.submission_in_progress"},
}

func respondCaptchaError(c *gin.Context, err error) {
	respondWithMappedError(c, err, captchaErrorRules, nil, response.CodeInternal, "error.captcha_verify_failed")
}

func respondAffiliateSubmitError(c *gin.Context, err error, data interface{}) {
	respondWithMappedError(c, err, affiliateSubmitErrorRules, data, response.CodeInternal, "form.submit_failed")
}

func respondFormSessionError(c *gin.Context, err error, data interface{}) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(formSessionErrorRules, affiliateSubmitErrorRules), data, response.CodeInternal, "error.form_save_failed")
}

// captchaErrorKey 返回页面内联展示用的验证码错误 key
func captchaErrorKey(err error) string {
	for _, rule := range captchaErrorRules {
		if errors.Is(err, rule.target) {
			return rule.key
		}
	}
	return "error.captcha_verify_failed"
}
