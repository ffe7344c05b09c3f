package public

import (
	"errors"

	"github.com/afiliados-next/internal/constants"
	"github.com/afiliados-next/internal/http/response"
	"github.com/afiliados-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取图片验证码挑战
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil {
		respondError(c, response.CodeInternal, "error.captcha_unavailable", service.ErrCaptchaConfigInvalid)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaConfigInvalid):
			respondError(c, response.CodeBadRequest, "error.captcha_unavailable", nil)
		default:
			respondError(c, response.CodeInternal, "error.captcha_generate_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}

// verifySubmitCaptcha 校验登记提交场景的验证码；未配置服务时放行
func (h *Handler) verifySubmitCaptcha(c *gin.Context, payload service.CaptchaVerifyPayload) error {
	if h.CaptchaService == nil {
		return nil
	}
	return h.CaptchaService.Verify(c.Request.Context(), constants.CaptchaSceneAffiliateSubmit, payload, c.ClientIP())
}
