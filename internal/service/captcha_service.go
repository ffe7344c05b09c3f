package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/afiliados-next/internal/config"
	"github.com/afiliados-next/internal/constants"

	"github.com/go-resty/resty/v2"
	"github.com/mojocn/base64Captcha"
)

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID      string `json:"captcha_id" form:"captcha_id"`
	CaptchaCode    string `json:"captcha_code" form:"captcha_code"`
	TurnstileToken string `json:"turnstile_token" form:"cf-turnstile-response"`
}

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

type turnstileVerifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// CaptchaService 验证码服务
// 外部仅需要调用 Verify(ctx, scene, payload, clientIP)
// 以及图片模式下调用 GenerateImageChallenge
type CaptchaService struct {
	setting    CaptchaSetting
	httpClient *resty.Client

	mu         sync.Mutex
	imageStore base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	setting := CaptchaDefaultSetting(cfg)
	return &CaptchaService{
		setting: setting,
		httpClient: resty.New().
			SetTimeout(time.Duration(setting.Turnstile.TimeoutMS) * time.Millisecond),
	}
}

// Setting 当前生效配置
func (s *CaptchaService) Setting() CaptchaSetting {
	if s == nil {
		return CaptchaDefaultSetting(config.CaptchaConfig{})
	}
	return s.setting
}

// GetPublicSetting 获取公开可下发配置
func (s *CaptchaService) GetPublicSetting() map[string]interface{} {
	return PublicCaptchaSetting(s.Setting())
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	setting := s.Setting()
	if setting.Provider != constants.CaptchaProviderImage {
		return nil, ErrCaptchaConfigInvalid
	}

	driver := base64Captcha.NewDriverString(
		setting.Image.Height,
		setting.Image.Width,
		setting.Image.NoiseCount,
		setting.Image.ShowLine,
		setting.Image.Length,
		"23456789ABCDEFGHJKLMNPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.ensureImageStore())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 按场景校验验证码，场景未开启时直接通过
func (s *CaptchaService) Verify(ctx context.Context, scene string, payload CaptchaVerifyPayload, clientIP string) error {
	setting := s.Setting()
	if !setting.IsSceneEnabled(scene) {
		return nil
	}

	switch setting.Provider {
	case constants.CaptchaProviderImage:
		captchaID := strings.TrimSpace(payload.CaptchaID)
		captchaCode := strings.TrimSpace(payload.CaptchaCode)
		if captchaID == "" || captchaCode == "" {
			return ErrCaptchaRequired
		}
		if !s.ensureImageStore().Verify(captchaID, strings.ToUpper(captchaCode), true) {
			return ErrCaptchaInvalid
		}
		return nil
	case constants.CaptchaProviderTurnstile:
		token := strings.TrimSpace(payload.TurnstileToken)
		if token == "" {
			return ErrCaptchaRequired
		}
		return s.verifyTurnstile(ctx, setting.Turnstile, token, strings.TrimSpace(clientIP))
	default:
		return ErrCaptchaConfigInvalid
	}
}

func (s *CaptchaService) verifyTurnstile(ctx context.Context, cfg CaptchaTurnstileSetting, token, clientIP string) error {
	if cfg.SecretKey == "" || cfg.VerifyURL == "" {
		return ErrCaptchaConfigInvalid
	}

	formData := map[string]string{
		"secret":   cfg.SecretKey,
		"response": token,
	}
	if clientIP != "" {
		formData["remoteip"] = clientIP
	}

	var result turnstileVerifyResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetFormData(formData).
		SetResult(&result).
		Post(cfg.VerifyURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCaptchaVerifyFailed, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: status %d", ErrCaptchaVerifyFailed, resp.StatusCode())
	}
	if !result.Success {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) ensureImageStore() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imageStore == nil {
		s.imageStore = base64Captcha.NewMemoryStore(
			s.setting.Image.MaxStore,
			time.Duration(s.setting.Image.ExpireSeconds)*time.Second,
		)
	}
	return s.imageStore
}
