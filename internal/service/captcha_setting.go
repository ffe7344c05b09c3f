package service

import (
	"fmt"
	"strings"

	"github.com/afiliados-next/internal/config"
	"github.com/afiliados-next/internal/constants"
)

const defaultTurnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// CaptchaSceneSetting 验证码场景配置
type CaptchaSceneSetting struct {
	AffiliateSubmit bool `json:"affiliate_submit"`
}

// CaptchaImageSetting 图片验证码配置
type CaptchaImageSetting struct {
	Length        int `json:"length"`
	Width         int `json:"width"`
	Height        int `json:"height"`
	NoiseCount    int `json:"noise_count"`
	ShowLine      int `json:"show_line"`
	ExpireSeconds int `json:"expire_seconds"`
	MaxStore      int `json:"max_store"`
}

// CaptchaTurnstileSetting Turnstile 配置
type CaptchaTurnstileSetting struct {
	SiteKey   string `json:"site_key"`
	SecretKey string `json:"secret_key"`
	VerifyURL string `json:"verify_url"`
	TimeoutMS int    `json:"timeout_ms"`
}

// CaptchaSetting 验证码配置实体
type CaptchaSetting struct {
	Provider  string                  `json:"provider"`
	Scenes    CaptchaSceneSetting     `json:"scenes"`
	Image     CaptchaImageSetting     `json:"image"`
	Turnstile CaptchaTurnstileSetting `json:"turnstile"`
}

// CaptchaDefaultSetting 从配置文件构建验证码配置
func CaptchaDefaultSetting(cfg config.CaptchaConfig) CaptchaSetting {
	return NormalizeCaptchaSetting(CaptchaSetting{
		Provider: cfg.Provider,
		Scenes: CaptchaSceneSetting{
			AffiliateSubmit: cfg.Scenes.AffiliateSubmit,
		},
		Image: CaptchaImageSetting{
			Length:        cfg.Image.Length,
			Width:         cfg.Image.Width,
			Height:        cfg.Image.Height,
			NoiseCount:    cfg.Image.NoiseCount,
			ShowLine:      cfg.Image.ShowLine,
			ExpireSeconds: cfg.Image.ExpireSeconds,
			MaxStore:      cfg.Image.MaxStore,
		},
		Turnstile: CaptchaTurnstileSetting{
			SiteKey:   cfg.Turnstile.SiteKey,
			SecretKey: cfg.Turnstile.SecretKey,
			VerifyURL: cfg.Turnstile.VerifyURL,
			TimeoutMS: cfg.Turnstile.TimeoutMS,
		},
	})
}

// NormalizeCaptchaSetting 归一化验证码配置
func NormalizeCaptchaSetting(setting CaptchaSetting) CaptchaSetting {
	provider := strings.ToLower(strings.TrimSpace(setting.Provider))
	switch provider {
	case constants.CaptchaProviderImage, constants.CaptchaProviderTurnstile, constants.CaptchaProviderNone:
		setting.Provider = provider
	default:
		setting.Provider = constants.CaptchaProviderNone
	}

	if setting.Image.Length < 4 || setting.Image.Length > 8 {
		setting.Image.Length = 5
	}
	if setting.Image.Width < 100 {
		setting.Image.Width = 240
	}
	if setting.Image.Height < 40 {
		setting.Image.Height = 80
	}
	if setting.Image.NoiseCount < 0 {
		setting.Image.NoiseCount = 2
	}
	if setting.Image.ShowLine < 0 {
		setting.Image.ShowLine = 2
	}
	if setting.Image.ExpireSeconds < 30 || setting.Image.ExpireSeconds > 3600 {
		setting.Image.ExpireSeconds = 300
	}
	if setting.Image.MaxStore < 100 {
		setting.Image.MaxStore = 10240
	}

	setting.Turnstile.SiteKey = strings.TrimSpace(setting.Turnstile.SiteKey)
	setting.Turnstile.SecretKey = strings.TrimSpace(setting.Turnstile.SecretKey)
	setting.Turnstile.VerifyURL = strings.TrimSpace(setting.Turnstile.VerifyURL)
	if setting.Turnstile.VerifyURL == "" {
		setting.Turnstile.VerifyURL = defaultTurnstileVerifyURL
	}
	if setting.Turnstile.TimeoutMS < 500 || setting.Turnstile.TimeoutMS > 10000 {
		setting.Turnstile.TimeoutMS = 2000
	}
	return setting
}

// ValidateCaptchaSetting 校验验证码配置，启动时调用
func ValidateCaptchaSetting(setting CaptchaSetting) error {
	normalized := NormalizeCaptchaSetting(setting)
	if normalized.Provider == constants.CaptchaProviderNone && normalized.Scenes.AffiliateSubmit {
		return fmt.Errorf("%w: scene enabled without provider", ErrCaptchaConfigInvalid)
	}
	if normalized.Provider == constants.CaptchaProviderTurnstile {
		if normalized.Turnstile.SiteKey == "" {
			return fmt.Errorf("%w: turnstile site key is empty", ErrCaptchaConfigInvalid)
		}
		if normalized.Turnstile.SecretKey == "" {
			return fmt.Errorf("%w: turnstile secret key is empty", ErrCaptchaConfigInvalid)
		}
	}
	return nil
}

// PublicCaptchaSetting 前台可见配置，不包含密钥
func PublicCaptchaSetting(setting CaptchaSetting) map[string]interface{} {
	result := map[string]interface{}{
		"provider": setting.Provider,
		"scenes": map[string]interface{}{
			constants.CaptchaSceneAffiliateSubmit: setting.Scenes.AffiliateSubmit,
		},
	}
	if setting.Provider == constants.CaptchaProviderTurnstile {
		result["turnstile"] = map[string]interface{}{
			"site_key": setting.Turnstile.SiteKey,
		}
	}
	return result
}

// IsSceneEnabled 场景是否需要验证码
func (s CaptchaSetting) IsSceneEnabled(scene string) bool {
	if s.Provider == constants.CaptchaProviderNone {
		return false
	}
	switch strings.TrimSpace(scene) {
	case constants.CaptchaSceneAffiliateSubmit:
		return s.Scenes.AffiliateSubmit
	default:
		return false
	}
}
