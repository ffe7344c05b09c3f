package i18n

import (
	"fmt"
	"strings"

	"github.com/afiliados-next/internal/constants"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	localeQueryKey  = "lang"
	localeHeaderKey = "X-Locale"
)

var supportedTags = []language.Tag{
	language.MustParse(constants.LocaleESMX), // 第一项为默认语言
	language.MustParse(constants.LocaleENUS),
}

var matcher = language.NewMatcher(supportedTags)

// SupportedLocales 返回支持的语言列表
func SupportedLocales() []string {
	return []string{constants.LocaleESMX, constants.LocaleENUS}
}

// ResolveLocale 解析请求语言
// 优先级：?lang= > X-Locale > Accept-Language > 默认
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return constants.LocaleDefault
	}
	candidates := []string{
		strings.TrimSpace(c.Query(localeQueryKey)),
		strings.TrimSpace(c.GetHeader(localeHeaderKey)),
		strings.TrimSpace(c.GetHeader("Accept-Language")),
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if locale, ok := Match(candidate); ok {
			return locale
		}
	}
	return constants.LocaleDefault
}

// Match 将任意语言标签匹配到支持的语言
func Match(raw string) (string, bool) {
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	return SupportedLocales()[index], true
}

// T 翻译指定 key，缺失时依次回退到默认语言与 key 本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[constants.LocaleDefault][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
