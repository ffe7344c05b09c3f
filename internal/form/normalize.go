package form

import (
	"strings"
	"unicode"
)

// Normalize 按字段规则整理输入
//   - seccion / telefono：仅保留数字
//   - curp：去除首尾空白并转大写
//   - 姓名类字段：转大写
//
// 对同一输入重复调用结果不变。
func Normalize(field Field, raw string) string {
	switch field {
	case FieldSection, FieldPhone:
		return digitsOnly(raw)
	case FieldCURP:
		return strings.ToUpper(strings.TrimSpace(raw))
	case FieldFullName, FieldPromoter, FieldAffiliator:
		return strings.ToUpper(raw)
	default:
		return raw
	}
}

func digitsOnly(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isBlank 判断姓名类字段是否为空（仅含空白视为空）
func isBlank(value string) bool {
	return strings.IndexFunc(value, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
