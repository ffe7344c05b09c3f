package form

import "strings"

// Field 表单字段名，同时也是远端表的列名
type Field string

// 登记表单字段
const (
	FieldCURP       Field = "curp"
	FieldSection    Field = "seccion"
	FieldFullName   Field = "nombre"
	FieldPromoter   Field = "promotor"
	FieldAffiliator Field = "afiliador"
	FieldPhone      Field = "telefono"
)

// FieldForm 非字段级错误（整体提交失败）使用的键
const FieldForm Field = "_form"

// Fields 按页面展示顺序列出全部字段
var Fields = []Field{
	FieldCURP,
	FieldSection,
	FieldFullName,
	FieldPromoter,
	FieldAffiliator,
	FieldPhone,
}

// ParseField 解析字段名，未知字段返回 false
func ParseField(raw string) (Field, bool) {
	candidate := Field(strings.ToLower(strings.TrimSpace(raw)))
	for _, field := range Fields {
		if field == candidate {
			return field, true
		}
	}
	return "", false
}

// Values 表单字段取值
type Values struct {
	CURP       string `json:"curp" form:"curp"`
	Section    string `json:"seccion" form:"seccion"`
	FullName   string `json:"nombre" form:"nombre"`
	Promoter   string `json:"promotor" form:"promotor"`
	Affiliator string `json:"afiliador" form:"afiliador"`
	Phone      string `json:"telefono" form:"telefono"`
}

// Get 读取字段值
func (v Values) Get(field Field) string {
	switch field {
	case FieldCURP:
		return v.CURP
	case FieldSection:
		return v.Section
	case FieldFullName:
		return v.FullName
	case FieldPromoter:
		return v.Promoter
	case FieldAffiliator:
		return v.Affiliator
	case FieldPhone:
		return v.Phone
	default:
		return ""
	}
}

// with 返回仅替换目标字段的副本
func (v Values) with(field Field, value string) Values {
	switch field {
	case FieldCURP:
		v.CURP = value
	case FieldSection:
		v.Section = value
	case FieldFullName:
		v.FullName = value
	case FieldPromoter:
		v.Promoter = value
	case FieldAffiliator:
		v.Affiliator = value
	case FieldPhone:
		v.Phone = value
	}
	return v
}

// Normalized 对全部字段做归一化
func (v Values) Normalized() Values {
	out := v
	for _, field := range Fields {
		out = out.with(field, Normalize(field, v.Get(field)))
	}
	return out
}
