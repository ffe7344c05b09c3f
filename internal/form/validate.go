package form

import "regexp"

var (
	curpPattern    = regexp.MustCompile(`^[A-Z]{1}[AEIOUX]{1}[A-Z]{2}\d{2}(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])[HM]{1}[A-Z]{2}[B-DF-HJ-NP-TV-Z]{3}[A-Z0-9]{1}\d{1}$`)
	sectionPattern = regexp.MustCompile(`^\d{1,4}$`)
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
)

// 校验失败时使用的消息 key
const (
	MsgCURPInvalid        = "form.curp_invalid"
	MsgCURPDuplicate      = "form.curp_duplicate"
	MsgSectionInvalid     = "form.section_invalid"
	MsgNameRequired       = "form.name_required"
	MsgPromoterRequired   = "form.promoter_required"
	MsgAffiliatorRequired = "form.affiliator_required"
	MsgPhoneInvalid       = "form.phone_invalid"
	MsgSubmitFailed       = "form.submit_failed"
	MsgSubmitSuccess      = "form.submit_success"
)

// Errors 字段到消息 key 的映射
type Errors map[Field]string

// ValidCURP 判断 CURP 是否符合格式
func ValidCURP(value string) bool {
	return curpPattern.MatchString(value)
}

// ValidSection 判断选区编号是否为 1-4 位数字
func ValidSection(value string) bool {
	return sectionPattern.MatchString(value)
}

// ValidPhone 判断电话是否为 10 位数字
func ValidPhone(value string) bool {
	return phonePattern.MatchString(value)
}

// Validate 校验全部字段，返回空映射表示通过
func Validate(v Values) Errors {
	errs := Errors{}
	if !ValidCURP(v.CURP) {
		errs[FieldCURP] = MsgCURPInvalid
	}
	if !ValidSection(v.Section) {
		errs[FieldSection] = MsgSectionInvalid
	}
	if isBlank(v.FullName) {
		errs[FieldFullName] = MsgNameRequired
	}
	if isBlank(v.Promoter) {
		errs[FieldPromoter] = MsgPromoterRequired
	}
	if isBlank(v.Affiliator) {
		errs[FieldAffiliator] = MsgAffiliatorRequired
	}
	if !ValidPhone(v.Phone) {
		errs[FieldPhone] = MsgPhoneInvalid
	}
	return errs
}
