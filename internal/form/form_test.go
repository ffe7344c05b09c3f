package form

import (
	"testing"
	"time"
)

func TestValidCURP(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{value: "GOMC800101HDFNRL09", want: true},
		{value: "LOPA051231MJCPRNA1", want: true},
		{value: "gomc800101HDFNRL09", want: false},
		{value: "GOMC801301HDFNRL09", want: false}, // 月份 13
		{value: "GOMC800132HDFNRL09", want: false}, // 日期 32
		{value: "GOMC800101XDFNRL09", want: false}, // 性别位
		{value: "GBMC800101HDFNRL09", want: false}, // 第二位必须是元音或 X
		{value: "GOMC800101HDFARL09", want: false}, // 辅音位出现元音
		{value: "GOMC800101HDFNRL0", want: false},
		{value: "GOMC800101HDFNRL09X", want: false},
		{value: "", want: false},
	}
	for _, tc := range cases {
		if got := ValidCURP(tc.value); got != tc.want {
			t.Fatalf("ValidCURP(%q) want %v got %v", tc.value, tc.want, got)
		}
	}
}

func TestLowercaseCURPAcceptedAfterNormalize(t *testing.T) {
	raw := "gomc800101HDFNRL09"
	if ValidCURP(raw) {
		t.Fatalf("raw lowercase curp should be rejected")
	}
	normalized := Normalize(FieldCURP, "  "+raw+" ")
	if normalized != "GOMC800101HDFNRL09" {
		t.Fatalf("unexpected normalized curp: %s", normalized)
	}
	if !ValidCURP(normalized) {
		t.Fatalf("normalized curp should be accepted")
	}
}

func TestValidSection(t *testing.T) {
	cases := map[string]bool{
		"1":     true,
		"12":    true,
		"1234":  true,
		"":      false,
		"12345": false,
		"12a":   false,
		" 12":   false,
	}
	for value, want := range cases {
		if got := ValidSection(value); got != want {
			t.Fatalf("ValidSection(%q) want %v got %v", value, want, got)
		}
	}
}

func TestValidPhone(t *testing.T) {
	cases := map[string]bool{
		"5512345678":  true,
		"551234567":   false,
		"55123456789": false,
		"55-1234-567": false,
		"":            false,
	}
	for value, want := range cases {
		if got := ValidPhone(value); got != want {
			t.Fatalf("ValidPhone(%q) want %v got %v", value, want, got)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := map[Field]string{
		FieldCURP:       "  gomc800101hdfnrl09 ",
		FieldSection:    "0a1-2",
		FieldFullName:   "maría pérez",
		FieldPromoter:   "juan",
		FieldAffiliator: "ana lópez",
		FieldPhone:      "(55) 1234-5678",
	}
	for field, raw := range inputs {
		once := Normalize(field, raw)
		twice := Normalize(field, once)
		if once != twice {
			t.Fatalf("normalize %s not idempotent: %q -> %q", field, once, twice)
		}
	}
	if got := Normalize(FieldPhone, "(55) 1234-5678"); got != "5512345678" {
		t.Fatalf("phone digits want 5512345678 got %s", got)
	}
	if got := Normalize(FieldFullName, "maría pérez"); got != "MARÍA PÉREZ" {
		t.Fatalf("name upper want MARÍA PÉREZ got %s", got)
	}
}

func TestStateWithOnlyTouchesTargetField(t *testing.T) {
	base := NewState().
		With(FieldSection, "12").
		With(FieldFullName, "ana")
	base.Errors[FieldPhone] = MsgPhoneInvalid

	next := base.With(FieldCURP, "gomc800101hdfnrl09")

	if next.Values.CURP != "GOMC800101HDFNRL09" {
		t.Fatalf("curp should be normalized on change, got %s", next.Values.CURP)
	}
	if next.Values.Section != "12" || next.Values.FullName != "ANA" {
		t.Fatalf("other fields changed: %+v", next.Values)
	}
	if next.Error(FieldPhone) != MsgPhoneInvalid {
		t.Fatalf("errors should be kept on update")
	}
	if base.Values.CURP != "" {
		t.Fatalf("previous state mutated: %+v", base.Values)
	}

	next.Errors[FieldSection] = MsgSectionInvalid
	if base.Error(FieldSection) != "" {
		t.Fatalf("error map shared between states")
	}
}

func TestValidate(t *testing.T) {
	valid := Values{
		CURP:       "GOMC800101HDFNRL09",
		Section:    "12",
		FullName:   "MARIA GOMEZ",
		Promoter:   "JUAN PEREZ",
		Affiliator: "ANA LOPEZ",
		Phone:      "5512345678",
	}
	if errs := Validate(valid); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	invalid := Validate(Values{Section: "12345", FullName: "   ", Phone: "551234567"})
	want := Errors{
		FieldCURP:       MsgCURPInvalid,
		FieldSection:    MsgSectionInvalid,
		FieldFullName:   MsgNameRequired,
		FieldPromoter:   MsgPromoterRequired,
		FieldAffiliator: MsgAffiliatorRequired,
		FieldPhone:      MsgPhoneInvalid,
	}
	if len(invalid) != len(want) {
		t.Fatalf("error count want %d got %d: %v", len(want), len(invalid), invalid)
	}
	for field, key := range want {
		if invalid[field] != key {
			t.Fatalf("field %s want %s got %s", field, key, invalid[field])
		}
	}
}

func TestStateTransitions(t *testing.T) {
	filled := NewState().With(FieldCURP, "GOMC800101HDFNRL09").With(FieldPhone, "5512345678")
	filled.Success = MsgSubmitSuccess

	submitting := filled.BeginSubmit()
	if !submitting.Submitting || submitting.Success != "" {
		t.Fatalf("begin submit should set flag and clear success: %+v", submitting)
	}

	failed := submitting.Failed(Errors{FieldCURP: MsgCURPDuplicate})
	if failed.Submitting {
		t.Fatalf("failed state should clear submitting flag")
	}
	if failed.Values.CURP != "GOMC800101HDFNRL09" || failed.Values.Phone != "5512345678" {
		t.Fatalf("failed state should keep values: %+v", failed.Values)
	}

	done := submitting.Succeeded()
	if done.Submitting || done.Success != MsgSubmitSuccess || done.Values != (Values{}) {
		t.Fatalf("unexpected success state: %+v", done)
	}
}

func TestParseField(t *testing.T) {
	if field, ok := ParseField(" CURP "); !ok || field != FieldCURP {
		t.Fatalf("want curp got %q ok=%v", field, ok)
	}
	if _, ok := ParseField("_form"); ok {
		t.Fatalf("_form is not an input field")
	}
}

func TestDecodeCURP(t *testing.T) {
	info, err := DecodeCURP("GOMC800101HDFNRL09")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if info.BirthDate == nil || info.BirthDate.Format("2006-01-02") != "1980-01-01" {
		t.Fatalf("birth date want 1980-01-01 got %v", info.BirthDate)
	}
	if info.Sex != SexMale || info.StateCode != "DF" {
		t.Fatalf("unexpected sex/state: %+v", info)
	}

	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if age, ok := info.Age(now); !ok || age != 46 {
		t.Fatalf("age want 46 got %d ok=%v", age, ok)
	}
	if age, _ := info.Age(now.AddDate(0, 0, -1)); age != 45 {
		t.Fatalf("age before birthday want 45 got %d", age)
	}

	millennial, err := DecodeCURP("LOPA051231MJCPRNA1")
	if err != nil {
		t.Fatalf("decode 2000s curp failed: %v", err)
	}
	if millennial.BirthDate == nil || millennial.BirthDate.Year() != 2005 || millennial.Sex != SexFemale {
		t.Fatalf("unexpected 2000s decode: %+v", millennial)
	}

	impossible, err := DecodeCURP("GOMC800231HDFNRL09")
	if err != nil {
		t.Fatalf("pattern-valid curp must decode, got %v", err)
	}
	if impossible.BirthDate != nil || impossible.Sex != SexMale || impossible.StateCode != "DF" {
		t.Fatalf("feb 31 should keep sex/state without birth date: %+v", impossible)
	}
	if _, ok := impossible.Age(now); ok {
		t.Fatalf("age should be unknown without birth date")
	}
	if _, err := DecodeCURP("GOMC801301HDFNRL09"); err != ErrInvalidCURP {
		t.Fatalf("month 13 want ErrInvalidCURP got %v", err)
	}
}
