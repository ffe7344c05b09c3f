package form

import (
	"errors"
	"strconv"
	"time"
)

// ErrInvalidCURP CURP 不符合格式
var ErrInvalidCURP = errors.New("invalid curp")

// Sex CURP 中的性别位
type Sex string

const (
	SexMale   Sex = "H"
	SexFemale Sex = "M"
)

// CURPInfo CURP 中可解析出的信息
// 格式合法但日期不存在（如 0231）时 BirthDate 为 nil
type CURPInfo struct {
	BirthDate *time.Time
	Sex       Sex
	StateCode string
}

// DecodeCURP 解析出生日期、性别与州代码
// 世纪由第 17 位决定：数字为 1900 年代，字母为 2000 年代
func DecodeCURP(curp string) (CURPInfo, error) {
	value := Normalize(FieldCURP, curp)
	if !ValidCURP(value) {
		return CURPInfo{}, ErrInvalidCURP
	}

	yy, _ := strconv.Atoi(value[4:6])
	month, _ := strconv.Atoi(value[6:8])
	day, _ := strconv.Atoi(value[8:10])

	year := 1900 + yy
	if marker := value[16]; marker < '0' || marker > '9' {
		year = 2000 + yy
	}

	info := CURPInfo{
		Sex:       Sex(value[10:11]),
		StateCode: value[11:13],
	}
	birth := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// 31/02 之类的日期会被 time.Date 进位
	if birth.Month() == time.Month(month) && birth.Day() == day {
		info.BirthDate = &birth
	}
	return info, nil
}

// Age 计算在 now 时刻的周岁，出生日期未知时返回 false
func (i CURPInfo) Age(now time.Time) (int, bool) {
	if i.BirthDate == nil {
		return 0, false
	}
	age := now.Year() - i.BirthDate.Year()
	if now.Month() < i.BirthDate.Month() ||
		(now.Month() == i.BirthDate.Month() && now.Day() < i.BirthDate.Day()) {
		age--
	}
	if age < 0 {
		return 0, true
	}
	return age, true
}
