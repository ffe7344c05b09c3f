package models

import "time"

// RegistrationLog 登记成功审计日志
// 说明：远端写入成功后异步落库，供导出工具使用；电话仅保存掩码。
type RegistrationLog struct {
	ID           uint       `gorm:"primarykey" json:"id"`                        // 主键
	CURP         string     `gorm:"type:varchar(18);index;not null" json:"curp"` // CURP
	Section      string     `gorm:"type:varchar(4);index" json:"section"`        // 选区
	Promoter     string     `gorm:"type:varchar(255);index" json:"promoter"`     // 推广人
	Affiliator   string     `gorm:"type:varchar(255)" json:"affiliator"`         // 登记人
	PhoneMasked  string     `gorm:"type:varchar(16)" json:"phone_masked"`        // 电话掩码
	BirthDate    *time.Time `gorm:"type:date" json:"birth_date"`                 // 由 CURP 解析
	Sex          string     `gorm:"type:varchar(1)" json:"sex"`                  // H/M
	StateCode    string     `gorm:"type:varchar(2)" json:"state_code"`           // 出生州代码
	ClientIP     string     `gorm:"type:varchar(64);index" json:"client_ip"`     // 客户端IP
	RequestID    string     `gorm:"type:varchar(64);index" json:"request_id"`    // 请求追踪ID
	StoreDriver  string     `gorm:"type:varchar(20)" json:"store_driver"`        // 写入目标
	RegisteredAt time.Time  `gorm:"index;not null" json:"registered_at"`         // 远端写入时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                     // 记录时间
}

// TableName 指定表名
func (RegistrationLog) TableName() string {
	return "registration_logs"
}

// MaskPhone 仅保留后四位
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	masked := make([]byte, len(phone))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(phone)-4:], phone[len(phone)-4:])
	return string(masked)
}
