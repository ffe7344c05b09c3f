package models

import "time"

// Affiliate 登记记录，列名与托管表一致
type Affiliate struct {
	ID         uint      `gorm:"primarykey" json:"-"`
	CURP       string    `gorm:"column:curp;type:varchar(18);not null;uniqueIndex" json:"curp"`
	Section    string    `gorm:"column:seccion;type:varchar(4);not null;index" json:"seccion"`
	FullName   string    `gorm:"column:nombre;type:varchar(255);not null" json:"nombre"`
	Promoter   string    `gorm:"column:promotor;type:varchar(255);not null;index" json:"promotor"`
	Affiliator string    `gorm:"column:afiliador;type:varchar(255);not null" json:"afiliador"`
	Phone      string    `gorm:"column:telefono;type:varchar(10);not null" json:"telefono"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"-"`
}

// TableName 默认表名，可通过 store.table 覆盖
func (Affiliate) TableName() string {
	return "afiliados"
}
