package repository

import "time"

// RegistrationLogListFilter 查询登记审计日志的过滤条件
type RegistrationLogListFilter struct {
	Page           int
	PageSize       int
	Promoter       string
	Section        string
	RegisteredFrom *time.Time
	RegisteredTo   *time.Time
}

// RegistrationDailySummary 按天、推广人汇总的登记数量
type RegistrationDailySummary struct {
	Day      string `json:"day"`
	Promoter string `json:"promoter"`
	Total    int64  `json:"total"`
}
