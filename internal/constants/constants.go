package constants

// 验证码提供方常量
const (
	CaptchaProviderNone      = "none"
	CaptchaProviderImage     = "image"
	CaptchaProviderTurnstile = "turnstile"
)

// 验证码场景常量
const (
	CaptchaSceneAffiliateSubmit = "affiliate_submit"
)

// 远端存储驱动常量
const (
	StoreDriverPostgrest = "postgrest"
	StoreDriverDatabase  = "database"
)

// 默认远端表名
const DefaultAffiliateTable = "afiliados"

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskAffiliateRegistered = "affiliate:registered"
)

// 语言常量
const (
	LocaleESMX    = "es-MX"
	LocaleENUS    = "en-US"
	LocaleDefault = LocaleESMX
)
