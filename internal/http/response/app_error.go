package response

import "github.com/gin-gonic/gin"

// AppError 接口错误：业务码、消息 key 与原始错误
// Key 为 i18n 消息 key（如 form.curp_duplicate），Message 为按请求语言翻译后的文案
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	text := e.Message
	if text == "" {
		text = e.Key
	}
	if e.Err == nil {
		return text
	}
	return text + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Internal 服务端错误，日志按 error 级别记录
func (e *AppError) Internal() bool {
	return e.Code >= CodeInternal
}

// WrapError 以消息 key 包装错误，文案由 Localize 填入
func WrapError(code int, key string, err error) *AppError {
	return &AppError{
		Code: code,
		Key:  key,
		Err:  err,
	}
}

// Localize 用 translate 翻译 Key 并写入 Message
func (e *AppError) Localize(translate func(key string) string) *AppError {
	if translate != nil {
		e.Message = translate(e.Key)
	}
	return e
}

// Respond 写出统一错误响应，data 为空时仅附带 request_id
func (e *AppError) Respond(c *gin.Context, data interface{}) {
	msg := e.Message
	if msg == "" {
		msg = e.Key
	}
	if data == nil {
		Error(c, e.Code, msg)
		return
	}
	ErrorWithData(c, e.Code, msg, data)
}
