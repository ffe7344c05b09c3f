package form

// State 表单状态快照；每次更新都返回新值，调用方持有的旧值不受影响
type State struct {
	Values     Values `json:"values"`
	Errors     Errors `json:"errors"`
	Success    string `json:"success,omitempty"`
	Submitting bool   `json:"submitting"`
}

// NewState 返回空表单
func NewState() State {
	return State{Errors: Errors{}}
}

// With 归一化并写入单个字段，其余字段与错误保持不变
// 更新时不做校验
func (s State) With(field Field, raw string) State {
	next := s.Clone()
	next.Values = next.Values.with(field, Normalize(field, raw))
	return next
}

// Reset 清空所有字段与错误
func (s State) Reset() State {
	return NewState()
}

// Clone 深拷贝错误映射
func (s State) Clone() State {
	next := s
	next.Errors = make(Errors, len(s.Errors))
	for field, key := range s.Errors {
		next.Errors[field] = key
	}
	return next
}

// HasErrors 是否存在任何错误
func (s State) HasErrors() bool {
	return len(s.Errors) > 0
}

// Error 读取字段错误 key
func (s State) Error(field Field) string {
	if s.Errors == nil {
		return ""
	}
	return s.Errors[field]
}

// WithErrors 替换错误映射
func (s State) WithErrors(errs Errors) State {
	next := s
	next.Errors = make(Errors, len(errs))
	for field, key := range errs {
		next.Errors[field] = key
	}
	return next
}

// BeginSubmit 清除成功提示并标记提交中
func (s State) BeginSubmit() State {
	next := s.Clone()
	next.Success = ""
	next.Submitting = true
	return next
}

// Succeeded 提交成功：清空表单并写入成功提示
func (s State) Succeeded() State {
	next := NewState()
	next.Success = MsgSubmitSuccess
	return next
}

// Failed 提交失败：保留字段，写入错误并结束提交
func (s State) Failed(errs Errors) State {
	next := s.WithErrors(errs)
	next.Submitting = false
	return next
}
