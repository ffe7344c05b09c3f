package public

import (
	"github.com/afiliados-next/internal/form"
	"github.com/afiliados-next/internal/i18n"
)

// FormStateView 表单状态响应结构，错误与提示已按请求语言翻译
type FormStateView struct {
	ID         string            `json:"id,omitempty"`
	Values     form.Values       `json:"values"`
	Errors     map[string]string `json:"errors"`
	Success    string            `json:"success,omitempty"`
	Submitting bool              `json:"submitting"`
}

func newFormStateView(locale, id string, state form.State) FormStateView {
	errs := make(map[string]string, len(state.Errors))
	for field, key := range state.Errors {
		errs[string(field)] = i18n.T(locale, key)
	}
	view := FormStateView{
		ID:         id,
		Values:     state.Values,
		Errors:     errs,
		Submitting: state.Submitting,
	}
	if state.Success != "" {
		view.Success = i18n.T(locale, state.Success)
	}
	return view
}

// stateFromValues 逐字段写入，与页面 change 事件的归一化一致
func stateFromValues(values form.Values) form.State {
	state := form.NewState()
	for _, field := range form.Fields {
		state = state.With(field, values.Get(field))
	}
	return state
}
