package validator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// errorMessageEstimateLen 单条错误消息的预估长度，用于预分配
const errorMessageEstimateLen = 64

// FieldError 单个字段的全部失败原因
type FieldError struct {
	// Field 草稿中的字段名（如 email_address、address.zip_code）
	Field string `json:"field"`
	// Value 字段的原始值
	Value any `json:"value,omitempty"`
	// Reasons 失败原因，至少一条
	Reasons []Reason `json:"reasons"`
}

// String 返回友好的错误信息
func (fe *FieldError) String() string {
	msgs := make([]string, 0, len(fe.Reasons))
	for _, r := range fe.Reasons {
		msgs = append(msgs, r.Message)
	}
	return fmt.Sprintf("field '%s': %s", fe.Field, strings.Join(msgs, ", "))
}

// HasCode 是否包含指定原因码
func (fe *FieldError) HasCode(code Code) bool {
	for _, r := range fe.Reasons {
		if r.Code == code {
			return true
		}
	}
	return false
}

// Report 实体级校验报告，按字段声明顺序列出所有失败字段
// 实现 error 接口，可以通过 errors.As 从包装链中取出
type Report struct {
	// Entity 实体名（user、address、vehicle_ad、sale）
	Entity string `json:"entity"`
	// Errors 失败字段列表
	Errors []*FieldError `json:"errors"`
}

// NewReport 创建空报告
func NewReport(entity string) *Report {
	return &Report{
		Entity: entity,
		Errors: make([]*FieldError, 0),
	}
}

// Error 实现 error 接口
func (r *Report) Error() string {
	if !r.HasErrors() {
		return fmt.Sprintf("%s: validation passed: no errors", r.Entity)
	}

	builder := acquireStringBuilder()
	defer releaseStringBuilder(builder)
	builder.Grow(len(r.Errors) * errorMessageEstimateLen)
	builder.WriteString(r.Entity)
	builder.WriteString(": ")

	for i, fe := range r.Errors {
		if i > 0 {
			builder.WriteString("; ")
		}
		builder.WriteString(fe.String())
	}

	return builder.String()
}

// HasErrors 是否存在字段错误（nil 安全）
func (r *Report) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// Add 添加字段错误，没有原因时忽略
func (r *Report) Add(field string, value any, reasons ...Reason) {
	if len(reasons) == 0 {
		return
	}
	r.Errors = append(r.Errors, &FieldError{
		Field:   field,
		Value:   value,
		Reasons: reasons,
	})
}

// Merge 合并另一个报告，字段名加上 prefix 前缀（如 "address."）
func (r *Report) Merge(prefix string, other *Report) {
	if !other.HasErrors() {
		return
	}
	for _, fe := range other.Errors {
		r.Errors = append(r.Errors, &FieldError{
			Field:   prefix + fe.Field,
			Value:   fe.Value,
			Reasons: fe.Reasons,
		})
	}
}

// Fields 返回所有失败字段名
func (r *Report) Fields() []string {
	if r == nil {
		return nil
	}
	fields := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		fields = append(fields, fe.Field)
	}
	return fields
}

// Get 按字段名获取错误，不存在返回 nil
func (r *Report) Get(field string) *FieldError {
	if r == nil {
		return nil
	}
	for _, fe := range r.Errors {
		if fe.Field == field {
			return fe
		}
	}
	return nil
}

// GetErrorsByCode 按原因码获取错误
func (r *Report) GetErrorsByCode(code Code) []*FieldError {
	if r == nil {
		return nil
	}
	var errs []*FieldError
	for _, fe := range r.Errors {
		if fe.HasCode(code) {
			errs = append(errs, fe)
		}
	}
	return errs
}

// ToJSON 转换为 JSON 格式
func (r *Report) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
