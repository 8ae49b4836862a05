package validator

import "fmt"

// Code 失败原因码（闭合分类）
type Code string

const (
	CodeEmpty                 Code = "empty"
	CodeWrongType             Code = "wrong_type"
	CodeTooShort              Code = "too_short"
	CodeTooLong               Code = "too_long"
	CodePatternMismatch       Code = "pattern_mismatch"
	CodeNotInEnumeration      Code = "not_in_enumeration"
	CodeDuplicateHashMismatch Code = "duplicate_hash_mismatch"
	CodeOutOfRange            Code = "out_of_range"
	CodeUnknownField          Code = "unknown_field"
)

// Codes 全部原因码，按声明顺序
func Codes() []Code {
	return []Code{
		CodeEmpty, CodeWrongType, CodeTooShort, CodeTooLong, CodePatternMismatch,
		CodeNotInEnumeration, CodeDuplicateHashMismatch, CodeOutOfRange, CodeUnknownField,
	}
}

// Reason 单条失败原因
// Code + Param 可用于国际化查表，Message 直接展示给用户
type Reason struct {
	// Code 原因码
	Code Code `json:"code"`
	// Param 规则参数（如 max=20 中的 "20"）
	Param string `json:"param,omitempty"`
	// Message 可读的错误描述
	Message string `json:"message"`
}

// NewReason 创建失败原因，Message 按 format 生成
func NewReason(code Code, param, format string, args ...any) Reason {
	return Reason{
		Code:    code,
		Param:   param,
		Message: fmt.Sprintf(format, args...),
	}
}

func (r Reason) String() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

var reasonEmpty = NewReason(CodeEmpty, "", "cannot be empty")

// wrongType 带上实际类型的 WrongType 原因
func wrongType(raw any) Reason {
	return NewReason(CodeWrongType, fmt.Sprintf("%T", raw), "has an unsupported type %T", raw)
}
