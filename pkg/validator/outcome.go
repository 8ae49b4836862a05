package validator

// Outcome 单字段校验结果：Valid(value) 或 Invalid(reasons)
// 不变量：
//   - reasons 为空即为 Valid，value 满足该类别全部约束
//   - Invalid 至少携带一条原因，value 为零值
//
// 零值等价于 Valid(零值)，校验函数不会返回零值 Outcome
type Outcome[T any] struct {
	value   T
	reasons []Reason
}

// Valid 构造成功结果
func Valid[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

// Invalid 构造失败结果，没有任何原因属于调用方的编程错误
func Invalid[T any](reasons ...Reason) Outcome[T] {
	if len(reasons) == 0 {
		panic("validator: Invalid outcome requires at least one reason")
	}
	return Outcome[T]{reasons: append([]Reason(nil), reasons...)}
}

// IsValid 是否校验通过
func (o Outcome[T]) IsValid() bool { return len(o.reasons) == 0 }

// Value 返回规范化后的值，Invalid 时为零值
func (o Outcome[T]) Value() T { return o.value }

// Reasons 返回失败原因的副本
func (o Outcome[T]) Reasons() []Reason {
	if len(o.reasons) == 0 {
		return nil
	}
	return append([]Reason(nil), o.reasons...)
}

// HasCode 是否包含指定原因码
func (o Outcome[T]) HasCode(code Code) bool {
	for _, r := range o.reasons {
		if r.Code == code {
			return true
		}
	}
	return false
}

// Erase 擦除值类型，用于按 FieldKind 分发的统一出口
func Erase[T any](o Outcome[T]) Outcome[any] {
	if !o.IsValid() {
		return Outcome[any]{reasons: o.reasons}
	}
	return Outcome[any]{value: o.value}
}

// EntityOutcome 实体装配结果：Accept(entity) 或 Reject(report)
type EntityOutcome[T any] struct {
	value  T
	report *Report
}

// Accept 构造装配成功结果
func Accept[T any](value T) EntityOutcome[T] {
	return EntityOutcome[T]{value: value}
}

// Reject 构造装配失败结果，report 必须至少包含一个字段错误
func Reject[T any](report *Report) EntityOutcome[T] {
	if !report.HasErrors() {
		panic("validator: Reject requires a report with at least one field error")
	}
	return EntityOutcome[T]{report: report}
}

// IsValid 是否装配成功
func (o EntityOutcome[T]) IsValid() bool { return o.report == nil }

// Value 返回已校验实体，失败时为零值
func (o EntityOutcome[T]) Value() T { return o.value }

// Report 返回失败报告，成功时为 nil
func (o EntityOutcome[T]) Report() *Report { return o.report }

// Unwrap 返回 (实体, error)，失败时 error 为 *Report
func (o EntityOutcome[T]) Unwrap() (T, error) {
	if o.report != nil {
		return o.value, o.report
	}
	return o.value, nil
}
