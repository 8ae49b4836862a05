package validator

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// rule 单条校验规则
// tag 为 go-playground/validator 的标签语法，校验失败时产出 reason
type rule struct {
	tag    string
	reason Reason
}

func newRule(tag string, code Code, param, format string, args ...any) rule {
	return rule{tag: tag, reason: NewReason(code, param, format, args...)}
}

// Engine 字段校验引擎，封装 go-playground/validator
// 设计原则：
//   - 初始化后只读：自定义标签在构造时一次性注册，之后不再修改
//   - 无状态：所有校验都是纯函数，可在任意 goroutine 中并发调用
//   - 全量收集：同一字段的多条规则全部执行（空值除外），不在第一条失败处停止
type Engine struct {
	// validate 底层验证器实例（go-playground/validator）
	validate *validator.Validate
}

var (
	// defaultEngine 默认引擎实例，全局单例
	defaultEngine *Engine
	// once 确保默认引擎只初始化一次（线程安全）
	once sync.Once
)

// Default 获取默认引擎（单例模式）
func Default() *Engine {
	once.Do(func() {
		defaultEngine = NewEngine()
	})
	return defaultEngine
}

// NewEngine 创建独立的引擎实例并注册全部自定义标签
// 自定义标签注册失败属于编程错误，直接 panic
func NewEngine() *Engine {
	v := validator.New()
	for tag, fn := range customTags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validator: register tag %q: %v", tag, err))
		}
	}
	return &Engine{validate: v}
}

// check 依次执行规则并收集失败原因
// 空值规则（CodeEmpty）失败后不再继续，其余规则全部执行
func (e *Engine) check(value any, rules []rule) []Reason {
	var reasons []Reason
	for _, r := range rules {
		if err := e.validate.Var(value, r.tag); err == nil {
			continue
		}
		reasons = append(reasons, r.reason)
		if r.reason.Code == CodeEmpty {
			break
		}
	}
	return reasons
}

// validateString 字符串类字段的通用流程：类型检查 -> 规范化 -> 规则校验
func (e *Engine) validateString(raw any, rules []rule, normalize func(string) string) Outcome[string] {
	s, reason, ok := asString(raw)
	if !ok {
		return Invalid[string](reason)
	}
	if normalize != nil {
		s = normalize(s)
	}
	if reasons := e.check(s, rules); len(reasons) > 0 {
		return Invalid[string](reasons...)
	}
	return Valid(s)
}

func (e *Engine) validateInt(raw any, rules []rule) Outcome[int64] {
	n, reason, ok := asInt(raw)
	if !ok {
		return Invalid[int64](reason)
	}
	if reasons := e.check(n, rules); len(reasons) > 0 {
		return Invalid[int64](reasons...)
	}
	return Valid(n)
}

func (e *Engine) validateFloat(raw any, rules []rule) Outcome[float64] {
	f, reason, ok := asFloat(raw)
	if !ok {
		return Invalid[float64](reason)
	}
	if reasons := e.check(f, rules); len(reasons) > 0 {
		return Invalid[float64](reasons...)
	}
	return Valid(f)
}
