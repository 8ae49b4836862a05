package validator

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// maxDraftKeyLength 最大键名长度，超长键名直接按未知字段报告且不回显原值
const maxDraftKeyLength = 256

// Draft 未校验的实体草稿：字段名 -> 原始值
// 来自 CLI 输入或 API 请求体，只被装配器消费一次，装配过程中不修改
type Draft map[string]any

// Collector 草稿字段收集器
// 设计目标：
//   - 全量收集：每个字段都执行校验，不在第一个失败处停止
//   - 白名单：装配结束时，未被任何字段消费的键按 UnknownField 报告
//   - 顺序稳定：错误按字段声明顺序记录，未知键按字典序追加在最后
type Collector struct {
	draft  Draft
	seen   map[string]bool
	report *Report
}

// NewCollector 为指定实体创建收集器
func NewCollector(entity string, draft Draft) *Collector {
	return &Collector{
		draft:  draft,
		seen:   make(map[string]bool, len(draft)),
		report: NewReport(entity),
	}
}

// Raw 读取原始值并标记为已消费
func (c *Collector) Raw(key string) (any, bool) {
	c.seen[key] = true
	raw, ok := c.draft[key]
	return raw, ok
}

// Fail 直接记录字段错误（用于跨字段约束）
func (c *Collector) Fail(key string, value any, reasons ...Reason) {
	c.report.Add(key, value, reasons...)
}

// Failed 指定字段是否已有错误
func (c *Collector) Failed(key string) bool {
	return c.report.Get(key) != nil
}

// Finish 检查未知键并返回报告，没有错误时返回 nil
func (c *Collector) Finish() *Report {
	var unknown []string
	for key := range c.draft {
		if !c.seen[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)

	for _, key := range unknown {
		if len(key) > maxDraftKeyLength {
			c.report.Add(truncateKey(key), nil, NewReason(CodeUnknownField, "",
				"key name exceeds maximum length %d", maxDraftKeyLength))
			continue
		}
		c.report.Add(key, c.draft[key], NewReason(CodeUnknownField, "",
			"field '%s' is not allowed here", key))
	}

	if c.report.HasErrors() {
		return c.report
	}
	return nil
}

// Field 必填字段：缺失等价于空值，由校验函数报告 Empty
func Field[T any](c *Collector, key string, check func(any) Outcome[T]) T {
	raw, _ := c.Raw(key)
	out := check(raw)
	if !out.IsValid() {
		c.report.Add(key, raw, out.Reasons()...)
	}
	return out.Value()
}

// Optional 可选字段：缺失或 nil 视为未提供，返回 nil 且总是合法
func Optional[T any](c *Collector, key string, check func(any) Outcome[T]) *T {
	raw, ok := c.Raw(key)
	if !ok || raw == nil {
		return nil
	}
	out := check(raw)
	if !out.IsValid() {
		c.report.Add(key, raw, out.Reasons()...)
		return nil
	}
	v := out.Value()
	return &v
}

// OptionalOr 可选字段，未提供时返回缺省值
func OptionalOr[T any](c *Collector, key string, check func(any) Outcome[T], fallback T) T {
	if v := Optional(c, key, check); v != nil {
		return *v
	}
	return fallback
}

// String 便于调试输出
func (d Draft) String() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("Draft%v", keys)
}

// truncateKey 截断到 maxDraftKeyLength 字节以内，不切开多字节字符
func truncateKey(key string) string {
	if len(key) <= maxDraftKeyLength {
		return key
	}
	cut := maxDraftKeyLength
	for cut > 0 && !utf8.RuneStart(key[cut]) {
		cut--
	}
	return key[:cut]
}
