package prompt

import (
	"context"
	"fmt"

	"katydid-vehicle-market/pkg/validator"
)

// Field 待收集的草稿字段
type Field struct {
	Key   string
	Label string
	// Optional 为 true 时空行表示不提供
	Optional bool
}

// Collect 逐个提示字段组成草稿，交给 assemble 整体校验
// 校验失败时打印每个失败字段的原因，只重新提示失败的字段；
// preset 中的字段不提示，若它们校验失败则无法通过重新输入修正，直接返回报告
func Collect[T any](ctx context.Context, p *Prompter, fields []Field, preset validator.Draft,
	assemble func(validator.Draft) validator.EntityOutcome[T]) (T, error) {
	var zero T

	draft := make(validator.Draft, len(fields)+len(preset))
	for k, v := range preset {
		draft[k] = v
	}
	byKey := make(map[string]Field, len(fields))
	for _, f := range fields {
		byKey[f.Key] = f
	}

	pending := fields
	for {
		for _, f := range pending {
			label := f.Label
			if f.Optional {
				label += " (optional)"
			}
			line, err := p.Line(ctx, label)
			if err != nil {
				return zero, err
			}
			if f.Optional && line == "" {
				delete(draft, f.Key)
				continue
			}
			draft[f.Key] = line
		}

		out := assemble(draft)
		if out.IsValid() {
			return out.Value(), nil
		}

		report := out.Report()
		pending = pending[:0:0]
		for _, fe := range report.Errors {
			f, ok := byKey[fe.Field]
			if !ok {
				return zero, fmt.Errorf("prompt: %w", report)
			}
			p.printReasons(f.Label, fe.Reasons)
			pending = append(pending, f)
		}
	}
}
