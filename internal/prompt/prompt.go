// Package prompt 交互式输入：提示、校验、失败时显示原因并重新提示
//
// 输入输出通过 io.Reader / io.Writer 注入，测试中可以用字符串驱动。
// 读取一行是阻塞操作，ctx 在每次提示前检查。
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"katydid-vehicle-market/pkg/validator"
)

// ErrAborted 输入流结束
var ErrAborted = errors.New("prompt: input closed")

// Prompter 行输入提示器，不可并发使用
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New 创建提示器
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Printf 向输出写入提示信息
func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Line 显示 label 并读取一行（去掉首尾空白）
func (p *Prompter) Line(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(p.out, "%s: ", label)

	line, err := p.in.ReadString('\n')
	if err != nil {
		// 最后一行没有换行符时仍然有效
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("prompt: read: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Ask 反复提示直到 check 通过，返回规范化后的值
func Ask[T any](ctx context.Context, p *Prompter, label string, check func(any) validator.Outcome[T]) (T, error) {
	for {
		line, err := p.Line(ctx, label)
		if err != nil {
			var zero T
			return zero, err
		}
		out := check(line)
		if out.IsValid() {
			return out.Value(), nil
		}
		p.printReasons(label, out.Reasons())
	}
}

func (p *Prompter) printReasons(field string, reasons []validator.Reason) {
	fmt.Fprintf(p.out, "Invalid %s:\n", field)
	for _, r := range reasons {
		fmt.Fprintf(p.out, "  - %s\n", r.Message)
	}
}
