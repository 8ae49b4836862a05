package validator

import (
	"strings"
	"sync"
)

// maxPooledBuilderCap 超过该容量的 Builder 不归还，避免池中滞留大块内存
const maxPooledBuilderCap = 4096

// stringBuilderPool 报告消息拼接用的 Builder 池
var stringBuilderPool = sync.Pool{
	New: func() any {
		return &strings.Builder{}
	},
}

func acquireStringBuilder() *strings.Builder {
	sb := stringBuilderPool.Get().(*strings.Builder)
	sb.Reset()
	return sb
}

func releaseStringBuilder(sb *strings.Builder) {
	if sb == nil || sb.Cap() > maxPooledBuilderCap {
		return
	}
	stringBuilderPool.Put(sb)
}
