package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cast"
)

// Extras 扩展字段类型，用于存储动态的键值对数据
//
// 设计说明：
// - 主要用于 Model 里存放非索引字段（如车型目录带来的车身类型列表）
// - 基于 map[string]any，数据库中以 JSON 文本存储
// - 类型转换使用 spf13/cast，失败时返回零值和 false
//
// 线程安全：map 类型非线程安全，多协程并发读写需要外部加锁
type Extras map[string]any

// NewExtras 创建一个新的扩展字段实例
func NewExtras(capacity int) Extras {
	return make(Extras, capacity)
}

// Set 设置键值对，空键名被忽略
func (e Extras) Set(key string, value any) {
	if key == "" {
		return
	}
	e[key] = value
}

// Delete 删除键
func (e Extras) Delete(key string) {
	delete(e, key)
}

// Get 获取原始值
func (e Extras) Get(key string) (any, bool) {
	value, ok := e[key]
	return value, ok
}

// GetString 获取字符串
func (e Extras) GetString(key string) (string, bool) {
	value, ok := e[key]
	if !ok {
		return "", false
	}
	s, err := cast.ToStringE(value)
	return s, err == nil
}

// GetInt64 获取 int64，兼容 JSON 反序列化得到的 float64
func (e Extras) GetInt64(key string) (int64, bool) {
	value, ok := e[key]
	if !ok {
		return 0, false
	}
	n, err := cast.ToInt64E(value)
	return n, err == nil
}

// GetStringSlice 获取字符串切片，兼容 JSON 反序列化得到的 []any
func (e Extras) GetStringSlice(key string) ([]string, bool) {
	value, ok := e[key]
	if !ok {
		return nil, false
	}
	s, err := cast.ToStringSliceE(value)
	return s, err == nil
}

// Keys 返回排序后的键
func (e Extras) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GormDataType 数据库列类型
func (Extras) GormDataType() string {
	return "text"
}

// Value 实现 driver.Valuer 接口
func (e Extras) Value() (driver.Value, error) {
	if e == nil {
		return nil, nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Extras to JSON: %w", err)
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner 接口
func (e *Extras) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*e = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to scan Extras: unsupported database type %T, expected []byte or string", value)
	}

	if len(data) == 0 {
		*e = nil
		return nil
	}

	result := make(Extras)
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to unmarshal Extras: %w", err)
	}
	*e = result
	return nil
}
