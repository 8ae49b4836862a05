package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// AdStatus 广告状态，使用位运算支持多状态叠加
// 零值 AdStatusNone 表示正常在售
type AdStatus int64

// 预定义的状态位
const (
	AdStatusNone AdStatus = 0 // 在售

	AdStatusDiscontinued AdStatus = 1 << iota // 已下架（卖家或成交后）
	AdStatusSold                              // 已成交
	AdStatusUserHidden                        // 卖家隐藏
	AdStatusAdmHidden                         // 管理员隐藏
	AdStatusAdmBlocked                        // 管理员封禁
	AdStatusVINUnverified                     // 车架号未核验
)

// AdStatusUnlisted 任一位存在时广告不出现在公开列表中
const AdStatusUnlisted = AdStatusDiscontinued | AdStatusSold |
	AdStatusUserHidden | AdStatusAdmHidden | AdStatusAdmBlocked

var adStatusNames = []struct {
	flag AdStatus
	name string
}{
	{AdStatusDiscontinued, "discontinued"},
	{AdStatusSold, "sold"},
	{AdStatusUserHidden, "user_hidden"},
	{AdStatusAdmHidden, "adm_hidden"},
	{AdStatusAdmBlocked, "adm_blocked"},
	{AdStatusVINUnverified, "vin_unverified"},
}

// Set 设置指定的状态位
func (s *AdStatus) Set(flags ...AdStatus) {
	for _, flag := range flags {
		*s |= flag
	}
}

// Unset 取消指定的状态位
func (s *AdStatus) Unset(flags ...AdStatus) {
	for _, flag := range flags {
		*s &^= flag
	}
}

// Contain 检查是否包含指定的状态位
func (s AdStatus) Contain(flag AdStatus) bool {
	return s&flag == flag
}

// HasAny 检查是否包含任意一个指定的状态位
func (s AdStatus) HasAny(flags ...AdStatus) bool {
	for _, flag := range flags {
		if s&flag != 0 {
			return true
		}
	}
	return false
}

// IsSold 是否已成交
func (s AdStatus) IsSold() bool {
	return s.Contain(AdStatusSold)
}

// IsHidden 是否隐藏
func (s AdStatus) IsHidden() bool {
	return s.HasAny(AdStatusUserHidden, AdStatusAdmHidden)
}

// CanSell 是否可以成交：未下架、未成交、未封禁
func (s AdStatus) CanSell() bool {
	return !s.HasAny(AdStatusDiscontinued, AdStatusSold, AdStatusAdmBlocked)
}

// CanList 是否出现在公开列表中，也决定非卖家能否查看详情
func (s AdStatus) CanList() bool {
	return !s.HasAny(AdStatusUnlisted)
}

// String 以 | 连接的状态名，零值为 active
func (s AdStatus) String() string {
	if s == AdStatusNone {
		return "active"
	}
	var names []string
	rest := s
	for _, n := range adStatusNames {
		if s.Contain(n.flag) {
			names = append(names, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", int64(rest)))
	}
	return strings.Join(names, "|")
}

// Value 实现 driver.Valuer 接口，用于数据库存储
func (s AdStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

// Scan 实现 sql.Scanner 接口，用于从数据库读取
func (s *AdStatus) Scan(value any) error {
	if value == nil {
		*s = AdStatusNone
		return nil
	}

	switch v := value.(type) {
	case int64:
		*s = AdStatus(v)
	case int:
		*s = AdStatus(v)
	case uint64:
		*s = AdStatus(v)
	case []byte:
		var num int64
		if err := json.Unmarshal(v, &num); err != nil {
			return err
		}
		*s = AdStatus(num)
	default:
		return fmt.Errorf("cannot scan type %T into AdStatus", value)
	}
	return nil
}

// MarshalJSON 序列化为状态名，便于接口阅读
func (s AdStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON 同时接受状态名和整数
func (s *AdStatus) UnmarshalJSON(data []byte) error {
	var num int64
	if err := json.Unmarshal(data, &num); err == nil {
		*s = AdStatus(num)
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseAdStatus(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseAdStatus 解析 String() 的输出
func ParseAdStatus(text string) (AdStatus, error) {
	if text == "" || text == "active" {
		return AdStatusNone, nil
	}
	var s AdStatus
outer:
	for _, part := range strings.Split(text, "|") {
		for _, n := range adStatusNames {
			if n.name == part {
				s |= n.flag
				continue outer
			}
		}
		return AdStatusNone, fmt.Errorf("unknown ad status %q", part)
	}
	return s, nil
}
