package idgen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID 对外暴露的ID类型
// JSON 中序列化为字符串，避免 JavaScript 中大整数精度丢失
type ID int64

// IDInfo ID解析后的信息结构体
type IDInfo struct {
	ID           int64     `json:"id"`            // 原始ID
	Time         time.Time `json:"time"`          // 生成时间
	DatacenterID int64     `json:"datacenter_id"` // 数据中心ID
	WorkerID     int64     `json:"worker_id"`     // 工作机器ID
	Sequence     int64     `json:"sequence"`      // 序列号
}

// ParseID 从十进制字符串解析ID，必须为正数
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSnowflakeID)
	}
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSnowflakeID, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("%w: must be positive, got %d", ErrInvalidSnowflakeID, val)
	}
	return ID(val), nil
}

// Int64 转换为int64类型
func (id ID) Int64() int64 {
	return int64(id)
}

// String 转换为十进制字符串
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// MarshalJSON 序列化为字符串
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON 支持从字符串或数字反序列化
func (id *ID) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		val, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse ID from string: %w", err)
		}
		*id = ID(val)
		return nil
	}

	var num int64
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("failed to parse ID from number: %w", err)
	}
	*id = ID(num)
	return nil
}

// IsValid 检查ID是否有效（大于0）
func (id ID) IsValid() bool {
	return id > 0
}

// Parse 解析Snowflake ID的组成部分
func (id ID) Parse() (*IDInfo, error) {
	if !id.IsValid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSnowflakeID, id)
	}
	timestamp, datacenterID, workerID, sequence := ParseSnowflakeID(int64(id))
	return &IDInfo{
		ID:           int64(id),
		Time:         time.UnixMilli(timestamp),
		DatacenterID: datacenterID,
		WorkerID:     workerID,
		Sequence:     sequence,
	}, nil
}
