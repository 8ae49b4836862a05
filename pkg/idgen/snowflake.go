package idgen

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// Epoch 起始时间戳 (2024-01-01 00:00:00 UTC)，毫秒
	Epoch int64 = 1704067200000

	// 位数分配
	WorkerIDBits     = 5  // 工作机器ID位数
	DatacenterIDBits = 5  // 数据中心ID位数
	SequenceBits     = 12 // 序列号位数

	// 最大值计算
	MaxWorkerID     = -1 ^ (-1 << WorkerIDBits)     // 31
	MaxDatacenterID = -1 ^ (-1 << DatacenterIDBits) // 31
	MaxSequence     = -1 ^ (-1 << SequenceBits)     // 4095

	// 位移量
	WorkerIDShift     = SequenceBits                                   // 12
	DatacenterIDShift = SequenceBits + WorkerIDBits                    // 17
	TimestampShift    = SequenceBits + WorkerIDBits + DatacenterIDBits // 22

	// 最大时间戳差值 (41位)
	maxTimestampDiff int64 = 1<<41 - 1

	// 等待下一毫秒时的休眠时间
	sleepDuration = 100 * time.Microsecond

	// 时钟回拨默认容忍时间（毫秒）
	defaultClockBackwardTolerance = 5

	// 批量生成最大数量
	maxBatchSize = 4096
)

var (
	// ErrInvalidWorkerID 工作机器ID超出有效范围
	ErrInvalidWorkerID = errors.New("invalid worker id: must be between 0 and 31")

	// ErrInvalidDatacenterID 数据中心ID超出有效范围
	ErrInvalidDatacenterID = errors.New("invalid datacenter id: must be between 0 and 31")

	// ErrClockMovedBackwards 检测到时钟回拨
	ErrClockMovedBackwards = errors.New("clock moved backwards: refusing to generate id")

	// ErrInvalidSnowflakeID 无效的Snowflake ID
	ErrInvalidSnowflakeID = errors.New("invalid snowflake id")

	// ErrTimestampOverflow 时间戳溢出
	ErrTimestampOverflow = errors.New("timestamp overflow: exceeds maximum allowed value")

	// ErrInvalidBatchSize 批量生成数量无效
	ErrInvalidBatchSize = errors.New("invalid batch size")
)

// ClockBackwardStrategy 时钟回拨处理策略
type ClockBackwardStrategy int

const (
	// StrategyError 直接返回错误（默认）
	StrategyError ClockBackwardStrategy = iota

	// StrategyWait 回拨不超过容忍时间时等待追上
	StrategyWait
)

// Generator ID生成器接口
// 持久化层只依赖该接口，测试中可替换为顺序生成器
type Generator interface {
	// NextID 生成下一个唯一ID
	NextID() (int64, error)
}

// Snowflake Snowflake算法的ID生成器实现，并发安全
type Snowflake struct {
	mu sync.Mutex

	lastTimestamp int64
	sequence      int64

	datacenterID int64
	workerID     int64

	strategy  ClockBackwardStrategy
	tolerance int64

	// datacenterID 和 workerID 部分预先计算
	precomputedPart int64

	// now 当前毫秒时间戳，测试中可替换
	now func() int64
}

// Config Snowflake配置选项
type Config struct {
	DatacenterID           int64                 // 数据中心ID
	WorkerID               int64                 // 工作机器ID
	ClockBackwardStrategy  ClockBackwardStrategy // 时钟回拨处理策略（默认StrategyError）
	ClockBackwardTolerance int64                 // 时钟回拨容忍时间（毫秒，默认5ms）
}

// NewSnowflake 创建Snowflake ID生成器
//
// 参数:
//
//	datacenterID: 数据中心ID，取值范围 [0, 31]
//	workerID: 工作机器ID，取值范围 [0, 31]
func NewSnowflake(datacenterID, workerID int64) (*Snowflake, error) {
	return NewSnowflakeWithConfig(Config{DatacenterID: datacenterID, WorkerID: workerID})
}

// NewSnowflakeWithConfig 使用配置创建Snowflake ID生成器
func NewSnowflakeWithConfig(config Config) (*Snowflake, error) {
	if config.DatacenterID < 0 || config.DatacenterID > MaxDatacenterID {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDatacenterID, config.DatacenterID)
	}
	if config.WorkerID < 0 || config.WorkerID > MaxWorkerID {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkerID, config.WorkerID)
	}

	tolerance := config.ClockBackwardTolerance
	if tolerance <= 0 {
		tolerance = defaultClockBackwardTolerance
	}

	return &Snowflake{
		lastTimestamp:   -1,
		datacenterID:    config.DatacenterID,
		workerID:        config.WorkerID,
		strategy:        config.ClockBackwardStrategy,
		tolerance:       tolerance,
		precomputedPart: (config.DatacenterID << DatacenterIDShift) | (config.WorkerID << WorkerIDShift),
		now:             func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// NextID 生成下一个唯一ID
// 单个实例每毫秒最多生成4096个ID，序列号耗尽时等待下一毫秒
func (s *Snowflake) NextID() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.nextIDLocked()
}

// NextIDBatch 批量生成ID，只加一次锁
// 出错时返回已生成的部分
func (s *Snowflake) NextIDBatch(n int) ([]int64, error) {
	if n <= 0 || n > maxBatchSize {
		return nil, fmt.Errorf("%w: must be in [1, %d], got %d", ErrInvalidBatchSize, maxBatchSize, n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, n)
	for len(ids) < n {
		id, err := s.nextIDLocked()
		if err != nil {
			return ids, fmt.Errorf("%w (generated %d IDs)", err, len(ids))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Snowflake) nextIDLocked() (int64, error) {
	timestamp := s.now()

	if timestamp < s.lastTimestamp {
		offset := s.lastTimestamp - timestamp
		if s.strategy != StrategyWait || offset > s.tolerance {
			return 0, fmt.Errorf("%w: backward %dms", ErrClockMovedBackwards, offset)
		}
		timestamp = s.waitUntil(s.lastTimestamp)
	}

	timeDiff := timestamp - Epoch
	if timeDiff < 0 || timeDiff > maxTimestampDiff {
		return 0, fmt.Errorf("%w: timestamp %d", ErrTimestampOverflow, timestamp)
	}

	if timestamp == s.lastTimestamp {
		s.sequence = (s.sequence + 1) & MaxSequence
		if s.sequence == 0 {
			timestamp = s.waitUntil(s.lastTimestamp + 1)
			timeDiff = timestamp - Epoch
		}
	} else {
		s.sequence = 0
	}

	s.lastTimestamp = timestamp
	return (timeDiff << TimestampShift) | s.precomputedPart | s.sequence, nil
}

// waitUntil 休眠直到时间戳不小于 target
func (s *Snowflake) waitUntil(target int64) int64 {
	timestamp := s.now()
	for timestamp < target {
		time.Sleep(sleepDuration)
		timestamp = s.now()
	}
	return timestamp
}

// WorkerID 工作机器ID
func (s *Snowflake) WorkerID() int64 { return s.workerID }

// DatacenterID 数据中心ID
func (s *Snowflake) DatacenterID() int64 { return s.datacenterID }

// ParseSnowflakeID 解析Snowflake ID，提取时间戳（Unix毫秒）、数据中心ID、工作机器ID和序列号
func ParseSnowflakeID(id int64) (timestamp, datacenterID, workerID, sequence int64) {
	timestamp = (id >> TimestampShift) + Epoch
	datacenterID = (id >> DatacenterIDShift) & MaxDatacenterID
	workerID = (id >> WorkerIDShift) & MaxWorkerID
	sequence = id & MaxSequence
	return
}

// ValidateSnowflakeID 检查ID为正数且时间戳不晚于当前时间5分钟
func ValidateSnowflakeID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidSnowflakeID, id)
	}
	timestamp := (id >> TimestampShift) + Epoch
	if timestamp > time.Now().UnixMilli()+5*60*1000 {
		return fmt.Errorf("%w: timestamp %d is too far in the future", ErrInvalidSnowflakeID, timestamp)
	}
	return nil
}

// Sequence 进程内自增生成器，从 start 开始
// 用于测试和单机 sqlite 演示库
type Sequence struct {
	mu   sync.Mutex
	next int64
}

// NewSequence 创建自增生成器
func NewSequence(start int64) *Sequence {
	return &Sequence{next: start}
}

// NextID 返回下一个序号
func (q *Sequence) NextID() (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := q.next
	q.next++
	return id, nil
}
