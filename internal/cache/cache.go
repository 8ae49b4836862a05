// Package cache 广告读缓存
//
// 只缓存单条广告详情；写操作（成交）后由调用方主动失效。
// 缓存故障不影响正确性，调用方应当把错误当作未命中处理。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"katydid-vehicle-market/internal/config"
	"katydid-vehicle-market/internal/store"
)

// ErrNotReady redis 不可用
var ErrNotReady = errors.New("cache: redis is not ready")

const keyPrefix = "market:ad:"

// AdCache 广告缓存
type AdCache interface {
	// Get 命中返回 (ad, true, nil)，未命中返回 (nil, false, nil)
	Get(ctx context.Context, id int64) (*store.Advertisement, bool, error)
	Set(ctx context.Context, ad *store.Advertisement) error
	Invalidate(ctx context.Context, id int64) error
}

// kv redis.UniversalClient 中用到的子集
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Redis 基于 go-redis 的实现
type Redis struct {
	client kv
	ttl    time.Duration
}

// Connect 按配置连接 redis 并 ping 一次
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrNotReady, err)
	}
	return client, nil
}

// NewRedis 创建 redis 缓存
func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return newRedis(client, ttl)
}

func newRedis(client kv, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func key(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

// Get 读取缓存
func (r *Redis) Get(ctx context.Context, id int64) (*store.Advertisement, bool, error) {
	data, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get ad %d: %w", id, err)
	}

	var ad store.Advertisement
	if err := json.Unmarshal(data, &ad); err != nil {
		return nil, false, fmt.Errorf("cache: decode ad %d: %w", id, err)
	}
	return &ad, true, nil
}

// Set 写入缓存
func (r *Redis) Set(ctx context.Context, ad *store.Advertisement) error {
	data, err := json.Marshal(ad)
	if err != nil {
		return fmt.Errorf("cache: encode ad %d: %w", ad.ID, err)
	}
	if err := r.client.Set(ctx, key(ad.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set ad %d: %w", ad.ID, err)
	}
	return nil
}

// Invalidate 删除缓存
func (r *Redis) Invalidate(ctx context.Context, id int64) error {
	if err := r.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("cache: invalidate ad %d: %w", id, err)
	}
	return nil
}

// Noop 未启用 redis 时使用，总是未命中
type Noop struct{}

func (Noop) Get(context.Context, int64) (*store.Advertisement, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, *store.Advertisement) error                { return nil }
func (Noop) Invalidate(context.Context, int64) error                        { return nil }
