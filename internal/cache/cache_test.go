package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-vehicle-market/internal/store"
	"katydid-vehicle-market/pkg/types"
)

// memoryKV 内存版 kv，记录最近一次 TTL
type memoryKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	lastTTL time.Duration
	failing bool
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (m *memoryKV) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.([]byte)
	m.lastTTL = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryKV) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedis_ReadThrough(t *testing.T) {
	kv := newMemoryKV()
	c := newRedis(kv, time.Minute)
	ctx := context.Background()

	_, hit, err := c.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, hit)

	ad := &store.Advertisement{ID: 42, UserID: 7, VIN: "JTDBR32E720123456", Status: types.AdStatusSold, Price: 100}
	require.NoError(t, c.Set(ctx, ad))
	assert.Equal(t, time.Minute, kv.lastTTL)
	assert.Contains(t, kv.data, "market:ad:42")

	got, hit, err := c.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, ad.VIN, got.VIN)
	assert.Equal(t, ad.Status, got.Status)
	assert.Equal(t, int64(7), got.UserID)

	require.NoError(t, c.Invalidate(ctx, 42))
	_, hit, err = c.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedis_Errors(t *testing.T) {
	kv := newMemoryKV()
	c := newRedis(kv, time.Minute)
	ctx := context.Background()

	kv.data["market:ad:1"] = []byte("{not json")
	_, hit, err := c.Get(ctx, 1)
	assert.Error(t, err)
	assert.False(t, hit)

	kv.failing = true
	_, hit, err = c.Get(ctx, 2)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestNoop(t *testing.T) {
	var c AdCache = Noop{}
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, &store.Advertisement{ID: 1}))
	_, hit, err := c.Get(ctx, 1)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Invalidate(ctx, 1))
}
