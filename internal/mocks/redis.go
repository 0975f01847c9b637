// Package mocks holds in-memory stand-ins for external dependencies used in tests.
package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient implements the subset of *redis.Client used by the menu
// cache and the login throttle.
type MockRedisClient struct {
	mu   sync.RWMutex
	data map[string]mockRedisValue
	now  func() time.Time

	// Error injection
	SetError  error
	GetError  error
	DelError  error
	IncrError   error
	ExpireError error
	PingError   error
}

type mockRedisValue struct {
	value     string
	expiresAt time.Time
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		data: make(map[string]mockRedisValue),
		now:  time.Now,
	}
}

// Advance moves the mock clock forward, expiring keys whose TTL has passed.
func (m *MockRedisClient) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	base := m.now()
	m.now = func() time.Time { return base.Add(d) }
}

// live must be called with the lock held.
func (m *MockRedisClient) live(key string) (mockRedisValue, bool) {
	val, ok := m.data[key]
	if !ok {
		return val, false
	}
	if !val.expiresAt.IsZero() && !m.now().Before(val.expiresAt) {
		return val, false
	}
	return val, true
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewStatusCmd(ctx)
	if m.SetError != nil {
		cmd.SetErr(m.SetError)
		return cmd
	}

	expiresAt := time.Time{}
	if expiration > 0 {
		expiresAt = m.now().Add(expiration)
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		cmd.SetErr(fmt.Errorf("mock redis: unsupported value type %T", value))
		return cmd
	}
	m.data[key] = mockRedisValue{value: s, expiresAt: expiresAt}

	cmd.SetVal("OK")
	return cmd
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cmd := redis.NewStringCmd(ctx)
	if m.GetError != nil {
		cmd.SetErr(m.GetError)
		return cmd
	}

	val, ok := m.live(key)
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val.value)
	return cmd
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewIntCmd(ctx)
	if m.DelError != nil {
		cmd.SetErr(m.DelError)
		return cmd
	}

	var deleted int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			delete(m.data, key)
			deleted++
		}
	}
	cmd.SetVal(deleted)
	return cmd
}

func (m *MockRedisClient) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewIntCmd(ctx)
	if m.IncrError != nil {
		cmd.SetErr(m.IncrError)
		return cmd
	}

	val, ok := m.live(key)
	if !ok {
		val = mockRedisValue{value: "0"}
	}
	n, err := strconv.ParseInt(val.value, 10, 64)
	if err != nil {
		cmd.SetErr(err)
		return cmd
	}
	n++
	val.value = strconv.FormatInt(n, 10)
	m.data[key] = val

	cmd.SetVal(n)
	return cmd
}

func (m *MockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewBoolCmd(ctx)
	if m.ExpireError != nil {
		cmd.SetErr(m.ExpireError)
		return cmd
	}

	val, ok := m.live(key)
	if !ok {
		cmd.SetVal(false)
		return cmd
	}
	val.expiresAt = m.now().Add(expiration)
	m.data[key] = val
	cmd.SetVal(true)
	return cmd
}

func (m *MockRedisClient) TTL(ctx context.Context, key string) *redis.DurationCmd {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cmd := redis.NewDurationCmd(ctx, time.Second)
	val, ok := m.live(key)
	switch {
	case !ok:
		cmd.SetVal(-2 * time.Second)
	case val.expiresAt.IsZero():
		cmd.SetVal(-1 * time.Second)
	default:
		cmd.SetVal(val.expiresAt.Sub(m.now()))
	}
	return cmd
}

func (m *MockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.PingError != nil {
		cmd.SetErr(m.PingError)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

// Keys returns the number of live keys.
func (m *MockRedisClient) Keys() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for key := range m.data {
		if _, ok := m.live(key); ok {
			n++
		}
	}
	return n
}
