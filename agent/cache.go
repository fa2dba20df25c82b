package agent

import (
	"context"
	"sync"
	"time"
)

type Cache[S any] interface {
	Set(ctx context.Context, key string, val S) error
	Get(ctx context.Context, key string) (S, bool, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type cacheEntry[S any] struct {
	val      S
	lastUsed time.Time
}

// MemoryCache never leaves the process; credentials stored in it are not persisted.
// With an idle TTL, entries not read or written within the TTL are treated as absent.
type MemoryCache[S any] struct {
	mu      sync.Mutex
	m       map[string]*cacheEntry[S]
	idleTTL time.Duration
	now     func() time.Time
}

type MemoryCacheOption func(*memoryCacheOptions)

type memoryCacheOptions struct {
	idleTTL time.Duration
	now     func() time.Time
}

// WithIdleTTL expires entries after d without use. Zero keeps them forever.
func WithIdleTTL(d time.Duration) MemoryCacheOption {
	return func(o *memoryCacheOptions) {
		o.idleTTL = d
	}
}

func withClock(now func() time.Time) MemoryCacheOption {
	return func(o *memoryCacheOptions) {
		o.now = now
	}
}

// NewMemoryCache 创建进程内缓存
func NewMemoryCache[S any](opts ...MemoryCacheOption) *MemoryCache[S] {
	o := &memoryCacheOptions{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return &MemoryCache[S]{
		m:       map[string]*cacheEntry[S]{},
		idleTTL: o.idleTTL,
		now:     o.now,
	}
}

func (m *MemoryCache[S]) expired(e *cacheEntry[S], now time.Time) bool {
	return m.idleTTL > 0 && now.Sub(e.lastUsed) > m.idleTTL
}

// lookup must be called with mu held.
func (m *MemoryCache[S]) lookup(key string) (*cacheEntry[S], bool) {
	e, ok := m.m[key]
	if !ok {
		return nil, false
	}
	now := m.now()
	if m.expired(e, now) {
		delete(m.m, key)
		return nil, false
	}
	e.lastUsed = now
	return e, true
}

func (m *MemoryCache[S]) Set(ctx context.Context, key string, val S) error {
	m.mu.Lock()
	m.m[key] = &cacheEntry[S]{val: val, lastUsed: m.now()}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache[S]) Get(ctx context.Context, key string) (S, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.lookup(key)
	if !ok {
		var zero S
		return zero, false, nil
	}
	return e.val, true, nil
}

func (m *MemoryCache[S]) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.m, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache[S]) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.lookup(key)
	return ok, nil
}

// Sweep drops every expired entry and reports how many were removed.
func (m *MemoryCache[S]) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for key, e := range m.m {
		if m.expired(e, now) {
			delete(m.m, key)
			removed++
		}
	}
	return removed
}

func (m *MemoryCache[S]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.m)
}
