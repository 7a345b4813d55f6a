package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Option configures a Memory cache.
type Option func(*options)

type options struct {
	ttl        time.Duration
	maxEntries int
}

// WithTTL sets how long entries stay valid. Zero keeps them until evicted.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.ttl = d
		}
	}
}

// WithMaxEntries bounds the cache; the least recently used entry is evicted
// when the bound is reached. Zero means unbounded.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxEntries = n
		}
	}
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is a concurrency safe in-process LRU cache.
// Expired entries are dropped lazily on access, so no goroutine is started.
type Memory[V any] struct {
	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List // front is most recently used
	opts  options
	group singleflight.Group
}

// NewMemory creates a Memory cache.
//
//	views := cache.NewMemory[ResolvedView](cache.WithMaxEntries(1024))
func NewMemory[V any](opts ...Option) *Memory[V] {
	m := &Memory[V]{
		items: make(map[string]*list.Element),
		order: list.New(),
	}
	for _, opt := range opts {
		opt(&m.opts)
	}
	return m
}

// Get returns the value stored for key.
func (m *Memory[V]) Get(key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	el, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}

	e := el.Value.(*entry[V])
	if e.expired(time.Now()) {
		m.remove(el)
		return zero, ErrNotFound
	}

	m.order.MoveToFront(el)
	return e.value, nil
}

// Set stores value under key.
func (m *Memory[V]) Set(key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if m.opts.ttl > 0 {
		expiresAt = time.Now().Add(m.opts.ttl)
	}

	if el, ok := m.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value, e.expiresAt = value, expiresAt
		m.order.MoveToFront(el)
		return
	}

	m.items[key] = m.order.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})

	if m.opts.maxEntries > 0 && m.order.Len() > m.opts.maxEntries {
		m.remove(m.order.Back())
	}
}

// Delete removes key.
func (m *Memory[V]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[key]; ok {
		m.remove(el)
	}
}

// Len returns the number of entries, including expired ones not yet dropped.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

// Clear removes every entry.
func (m *Memory[V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]*list.Element)
	m.order.Init()
}

// GetOrSet returns the cached value for key or computes it with fn.
// Concurrent misses for the same key call fn once. Errors are not cached.
func (m *Memory[V]) GetOrSet(ctx context.Context, key string, fn func(ctx context.Context) (V, error)) (V, error) {
	if v, err := m.Get(key); err == nil {
		return v, nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		val, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		m.Set(key, val)
		return val, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

func (m *Memory[V]) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.items, el.Value.(*entry[V]).key)
}
