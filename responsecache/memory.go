package responsecache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMemorySize = 512

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// Memory is a size-bounded in-process LRU with per-entry expiry.
type Memory struct {
	lru *lru.Cache[string, memoryEntry]
}

// NewMemory creates a Memory backend holding at most size entries.
func NewMemory(size int) (*Memory, error) {
	if size <= 0 {
		size = defaultMemorySize
	}
	c, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}
	return &Memory{lru: c}, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := m.lru.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		m.lru.Remove(key)
		return nil, ErrMiss
	}
	return e.value, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.lru.Add(key, memoryEntry{value: value, expires: expiry(ttl)})
	return nil
}

func (m *Memory) Purge(context.Context) error {
	m.lru.Purge()
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int { return m.lru.Len() }

func (m *Memory) Close() error { return nil }
