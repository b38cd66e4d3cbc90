package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache. Values are stored encoded so callers never
// share mutable state with the cache.
type Memory struct {
	c *gocache.Cache
}

// NewMemory returns a cache whose expired entries are purged every cleanup.
func NewMemory(defaultTTL, cleanup time.Duration) *Memory {
	return &Memory{c: gocache.New(defaultTTL, cleanup)}
}

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := m.c.Get(key)
	if !ok {
		return false, nil
	}
	data, ok := raw.([]byte)
	if !ok {
		return false, fmt.Errorf("cache entry %s has type %T", key, raw)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}
	m.c.Set(key, data, ttl)
	return nil
}

// Len reports the number of entries, including expired ones not yet purged.
func (m *Memory) Len() int { return m.c.ItemCount() }

func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
