package cache

import "sync"

// Memory is an in-process Store. It backs tests and one-shot runs that
// should not touch the on-disk cache.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (c *Memory) Get(key string) (string, bool) {
	c.mu.RLock()
	v, ok := c.m[key]
	c.mu.RUnlock()
	return v, ok
}

func (c *Memory) Set(key, value string) error {
	c.mu.Lock()
	c.m[key] = value
	c.mu.Unlock()
	return nil
}
