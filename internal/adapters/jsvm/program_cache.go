package jsvm

import (
	"sync"

	"github.com/dop251/goja"
)

const DefaultProgramCacheSize = 64

// programCache holds compiled programs by source hash. Programs are
// immutable and safe to run in many runtimes at once.
type programCache struct {
	mu      sync.RWMutex
	entries map[string]*goja.Program
	size    int
}

func newProgramCache(size int) *programCache {
	return &programCache{
		entries: make(map[string]*goja.Program),
		size:    size,
	}
}

func (c *programCache) get(key string) (*goja.Program, bool) {
	if c.size <= 0 {
		return nil, false
	}
	c.mu.RLock()
	program, ok := c.entries[key]
	c.mu.RUnlock()
	return program, ok
}

func (c *programCache) set(key string, program *goja.Program) {
	if c.size <= 0 {
		return
	}
	c.mu.Lock()
	if len(c.entries) >= c.size {
		c.entries = make(map[string]*goja.Program)
	}
	c.entries[key] = program
	c.mu.Unlock()
}

func (c *programCache) count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
