package scheduler

import "sync"

// Context is a shared key/value map scoped to one scheduler instance.
// Plugins publish themselves here so their scheduled jobs can find them back.
type Context struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewContext creates an empty scheduler context.
func NewContext() *Context {
	return &Context{values: make(map[string]any)}
}

// Put stores a value under the given key, replacing any previous value.
func (c *Context) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Get returns the value stored under the given key.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}
