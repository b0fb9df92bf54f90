package metrics

import (
	"sync"

	"github.com/ByLCY/mathbox/layout"
)

// Cache 按 (font, char) 记忆任意度量后端的结果，包括缺失的结果。
type Cache struct {
	provider layout.MetricsProvider

	mu      sync.RWMutex
	entries map[glyphKey]cacheEntry
}

type cacheEntry struct {
	metrics layout.Metrics
	err     error
}

var _ layout.MetricsProvider = (*Cache)(nil)

// Cached 包装一个度量后端。
func Cached(p layout.MetricsProvider) *Cache {
	return &Cache{provider: p, entries: map[glyphKey]cacheEntry{}}
}

// Lookup 实现 layout.MetricsProvider。
func (c *Cache) Lookup(id layout.FontID, char string) (layout.Metrics, error) {
	key := glyphKey{font: id, char: char}
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return e.metrics, e.err
	}

	m, err := c.provider.Lookup(id, char)
	c.mu.Lock()
	c.entries[key] = cacheEntry{metrics: m, err: err}
	c.mu.Unlock()
	return m, err
}

// Len 返回已缓存的条目数。
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
