// SPDX-License-Identifier: MPL-2.0

package modsource

import "sync"

type (
	// Key addresses one module in the Cache.
	Key struct {
		Category   string
		Identifier string
	}

	// Cache stores instantiated modules by Key. It is safe for concurrent use.
	Cache struct {
		mu      sync.Mutex
		entries map[Key]*Module
	}
)

// String returns "category/identifier".
func (k Key) String() string { return k.Category + "/" + k.Identifier }

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*Module)}
}

// Get returns the cached module for key.
func (c *Cache) Get(key Key) (*Module, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[key]
	return m, ok
}

// Put stores m under key, replacing any previous entry.
func (c *Cache) Put(key Key, m *Module) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = m
}

// Evict drops key and reports whether an entry was present.
func (c *Cache) Evict(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Len returns the number of cached modules.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
