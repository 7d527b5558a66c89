package cache

import (
	"container/list"
	"sync"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"
)

// DefaultCapacity is the number of tables kept when no capacity is given.
const DefaultCapacity = 8

type entry struct {
	key   Fingerprint
	table domain.Table
}

// TableCache is a bounded least-recently-used cache of normalized tables.
// It is safe for concurrent use.
type TableCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[Fingerprint]*list.Element
}

// New creates a cache holding at most capacity tables.
func New(capacity int) *TableCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &TableCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[Fingerprint]*list.Element, capacity),
	}
}

// Get returns the table cached under key.
func (c *TableCache) Get(key Fingerprint) (domain.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return domain.Table{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).table, true
}

// Put stores table under key, evicting the least recently used entry when full.
func (c *TableCache) Put(key Fingerprint, table domain.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).table = table
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, table: table})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}
}

// Invalidate drops the entry for key.
func (c *TableCache) Invalidate(key Fingerprint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.Remove(el)
		delete(c.entries, key)
	}
}

// Purge drops every entry.
func (c *TableCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	clear(c.entries)
}

// Len returns the number of cached tables.
func (c *TableCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
