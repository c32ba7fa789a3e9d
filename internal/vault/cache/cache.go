// Package cache provides the in-memory document cache for DocVault.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/yndnr/docvault-go/internal/core/domain"
)

const (
	// DefaultCapacity is the default maximum entry count.
	DefaultCapacity = 1000

	// DefaultTTL is the default entry time-to-live.
	DefaultTTL = 30 * time.Minute
)

// timeNow is overridable in tests.
var timeNow = time.Now

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	Evictions   uint64  `json:"evictions"`
	Expirations uint64  `json:"expirations"`
	Size        int     `json:"size"`
	Capacity    int     `json:"capacity"`
	HitRate     float64 `json:"hit_rate"`
}

// entry is a single cached document keyed by id.
type entry struct {
	key      string
	doc      *domain.Document
	storedAt time.Time
}

// Cache is an LRU cache with TTL expiry for documents.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // front = most recently used
	items    map[string]*list.Element

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
}

// New creates a cache. Non-positive capacity or TTL fall back to the
// defaults.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns a clone of the cached document, or nil if absent or
// expired. Clones keep callers from mutating shared cache state.
func (c *Cache) Get(id string) *domain.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[id]
	if !ok {
		c.misses++
		return nil
	}

	e := el.Value.(*entry)
	if c.expired(e) {
		c.removeLocked(el)
		c.expirations++
		c.misses++
		return nil
	}

	c.order.MoveToFront(el)
	c.hits++
	return e.doc.Clone()
}

// Put stores a clone of the document, evicting the LRU entry when full.
func (c *Cache) Put(doc *domain.Document) {
	if doc == nil || doc.ID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[doc.ID]; ok {
		e := el.Value.(*entry)
		e.doc = doc.Clone()
		e.storedAt = timeNow()
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		if back := c.order.Back(); back != nil {
			c.removeLocked(back)
			c.evictions++
		}
	}

	el := c.order.PushFront(&entry{
		key:      doc.ID,
		doc:      doc.Clone(),
		storedAt: timeNow(),
	})
	c.items[doc.ID] = el
}

// Invalidate removes a single entry. Returns true if it was present.
func (c *Cache) Invalidate(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[id]
	if !ok {
		return false
	}
	c.removeLocked(el)
	return true
}

// Clear removes all entries. Counters are preserved.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// Purge removes all expired entries and returns how many were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if e := el.Value.(*entry); c.expired(e) {
			c.removeLocked(el)
			c.expirations++
			removed++
		}
		el = prev
	}
	return removed
}

// Len returns the current entry count, including not-yet-reaped
// expired entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
		Size:        c.order.Len(),
		Capacity:    c.capacity,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

func (c *Cache) expired(e *entry) bool {
	return timeNow().Sub(e.storedAt) > c.ttl
}

func (c *Cache) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.items, e.key)
}
