package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/docvault-go/internal/core/domain"
)

func testDoc(id string) *domain.Document {
	return &domain.Document{
		ID:          id,
		Title:       "title " + id,
		Content:     []byte("content " + id),
		ContentType: domain.DefaultContentType,
		Status:      domain.StatusActive,
	}
}

// frozenClock pins timeNow and returns an advance function.
func frozenClock(t *testing.T) func(d time.Duration) {
	t.Helper()
	now := time.Unix(1_700_000_000, 0)
	var mu sync.Mutex
	orig := timeNow
	timeNow = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	t.Cleanup(func() { timeNow = orig })
	return func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New(0, 0)
	s := c.Stats()
	if s.Capacity != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", s.Capacity, DefaultCapacity)
	}
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
}

func TestPutAndGet(t *testing.T) {
	c := New(10, time.Minute)

	c.Put(testDoc("doc-1"))

	got := c.Get("doc-1")
	if got == nil {
		t.Fatal("Get(doc-1) = nil, want document")
	}
	if got.Title != "title doc-1" {
		t.Errorf("Title = %q, want %q", got.Title, "title doc-1")
	}

	if c.Get("doc-missing") != nil {
		t.Error("Get(doc-missing) should return nil")
	}
}

func TestGet_ReturnsClone(t *testing.T) {
	c := New(10, time.Minute)
	c.Put(testDoc("doc-1"))

	got := c.Get("doc-1")
	got.Title = "mutated"
	got.Content[0] = 'X'

	again := c.Get("doc-1")
	if again.Title != "title doc-1" {
		t.Error("caller mutation of Title leaked into cache")
	}
	if again.Content[0] == 'X' {
		t.Error("caller mutation of Content leaked into cache")
	}
}

func TestPut_StoresClone(t *testing.T) {
	c := New(10, time.Minute)
	doc := testDoc("doc-1")
	c.Put(doc)

	doc.Title = "mutated"

	if got := c.Get("doc-1"); got.Title != "title doc-1" {
		t.Error("mutation after Put leaked into cache")
	}
}

func TestPut_OverwriteMovesToFront(t *testing.T) {
	c := New(2, time.Minute)
	c.Put(testDoc("doc-1"))
	c.Put(testDoc("doc-2"))

	// Refresh doc-1, making doc-2 the LRU entry
	c.Put(testDoc("doc-1"))
	c.Put(testDoc("doc-3"))

	if c.Get("doc-2") != nil {
		t.Error("doc-2 should have been evicted")
	}
	if c.Get("doc-1") == nil {
		t.Error("doc-1 should survive")
	}
}

func TestEviction_LRUOrder(t *testing.T) {
	c := New(3, time.Minute)
	c.Put(testDoc("doc-1"))
	c.Put(testDoc("doc-2"))
	c.Put(testDoc("doc-3"))

	// Touch doc-1 so doc-2 is least recently used
	if c.Get("doc-1") == nil {
		t.Fatal("Get(doc-1) = nil")
	}

	c.Put(testDoc("doc-4"))

	if c.Get("doc-2") != nil {
		t.Error("doc-2 should have been evicted as LRU")
	}
	for _, id := range []string{"doc-1", "doc-3", "doc-4"} {
		if c.Get(id) == nil {
			t.Errorf("%s should still be cached", id)
		}
	}

	if s := c.Stats(); s.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", s.Evictions)
	}
}

func TestTTLExpiry(t *testing.T) {
	advance := frozenClock(t)
	c := New(10, time.Minute)

	c.Put(testDoc("doc-1"))

	advance(59 * time.Second)
	if c.Get("doc-1") == nil {
		t.Fatal("entry expired before TTL")
	}

	advance(2 * time.Second)
	if c.Get("doc-1") != nil {
		t.Fatal("entry should be expired")
	}

	s := c.Stats()
	if s.Expirations != 1 {
		t.Errorf("Expirations = %d, want 1", s.Expirations)
	}
	if s.Size != 0 {
		t.Errorf("Size = %d, want 0 after lazy reap", s.Size)
	}
}

func TestPurge(t *testing.T) {
	advance := frozenClock(t)
	c := New(10, time.Minute)

	c.Put(testDoc("doc-1"))
	c.Put(testDoc("doc-2"))
	advance(30 * time.Second)
	c.Put(testDoc("doc-3"))
	advance(45 * time.Second)

	// doc-1 and doc-2 are now past TTL, doc-3 is not
	if removed := c.Purge(); removed != 2 {
		t.Fatalf("Purge() = %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if c.Get("doc-3") == nil {
		t.Error("doc-3 should survive Purge")
	}
}

func TestInvalidate(t *testing.T) {
	c := New(10, time.Minute)
	c.Put(testDoc("doc-1"))

	if !c.Invalidate("doc-1") {
		t.Error("Invalidate(present) should return true")
	}
	if c.Invalidate("doc-1") {
		t.Error("Invalidate(absent) should return false")
	}
	if c.Get("doc-1") != nil {
		t.Error("doc-1 should be gone after Invalidate")
	}
}

func TestClear(t *testing.T) {
	c := New(10, time.Minute)
	c.Put(testDoc("doc-1"))
	c.Put(testDoc("doc-2"))
	c.Get("doc-1")

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if s := c.Stats(); s.Hits != 1 {
		t.Errorf("Clear reset counters: hits = %d, want 1", s.Hits)
	}
}

func TestStats_HitRate(t *testing.T) {
	c := New(10, time.Minute)
	c.Put(testDoc("doc-1"))

	c.Get("doc-1")    // hit
	c.Get("doc-1")    // hit
	c.Get("doc-miss") // miss

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Fatalf("hits/misses = %d/%d, want 2/1", s.Hits, s.Misses)
	}
	want := 2.0 / 3.0
	if diff := s.HitRate - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("HitRate = %v, want %v", s.HitRate, want)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(100, time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("doc-%d", n%20)
			for j := 0; j < 100; j++ {
				c.Put(testDoc(id))
				c.Get(id)
				if j%10 == 0 {
					c.Invalidate(id)
				}
			}
		}(i)
	}
	wg.Wait()

	// Counter consistency, not exact values
	s := c.Stats()
	if s.Hits+s.Misses == 0 {
		t.Error("no gets recorded")
	}
	if s.Size > 100 {
		t.Errorf("Size = %d exceeds capacity", s.Size)
	}
}
