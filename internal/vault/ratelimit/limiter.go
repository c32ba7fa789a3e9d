// Package ratelimit provides per-client request throttling for DocVault.
package ratelimit

import (
	"sync"
	"time"

	"github.com/yndnr/docvault-go/pkg/cmap"
)

const (
	// DefaultLimit is the default number of requests per window.
	DefaultLimit = 100

	// DefaultWindow is the default sliding window length.
	DefaultWindow = time.Minute
)

// timeNow is overridable in tests.
var timeNow = time.Now

// window holds the recent request timestamps for one client.
type window struct {
	mu    sync.Mutex
	times []time.Time
}

// Limiter is a sliding-window rate limiter keyed by client id.
type Limiter struct {
	limit   int
	window  time.Duration
	clients *cmap.Map[string, *window]

	mu      sync.Mutex
	allowed uint64
	denied  uint64
}

// Stats is a snapshot of limiter counters.
type Stats struct {
	Allowed       uint64 `json:"allowed"`
	Denied        uint64 `json:"denied"`
	ActiveClients int    `json:"active_clients"`
	Limit         int    `json:"limit"`
	WindowSeconds int    `json:"window_seconds"`
}

// New creates a limiter. Non-positive limit or window fall back to the
// defaults.
func New(limit int, windowLen time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if windowLen <= 0 {
		windowLen = DefaultWindow
	}
	return &Limiter{
		limit:   limit,
		window:  windowLen,
		clients: cmap.New[string, *window](),
	}
}

// Check records a request attempt for the client and reports whether
// it is allowed. When denied, retryAfter is the time until the oldest
// request in the window ages out; the denied attempt is not recorded.
func (l *Limiter) Check(clientID string) (allowed bool, retryAfter time.Duration) {
	w, _ := l.clients.GetOrSet(clientID, &window{})

	now := timeNow()
	cutoff := now.Add(-l.window)

	w.mu.Lock()
	defer w.mu.Unlock()

	// Drop timestamps that left the window
	keep := w.times[:0]
	for _, ts := range w.times {
		if ts.After(cutoff) {
			keep = append(keep, ts)
		}
	}
	w.times = keep

	if len(w.times) >= l.limit {
		retryAfter = l.window - now.Sub(w.times[0])
		if retryAfter < 0 {
			retryAfter = 0
		}
		l.count(false)
		return false, retryAfter
	}

	w.times = append(w.times, now)
	l.count(true)
	return true, 0
}

// Remaining reports how many requests the client has left in the
// current window without recording an attempt.
func (l *Limiter) Remaining(clientID string) int {
	w, ok := l.clients.Get(clientID)
	if !ok {
		return l.limit
	}

	cutoff := timeNow().Add(-l.window)

	w.mu.Lock()
	defer w.mu.Unlock()

	active := 0
	for _, ts := range w.times {
		if ts.After(cutoff) {
			active++
		}
	}
	if active >= l.limit {
		return 0
	}
	return l.limit - active
}

// Reset clears the window for a client.
func (l *Limiter) Reset(clientID string) {
	l.clients.Delete(clientID)
}

// PurgeIdle removes clients with no requests inside the window and
// returns how many were removed.
func (l *Limiter) PurgeIdle() int {
	cutoff := timeNow().Add(-l.window)
	return l.clients.DeleteIf(func(_ string, w *window) bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		for _, ts := range w.times {
			if ts.After(cutoff) {
				return false
			}
		}
		return true
	})
}

// Stats returns a snapshot of limiter counters.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	allowed, denied := l.allowed, l.denied
	l.mu.Unlock()

	return Stats{
		Allowed:       allowed,
		Denied:        denied,
		ActiveClients: l.clients.Count(),
		Limit:         l.limit,
		WindowSeconds: int(l.window / time.Second),
	}
}

func (l *Limiter) count(allowed bool) {
	l.mu.Lock()
	if allowed {
		l.allowed++
	} else {
		l.denied++
	}
	l.mu.Unlock()
}
