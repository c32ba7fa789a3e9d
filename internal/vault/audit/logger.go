// Package audit provides the buffered security audit trail for DocVault.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yndnr/docvault-go/internal/core/domain"
	"github.com/yndnr/docvault-go/internal/telemetry/logger"
)

const (
	// DefaultBufferSize is the pending event buffer capacity.
	DefaultBufferSize = 1000

	// DefaultHistorySize is the in-memory history capacity.
	DefaultHistorySize = 1000

	// DefaultFlushInterval is the background flush period.
	DefaultFlushInterval = 10 * time.Second
)

// timeNow is overridable in tests.
var timeNow = time.Now

// Logger is the buffered audit trail.
type Logger struct {
	mu      sync.Mutex
	pending []*domain.AuditEvent
	history []*domain.AuditEvent // ring, oldest first
	counts  map[domain.Action]uint64
	dropped uint64

	bufferSize  int
	historySize int
	file        *os.File
	enc         *json.Encoder

	flushInterval time.Duration
	done          chan struct{}
	wg            sync.WaitGroup
	closed        bool
}

// Options configures Open.
type Options struct {
	// BufferSize caps pending events awaiting flush.
	BufferSize int

	// HistorySize caps the in-memory history used by Recent and Anomalies.
	HistorySize int

	// FlushInterval is the background flush period.
	FlushInterval time.Duration
}

// Stats is a snapshot of logger counters.
type Stats struct {
	Recorded uint64                   `json:"recorded"`
	Dropped  uint64                   `json:"dropped"`
	Pending  int                      `json:"pending"`
	ByAction map[domain.Action]uint64 `json:"by_action"`
}

// Open creates a logger appending to the NDJSON file at path and
// starts the background flusher. Existing events in the file are
// reloaded into the in-memory history so Recent and Anomalies work
// across restarts.
func Open(path string, opts Options) (*Logger, error) {
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = DefaultHistorySize
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = DefaultFlushInterval
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("audit: create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("audit: open log file: %w", err)
	}

	l := &Logger{
		pending:       make([]*domain.AuditEvent, 0, opts.BufferSize),
		counts:        make(map[domain.Action]uint64),
		bufferSize:    opts.BufferSize,
		historySize:   opts.HistorySize,
		file:          file,
		enc:           json.NewEncoder(file),
		flushInterval: opts.FlushInterval,
		done:          make(chan struct{}),
	}
	l.history = loadHistory(path, opts.HistorySize)

	l.wg.Add(1)
	go l.flushLoop()
	return l, nil
}

// loadHistory reads the tail of an existing audit file. Unparseable
// lines are skipped; a partial last line from a crashed writer must not
// prevent the vault from opening.
func loadHistory(path string, limit int) []*domain.AuditEvent {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var history []*domain.AuditEvent
	dec := json.NewDecoder(f)
	for {
		var e domain.AuditEvent
		if err := dec.Decode(&e); err != nil {
			break
		}
		history = append(history, &e)
		if len(history) > limit {
			history = history[1:]
		}
	}
	return history
}

// Record accepts an event. It never blocks; when the pending buffer is
// full the oldest pending event is dropped.
func (l *Logger) Record(e *domain.AuditEvent) {
	if e == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	if len(l.pending) >= l.bufferSize {
		l.pending = l.pending[1:]
		l.dropped++
	}
	l.pending = append(l.pending, e)

	l.history = append(l.history, e)
	if len(l.history) > l.historySize {
		l.history = l.history[1:]
	}

	l.counts[e.Action]++
}

// Flush writes all pending events to the log file.
func (l *Logger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.flushLocked()
}

func (l *Logger) flushLocked() error {
	for i, e := range l.pending {
		if err := l.enc.Encode(e); err != nil {
			// Keep only the events not yet written, so the next flush
			// does not duplicate this batch's head.
			n := copy(l.pending, l.pending[i:])
			l.pending = l.pending[:n]
			return fmt.Errorf("audit: write event: %w", err)
		}
	}
	l.pending = l.pending[:0]
	return nil
}

func (l *Logger) flushLoop() {
	defer l.wg.Done()
	ticker := time.NewTicker(l.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := l.Flush(); err != nil {
				logger.Warn("audit flush failed", "error", err)
			}
		case <-l.done:
			return
		}
	}
}

// Recent returns up to n events, newest first.
func (l *Logger) Recent(n int) []*domain.AuditEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.history) {
		n = len(l.history)
	}
	out := make([]*domain.AuditEvent, 0, n)
	for i := len(l.history) - 1; i >= len(l.history)-n; i-- {
		out = append(out, l.history[i].Clone())
	}
	return out
}

// Stats returns a snapshot of logger counters.
func (l *Logger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	byAction := make(map[domain.Action]uint64, len(l.counts))
	var total uint64
	for a, n := range l.counts {
		byAction[a] = n
		total += n
	}
	return Stats{
		Recorded: total,
		Dropped:  l.dropped,
		Pending:  len(l.pending),
		ByAction: byAction,
	}
}

// Close stops the flusher, writes remaining events and closes the file.
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	close(l.done)
	l.wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	flushErr := l.flushLocked()
	closeErr := l.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
