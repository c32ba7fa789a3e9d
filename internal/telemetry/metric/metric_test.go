// Package metric provides Prometheus metrics for DocVault.
package metric

import (
	"strings"
	"testing"
)

func TestNewCollector(t *testing.T) {
	c := NewCollector()
	if c == nil {
		t.Fatal("NewCollector returned nil")
	}
	if c.documentCountDesc == nil {
		t.Error("documentCountDesc is nil")
	}
}

func TestCollector_Scrape(t *testing.T) {
	r := NewRegistry()

	c := NewCollector()
	c.DocumentCount = func() float64 { return 42 }
	c.CacheSize = func() float64 { return 7 }
	c.ActiveTokens = func() float64 { return 3 }

	if err := r.Register(c); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	bodyStr := scrape(t, r.Handler())

	if !strings.Contains(bodyStr, "docvault_documents_stored 42") {
		t.Error("expected docvault_documents_stored 42")
	}
	if !strings.Contains(bodyStr, "docvault_cache_entries 7") {
		t.Error("expected docvault_cache_entries 7")
	}
	if !strings.Contains(bodyStr, "docvault_tokens_active 3") {
		t.Error("expected docvault_tokens_active 3")
	}
	// PendingAudit source not set, metric should be absent
	if strings.Contains(bodyStr, "docvault_audit_pending") {
		t.Error("docvault_audit_pending should be absent when source is nil")
	}
}

func TestCollector_NilSources(t *testing.T) {
	r := NewRegistry()

	// All sources nil, scrape should still succeed
	if err := r.Register(NewCollector()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	bodyStr := scrape(t, r.Handler())
	if strings.Contains(bodyStr, "docvault_documents_stored") {
		t.Error("no stats metrics expected when all sources are nil")
	}
}
