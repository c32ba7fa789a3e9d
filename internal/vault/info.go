// Package vault implements the DocVault storage manager.
package vault

import (
	"context"
	"time"

	"github.com/yndnr/docvault-go/internal/infra/buildinfo"
	"github.com/yndnr/docvault-go/internal/telemetry/metric"
	"github.com/yndnr/docvault-go/internal/vault/audit"
	"github.com/yndnr/docvault-go/internal/vault/cache"
	"github.com/yndnr/docvault-go/internal/vault/ratelimit"
)

// SystemInfo is a static snapshot of the vault configuration.
type SystemInfo struct {
	Version        string       `json:"version"`
	Mode           Mode         `json:"mode"`
	Flags          FeatureFlags `json:"flags"`
	DataDir        string       `json:"data_dir"`
	MemoryProfile  string       `json:"memory_profile"`
	Encrypted      bool         `json:"encrypted"`
	FullTextSearch bool         `json:"full_text_search"`
	DocumentCount  int          `json:"document_count"`
	ActiveTokens   int          `json:"active_tokens"`
	StartedAt      time.Time    `json:"started_at"`
}

// PerformanceMetrics aggregates the live counters of every component.
// Disabled components report zero values.
type PerformanceMetrics struct {
	Uptime        time.Duration   `json:"uptime"`
	DocumentCount int             `json:"document_count"`
	Cache         cache.Stats     `json:"cache"`
	RateLimit     ratelimit.Stats `json:"rate_limit"`
	Audit         audit.Stats     `json:"audit"`
}

// SystemInfo reports the vault configuration and basic counts.
func (m *Manager) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	count, err := m.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	info := &SystemInfo{
		Version:        buildinfo.Get().Version,
		Mode:           m.mode,
		Flags:          m.flags,
		DataDir:        m.cfg.Vault.DataDir,
		MemoryProfile:  m.cfg.Vault.MemoryProfile,
		Encrypted:      m.repo.Encrypted(),
		FullTextSearch: m.repo.FullTextSearchEnabled(),
		DocumentCount:  count,
		StartedAt:      m.startedAt,
	}
	if m.access != nil {
		info.ActiveTokens = m.access.ActiveTokens()
	}
	return info, nil
}

// PerformanceMetrics reports live component counters.
func (m *Manager) PerformanceMetrics(ctx context.Context) (*PerformanceMetrics, error) {
	count, err := m.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	pm := &PerformanceMetrics{
		Uptime:        timeNow().Sub(m.startedAt),
		DocumentCount: count,
	}
	if m.cache != nil {
		pm.Cache = m.cache.Stats()
	}
	if m.limiter != nil {
		pm.RateLimit = m.limiter.Stats()
	}
	if m.trail != nil {
		pm.Audit = m.trail.Stats()
	}
	return pm, nil
}

// StatsCollector returns a Prometheus collector that pulls
// point-in-time gauges from the vault on every scrape.
func (m *Manager) StatsCollector() *metric.Collector {
	c := metric.NewCollector()
	c.DocumentCount = func() float64 {
		n, err := m.repo.Count(context.Background())
		if err != nil {
			return 0
		}
		return float64(n)
	}
	if m.cache != nil {
		c.CacheSize = func() float64 { return float64(m.cache.Len()) }
	}
	if m.access != nil {
		c.ActiveTokens = func() float64 { return float64(m.access.ActiveTokens()) }
	}
	if m.trail != nil {
		c.PendingAudit = func() float64 { return float64(m.trail.Stats().Pending) }
	}
	return c
}
