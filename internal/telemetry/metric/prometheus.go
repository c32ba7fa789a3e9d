// Package metric provides Prometheus metrics for DocVault.
//
// It exposes metrics in Prometheus format for monitoring
// document counts, operation rates, latencies, and system health.
package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docvault"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Document metrics
	DocumentsActive  prometheus.Gauge
	DocumentsCreated prometheus.Counter
	DocumentsDeleted prometheus.Counter

	// Operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEvictions prometheus.Counter

	// Security metrics
	RateLimitDenials prometheus.Counter
	AuthFailures     *prometheus.CounterVec
	TokenValidations *prometheus.CounterVec
	PIIFindings      *prometheus.CounterVec

	// Audit metrics
	AuditEvents  *prometheus.CounterVec
	AuditDropped prometheus.Counter
}

// NewRegistry creates a new metrics registry with all DocVault
// metrics registered, plus the standard Go and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,

		DocumentsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "documents_active_total",
			Help:      "Number of live (non-deleted) documents.",
		}),
		DocumentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_created_total",
			Help:      "Total number of documents created.",
		}),
		DocumentsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_deleted_total",
			Help:      "Total number of documents deleted.",
		}),

		OperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of storage operations.",
		}, []string{"operation", "status"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Storage operation latency distribution.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),

		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of document cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of document cache misses.",
		}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Total number of cache evictions.",
		}),

		RateLimitDenials: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_denials_total",
			Help:      "Total number of requests denied by the rate limiter.",
		}),
		AuthFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Total number of authentication failures.",
		}, []string{"reason"}),
		TokenValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_validate_calls_total",
			Help:      "Total number of token validation calls.",
		}, []string{"result"}),
		PIIFindings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pii_findings_total",
			Help:      "Total number of PII findings by category.",
		}, []string{"category"}),

		AuditEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_total",
			Help:      "Total number of audit events recorded.",
		}, []string{"action"}),
		AuditDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_dropped_total",
			Help:      "Total number of audit events dropped due to buffer pressure.",
		}),
	}

	reg.MustRegister(
		r.DocumentsActive,
		r.DocumentsCreated,
		r.DocumentsDeleted,
		r.OperationsTotal,
		r.OperationDuration,
		r.CacheHits,
		r.CacheMisses,
		r.CacheEvictions,
		r.RateLimitDenials,
		r.AuthFailures,
		r.TokenValidations,
		r.PIIFindings,
		r.AuditEvents,
		r.AuditDropped,
	)

	return r
}

// Handler returns an HTTP handler serving this registry's metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Register registers an additional collector with this registry.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// SetDocumentsActive sets the live document count gauge.
func (r *Registry) SetDocumentsActive(n float64) { r.DocumentsActive.Set(n) }

// IncDocumentCreated increments the created document counter.
func (r *Registry) IncDocumentCreated() { r.DocumentsCreated.Inc() }

// IncDocumentDeleted increments the deleted document counter.
func (r *Registry) IncDocumentDeleted() { r.DocumentsDeleted.Inc() }

// RecordOperation records a completed storage operation.
func (r *Registry) RecordOperation(operation, status string) {
	r.OperationsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveOperationDuration records the latency of a storage operation.
func (r *Registry) ObserveOperationDuration(operation string, seconds float64) {
	r.OperationDuration.WithLabelValues(operation).Observe(seconds)
}

// IncCacheHit increments the cache hit counter.
func (r *Registry) IncCacheHit() { r.CacheHits.Inc() }

// IncCacheMiss increments the cache miss counter.
func (r *Registry) IncCacheMiss() { r.CacheMisses.Inc() }

// IncCacheEviction increments the cache eviction counter.
func (r *Registry) IncCacheEviction() { r.CacheEvictions.Inc() }

// IncRateLimitDenial increments the rate limit denial counter.
func (r *Registry) IncRateLimitDenial() { r.RateLimitDenials.Inc() }

// RecordAuthFailure records an authentication failure by reason.
func (r *Registry) RecordAuthFailure(reason string) {
	r.AuthFailures.WithLabelValues(reason).Inc()
}

// RecordTokenValidation records a token validation result
// (valid, invalid, expired, malformed).
func (r *Registry) RecordTokenValidation(result string) {
	r.TokenValidations.WithLabelValues(result).Inc()
}

// RecordPIIFinding records a PII detection by category.
func (r *Registry) RecordPIIFinding(category string) {
	r.PIIFindings.WithLabelValues(category).Inc()
}

// RecordAuditEvent records an audit event by action.
func (r *Registry) RecordAuditEvent(action string) {
	r.AuditEvents.WithLabelValues(action).Inc()
}

// IncAuditDropped increments the dropped audit event counter.
func (r *Registry) IncAuditDropped() { r.AuditDropped.Inc() }

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide metrics registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns an HTTP handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}
