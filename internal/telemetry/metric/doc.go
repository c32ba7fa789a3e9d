// Package metric provides Prometheus metrics for DocVault.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry and HTTP handler
//   - collector.go: Custom collectors for point-in-time vault stats
//
// Metrics include:
//
//   - Operation latency histograms
//   - Document count gauges
//   - Cache hit/miss counters
//   - Rate limit and auth failure counters
//   - Audit event counters
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
