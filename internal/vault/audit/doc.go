// Package audit provides the buffered security audit trail for DocVault.
//
// Events are accepted without blocking the caller, buffered in memory
// and flushed to an append-only NDJSON file by a background goroutine.
// When the buffer fills faster than it drains, the oldest pending
// events are dropped and counted rather than stalling document
// operations.
//
// A bounded in-memory history backs the Recent query and the anomaly
// scan: repeated authentication failures by one user inside a short
// window, or any injection attempt, are surfaced as anomalies.
package audit
