// Package cache provides the in-memory document cache for DocVault.
//
// The cache combines LRU eviction with per-entry TTL expiry:
//
//   - Capacity: when full, the least recently used entry is evicted
//   - TTL: entries older than the configured TTL are treated as absent
//   - Stats: hits, misses, evictions and expirations are counted
//
// Expired entries are reaped lazily on access and in bulk via Purge.
// All operations are safe for concurrent use.
package cache
