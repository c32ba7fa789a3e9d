// Package ratelimit provides per-client request throttling for DocVault.
//
// The limiter tracks exact request timestamps per client in a sliding
// window. When a client exceeds the limit, Check reports the wait until
// the oldest request leaves the window, so callers can return a precise
// retry-after hint instead of a fixed backoff.
//
// Idle client state is reclaimed with PurgeIdle.
package ratelimit
