// Package cmap implements a generic sharded map safe for concurrent
// use.
//
// Keys are spread over independently locked shards, so writers on
// different keys rarely contend. DocVault uses it for the in-process
// token table and the rate limiter's per-client request windows.
//
//	m := cmap.New[string, *Session]()
//	m.Set("dvtk_...", session)
//	session, ok := m.Get("dvtk_...")
//
// Reads take the shard's RLock, writes its Lock. Iteration locks one
// shard at a time, so a Range during concurrent writes sees a
// possibly-inconsistent snapshot.
package cmap
