// Package config defines the DocVault configuration structure.
//
// Configuration is loaded by infra/confloader with the usual priority
// (env over file over defaults), verified with Verify and logged only
// after Sanitize has masked secrets.
//
// The memory profile (small, medium, large, xlarge) derives cache
// capacity, cache TTL and the database connection pool size; explicit
// values in the cache and vault sections override the profile.
package config
