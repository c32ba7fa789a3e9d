// Package config defines the DocVault configuration structure.
package config

import "time"

// Config is the root configuration for docvault.
type Config struct {
	Vault     VaultSection     `koanf:"vault"`
	Cache     CacheSection     `koanf:"cache"`
	RateLimit RateLimitSection `koanf:"rate_limit"`
	Security  SecuritySection  `koanf:"security"`
	Audit     AuditSection     `koanf:"audit"`
	Log       LogSection       `koanf:"log"`
}

// VaultSection configures the storage manager.
type VaultSection struct {
	// Mode selects the feature set: basic, performance, secure, enterprise.
	Mode string `koanf:"mode"`

	// DataDir holds the database, key file and audit log.
	DataDir string `koanf:"data_dir"`

	// MemoryProfile sizes caches and pools: small, medium, large, xlarge.
	MemoryProfile string `koanf:"memory_profile"`

	// PoolSize overrides the profile's database connection pool size.
	PoolSize int `koanf:"pool_size"`
}

// CacheSection configures the document cache. Zero values fall back to
// the memory profile.
type CacheSection struct {
	Capacity int           `koanf:"capacity"`
	TTL      time.Duration `koanf:"ttl"`
}

// RateLimitSection configures per-client request throttling.
type RateLimitSection struct {
	Limit  int           `koanf:"limit"`
	Window time.Duration `koanf:"window"`
}

// SecuritySection configures encryption and access control.
type SecuritySection struct {
	// Secret protects the master key file. When empty, a machine-bound
	// secret is derived.
	Secret string `koanf:"secret"`

	// Algorithm selects the document cipher: aes-gcm or chacha20-poly1305.
	// Empty picks the optimal one for the hardware.
	Algorithm string `koanf:"algorithm"`

	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration `koanf:"token_ttl"`
}

// AuditSection configures the audit trail.
type AuditSection struct {
	BufferSize    int           `koanf:"buffer_size"`
	HistorySize   int           `koanf:"history_size"`
	FlushInterval time.Duration `koanf:"flush_interval"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
