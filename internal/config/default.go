// Package config defines the DocVault configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultMode          = "basic"
	DefaultDataDir       = "/var/lib/docvault/data"
	DefaultMemoryProfile = "medium"

	DefaultRateLimit       = 100
	DefaultRateLimitWindow = time.Minute

	DefaultTokenTTL = 24 * time.Hour

	DefaultAuditBufferSize    = 1000
	DefaultAuditHistorySize   = 1000
	DefaultAuditFlushInterval = 10 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// MemoryProfile holds the sizes derived from vault.memory_profile.
type MemoryProfile struct {
	CacheCapacity int
	CacheTTL      time.Duration
	PoolSize      int
}

// memoryProfiles maps profile names to their sizes.
var memoryProfiles = map[string]MemoryProfile{
	"small":  {CacheCapacity: 100, CacheTTL: 5 * time.Minute, PoolSize: 2},
	"medium": {CacheCapacity: 500, CacheTTL: 15 * time.Minute, PoolSize: 4},
	"large":  {CacheCapacity: 2000, CacheTTL: 30 * time.Minute, PoolSize: 8},
	"xlarge": {CacheCapacity: 5000, CacheTTL: time.Hour, PoolSize: 16},
}

// Profile resolves the configured memory profile, falling back to the
// default for unknown names.
func (c *Config) Profile() MemoryProfile {
	if p, ok := memoryProfiles[c.Vault.MemoryProfile]; ok {
		return p
	}
	return memoryProfiles[DefaultMemoryProfile]
}

// CacheCapacity returns the explicit cache capacity or the profile's.
func (c *Config) CacheCapacity() int {
	if c.Cache.Capacity > 0 {
		return c.Cache.Capacity
	}
	return c.Profile().CacheCapacity
}

// CacheTTL returns the explicit cache TTL or the profile's.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL > 0 {
		return c.Cache.TTL
	}
	return c.Profile().CacheTTL
}

// PoolSize returns the explicit pool size or the profile's.
func (c *Config) PoolSize() int {
	if c.Vault.PoolSize > 0 {
		return c.Vault.PoolSize
	}
	return c.Profile().PoolSize
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Vault: VaultSection{
			Mode:          DefaultMode,
			DataDir:       DefaultDataDir,
			MemoryProfile: DefaultMemoryProfile,
		},
		RateLimit: RateLimitSection{
			Limit:  DefaultRateLimit,
			Window: DefaultRateLimitWindow,
		},
		Security: SecuritySection{
			TokenTTL: DefaultTokenTTL,
		},
		Audit: AuditSection{
			BufferSize:    DefaultAuditBufferSize,
			HistorySize:   DefaultAuditHistorySize,
			FlushInterval: DefaultAuditFlushInterval,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
