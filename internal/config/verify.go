// Package config defines the DocVault configuration structure.
package config

import (
	"errors"
	"os"
)

// validModes are the accepted vault.mode values.
var validModes = map[string]bool{
	"basic":       true,
	"performance": true,
	"secure":      true,
	"enterprise":  true,
}

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyVault(&cfg.Vault); err != nil {
		return err
	}
	if err := verifySecurity(&cfg.Security); err != nil {
		return err
	}
	if err := verifyRateLimit(&cfg.RateLimit); err != nil {
		return err
	}
	return nil
}

func verifyVault(cfg *VaultSection) error {
	if !validModes[cfg.Mode] {
		return errors.New("vault.mode must be one of: basic, performance, secure, enterprise")
	}

	if cfg.MemoryProfile != "" {
		if _, ok := memoryProfiles[cfg.MemoryProfile]; !ok {
			return errors.New("vault.memory_profile must be one of: small, medium, large, xlarge")
		}
	}

	if cfg.DataDir == "" {
		return errors.New("vault.data_dir is required")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return errors.New("cannot create data directory: " + err.Error())
	}

	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	switch cfg.Algorithm {
	case "", "aes-gcm", "chacha20-poly1305":
	default:
		return errors.New("security.algorithm must be aes-gcm or chacha20-poly1305")
	}
	if cfg.TokenTTL < 0 {
		return errors.New("security.token_ttl must not be negative")
	}
	return nil
}

func verifyRateLimit(cfg *RateLimitSection) error {
	if cfg.Limit < 0 {
		return errors.New("rate_limit.limit must not be negative")
	}
	if cfg.Window < 0 {
		return errors.New("rate_limit.window must not be negative")
	}
	return nil
}
