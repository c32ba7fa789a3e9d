// Package vault implements the DocVault storage manager.
package vault

import (
	"strings"

	"github.com/yndnr/docvault-go/internal/core/domain"
)

// Mode selects which vault features are active. It is fixed at
// construction time.
type Mode string

const (
	// ModeBasic stores plaintext documents with full-text search only.
	ModeBasic Mode = "basic"

	// ModePerformance adds caching, batching and streaming.
	ModePerformance Mode = "performance"

	// ModeSecure enables encryption, RBAC, rate limiting, PII masking,
	// audit logging and secure deletion, without the performance layer.
	ModeSecure Mode = "secure"

	// ModeEnterprise enables everything.
	ModeEnterprise Mode = "enterprise"
)

// ParseMode parses a mode name (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeBasic:
		return ModeBasic, nil
	case ModePerformance:
		return ModePerformance, nil
	case ModeSecure:
		return ModeSecure, nil
	case ModeEnterprise:
		return ModeEnterprise, nil
	default:
		return "", domain.ErrInvalidArgument.WithDetails("unknown mode: " + s)
	}
}

// FeatureFlags is the fixed feature vector computed from the mode.
type FeatureFlags struct {
	Caching        bool `json:"caching"`
	Batching       bool `json:"batching"`
	FullTextSearch bool `json:"full_text_search"`
	Streaming      bool `json:"streaming"`
	PIIDetection   bool `json:"pii_detection"`
	AuditLogging   bool `json:"audit_logging"`
	RBAC           bool `json:"rbac"`
	SecureDeletion bool `json:"secure_deletion"`
	Encryption     bool `json:"encryption"`
	RateLimiting   bool `json:"rate_limiting"`
}

// flagsForMode maps a mode to its feature vector.
func flagsForMode(mode Mode) FeatureFlags {
	switch mode {
	case ModePerformance:
		return FeatureFlags{
			Caching:        true,
			Batching:       true,
			FullTextSearch: true,
			Streaming:      true,
		}
	case ModeSecure:
		return FeatureFlags{
			PIIDetection:   true,
			AuditLogging:   true,
			RBAC:           true,
			SecureDeletion: true,
			Encryption:     true,
			RateLimiting:   true,
		}
	case ModeEnterprise:
		return FeatureFlags{
			Caching:        true,
			Batching:       true,
			FullTextSearch: true,
			Streaming:      true,
			PIIDetection:   true,
			AuditLogging:   true,
			RBAC:           true,
			SecureDeletion: true,
			Encryption:     true,
			RateLimiting:   true,
		}
	default: // ModeBasic
		return FeatureFlags{
			FullTextSearch: true,
		}
	}
}
