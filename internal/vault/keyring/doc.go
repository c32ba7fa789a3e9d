// Package keyring manages DocVault encryption key material.
//
// This package implements the key hierarchy for document encryption:
//
//   - Master Key: 32 random bytes, generated once and persisted wrapped
//   - Wrapping Key: derived from an operator secret with Argon2id
//   - Document Keys: derived per document from the master key with HKDF
//
// The master key never touches disk in the clear. It is wrapped with
// AES-256-GCM under the Argon2id-derived wrapping key and stored in a
// JSON key file with mode 0600. Document keys are re-derived on every
// call and are never cached.
//
// When no operator secret is configured, a machine-bound secret is
// derived from the hostname and uid. This protects the key file from
// casual copying but not from an attacker with local access; deployments
// that need stronger protection must configure an explicit secret.
package keyring
