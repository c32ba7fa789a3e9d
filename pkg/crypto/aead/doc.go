// Package aead provides authenticated encryption for DocVault.
//
// It wraps AES-256-GCM and ChaCha20-Poly1305 behind a single Cipher
// interface and fixes the sealed blob layout used by the vault at rest:
//
//	nonce || tag || ciphertext
//
// The nonce is random per call, so sealing identical plaintext twice
// yields different blobs.
//
// Supported algorithms:
//
//   - AES-256-GCM: preferred when hardware AES support is available
//   - ChaCha20-Poly1305: fallback for systems without AES-NI
//
// Usage:
//
//	cipher, err := aead.New(key)
//	blob, err := cipher.Seal(plaintext, aad)
//	plaintext, err := cipher.Open(blob, aad)
package aead
