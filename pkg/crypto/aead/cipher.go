// Package aead provides authenticated encryption for DocVault.
package aead

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
	"runtime"
)

// Algorithm identifies the cipher algorithm.
type Algorithm string

const (
	AlgorithmAESGCM   Algorithm = "aes-gcm"
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

// Sealed blob parse errors.
var (
	ErrBlobTooShort = errors.New("aead: sealed blob too short")
	ErrOpenFailed   = errors.New("aead: open failed, wrong key or tampered blob")
)

// Cipher provides authenticated encryption with a fixed blob layout.
type Cipher interface {
	// Algorithm returns the cipher algorithm.
	Algorithm() Algorithm

	// Seal encrypts plaintext with additional data.
	// The returned blob is nonce || tag || ciphertext.
	Seal(plaintext, additionalData []byte) ([]byte, error)

	// Open decrypts a sealed blob with additional data.
	Open(blob, additionalData []byte) ([]byte, error)

	// NonceSize returns the nonce size in bytes.
	NonceSize() int

	// Overhead returns the authentication tag size in bytes.
	Overhead() int
}

// New creates a cipher with the given key, selecting the optimal
// algorithm for the current hardware.
func New(key []byte) (Cipher, error) {
	if hasAESNI() {
		return NewAESGCM(key)
	}
	return NewChaCha20(key)
}

// NewWithAlgorithm creates a cipher of the specified algorithm.
func NewWithAlgorithm(key []byte, algo Algorithm) (Cipher, error) {
	switch algo {
	case AlgorithmAESGCM:
		return NewAESGCM(key)
	case AlgorithmChaCha20:
		return NewChaCha20(key)
	default:
		return nil, errors.New("aead: unknown algorithm: " + string(algo))
	}
}

// hasAESNI checks if AES hardware acceleration is available.
// Go's crypto/aes uses AES-NI on amd64 and the ARM crypto extensions
// on arm64; for other architectures ChaCha20 is faster.
func hasAESNI() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}

// baseCipher provides the shared seal/open implementation.
type baseCipher struct {
	aead cipher.AEAD
}

// NonceSize returns the nonce size in bytes.
func (c *baseCipher) NonceSize() int {
	return c.aead.NonceSize()
}

// Overhead returns the authentication tag size in bytes.
func (c *baseCipher) Overhead() int {
	return c.aead.Overhead()
}

// seal encrypts and arranges the output as nonce || tag || ciphertext.
func (c *baseCipher) seal(plaintext, additionalData []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	tagSize := c.aead.Overhead()

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	// Seal appends ciphertext||tag; rearrange into the blob layout.
	sealed := c.aead.Seal(nil, nonce, plaintext, additionalData)
	ctLen := len(sealed) - tagSize

	blob := make([]byte, 0, nonceSize+len(sealed))
	blob = append(blob, nonce...)
	blob = append(blob, sealed[ctLen:]...)
	blob = append(blob, sealed[:ctLen]...)
	return blob, nil
}

// open parses a nonce || tag || ciphertext blob and decrypts it.
func (c *baseCipher) open(blob, additionalData []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	tagSize := c.aead.Overhead()

	if len(blob) < nonceSize+tagSize {
		return nil, ErrBlobTooShort
	}

	nonce := blob[:nonceSize]
	tag := blob[nonceSize : nonceSize+tagSize]
	ciphertext := blob[nonceSize+tagSize:]

	// Reassemble the ciphertext||tag layout Open expects.
	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, nonce, sealed, additionalData)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}
