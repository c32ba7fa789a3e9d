package aead

import (
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// ChaCha20 is the ChaCha20-Poly1305 cipher. It is the default for
// vaults on hardware without AES instructions.
type ChaCha20 struct {
	baseCipher
}

// NewChaCha20 creates a ChaCha20-Poly1305 cipher from a 32-byte key.
func NewChaCha20(key []byte) (*ChaCha20, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.New("aead: invalid key size for ChaCha20-Poly1305: must be 32 bytes")
	}
	a, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return &ChaCha20{baseCipher{aead: a}}, nil
}

// Algorithm returns the cipher algorithm.
func (c *ChaCha20) Algorithm() Algorithm {
	return AlgorithmChaCha20
}

// Seal encrypts plaintext, binding additionalData into the
// authentication tag.
func (c *ChaCha20) Seal(plaintext, additionalData []byte) ([]byte, error) {
	return c.seal(plaintext, additionalData)
}

// Open decrypts a sealed blob. It fails if additionalData does not
// match the value used at Seal time.
func (c *ChaCha20) Open(blob, additionalData []byte) ([]byte, error) {
	return c.open(blob, additionalData)
}
