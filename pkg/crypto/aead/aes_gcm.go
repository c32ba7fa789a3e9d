package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// AESGCM is the AES-256-GCM cipher.
type AESGCM struct {
	baseCipher
}

// NewAESGCM creates an AES-256-GCM cipher from a 32-byte key.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != 32 {
		return nil, errors.New("aead: invalid key size for AES-256-GCM: must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	a, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCM{baseCipher{aead: a}}, nil
}

// Algorithm returns the cipher algorithm.
func (c *AESGCM) Algorithm() Algorithm {
	return AlgorithmAESGCM
}

// Seal encrypts plaintext, binding additionalData into the
// authentication tag.
func (c *AESGCM) Seal(plaintext, additionalData []byte) ([]byte, error) {
	return c.seal(plaintext, additionalData)
}

// Open decrypts a sealed blob. It fails if additionalData does not
// match the value used at Seal time.
func (c *AESGCM) Open(blob, additionalData []byte) ([]byte, error) {
	return c.open(blob, additionalData)
}
