// Package keyring manages DocVault encryption key material.
package keyring

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/yndnr/docvault-go/internal/core/domain"
	"github.com/yndnr/docvault-go/pkg/crypto/aead"
)

// MetadataID is the sentinel document id used to derive the key for
// encrypted metadata fields.
const MetadataID = "__metadata__"

const (
	docKeyInfo   = "docvault/doc"
	docKeyLength = 32
	docSaltBytes = 16
)

// SealDocument encrypts document content under the per-document key.
// The document id is bound as additional data, so a blob moved to a
// different id fails to open.
func (k *Keyring) SealDocument(docID string, plaintext []byte) ([]byte, error) {
	c, err := k.documentCipher(docID)
	if err != nil {
		return nil, err
	}

	blob, err := c.Seal(plaintext, []byte(docID))
	if err != nil {
		return nil, domain.ErrInternal.WithCause(err)
	}
	return blob, nil
}

// OpenDocument decrypts document content sealed with SealDocument.
func (k *Keyring) OpenDocument(docID string, blob []byte) ([]byte, error) {
	c, err := k.documentCipher(docID)
	if err != nil {
		return nil, err
	}

	plaintext, err := c.Open(blob, []byte(docID))
	if err != nil {
		return nil, domain.ErrDecryptFailed.WithCause(err)
	}
	return plaintext, nil
}

// SealMetadata encrypts a serialized metadata blob and returns it
// Base64 encoded for storage in a text column.
func (k *Keyring) SealMetadata(docID string, plaintext []byte) (string, error) {
	blob, err := k.sealWithID(MetadataID, docID, plaintext)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

// OpenMetadata reverses SealMetadata.
func (k *Keyring) OpenMetadata(docID string, encoded string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, domain.ErrDecryptFailed.WithDetails("metadata blob is not valid base64")
	}
	return k.openWithID(MetadataID, docID, blob)
}

// sealWithID seals plaintext under the key for keyID, binding aadID.
func (k *Keyring) sealWithID(keyID, aadID string, plaintext []byte) ([]byte, error) {
	c, err := k.documentCipher(keyID)
	if err != nil {
		return nil, err
	}
	blob, err := c.Seal(plaintext, []byte(aadID))
	if err != nil {
		return nil, domain.ErrInternal.WithCause(err)
	}
	return blob, nil
}

// openWithID reverses sealWithID.
func (k *Keyring) openWithID(keyID, aadID string, blob []byte) ([]byte, error) {
	c, err := k.documentCipher(keyID)
	if err != nil {
		return nil, err
	}
	plaintext, err := c.Open(blob, []byte(aadID))
	if err != nil {
		return nil, domain.ErrDecryptFailed.WithCause(err)
	}
	return plaintext, nil
}

// documentCipher derives the per-document key and builds a cipher.
// Keys are derived fresh on every call and wiped before returning.
func (k *Keyring) documentCipher(docID string) (aead.Cipher, error) {
	key, err := k.DeriveDocumentKey(docID)
	if err != nil {
		return nil, err
	}
	defer zero(key)

	c, err := aead.NewWithAlgorithm(key, k.Algorithm())
	if err != nil {
		return nil, domain.ErrInternal.WithCause(err)
	}
	return c, nil
}

// DeriveDocumentKey derives the 32-byte per-document key with HKDF.
// The salt is deterministic per document, so derivation is stable
// across restarts without storing per-document state.
func (k *Keyring) DeriveDocumentKey(docID string) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.closed || len(k.masterKey) == 0 {
		return nil, domain.ErrKeyMaterialMissing
	}

	saltSum := sha256.Sum256([]byte("doc_" + docID))
	reader := hkdf.New(sha256.New, k.masterKey, saltSum[:docSaltBytes], []byte(docKeyInfo))

	key := make([]byte, docKeyLength)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("keyring: derive document key: %w", err)
	}
	return key, nil
}
