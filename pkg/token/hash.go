package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hash returns the hex-encoded SHA-256 digest of a token. Only the
// digest is persisted; plaintext tokens never touch storage.
func Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// HashBytes returns the hex-encoded SHA-256 digest of raw bytes.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Verify compares a token against a stored digest in constant time.
func Verify(token, expectedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(Hash(token)), []byte(expectedHash)) == 1
}

// VerifyBytes compares raw bytes against a stored digest in constant time.
func VerifyBytes(data []byte, expectedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashBytes(data)), []byte(expectedHash)) == 1
}
