// Package token provides access token generation and validation utilities.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

const (
	// Prefix marks all DocVault access tokens.
	Prefix = "dvtk_"

	// DefaultLength is the default token entropy in bytes.
	DefaultLength = 32

	// EncodedLength is the length of a complete prefixed token.
	// 32 random bytes encode to 43 Base64 RawURL characters.
	EncodedLength = len(Prefix) + 43
)

// Generate generates a prefixed access token.
func Generate() (string, error) {
	body, err := GenerateWithLength(DefaultLength)
	if err != nil {
		return "", err
	}
	return Prefix + body, nil
}

// GenerateWithLength generates an unprefixed token body with the
// specified byte length of entropy, Base64 RawURL encoded.
func GenerateWithLength(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// GenerateBytes generates random bytes.
func GenerateBytes(length int) ([]byte, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}
	return bytes, nil
}

// WellFormed reports whether a string has the shape of an access token.
// It checks prefix, length and alphabet only; it does not authenticate.
func WellFormed(tok string) bool {
	if len(tok) != EncodedLength || !strings.HasPrefix(tok, Prefix) {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(tok[len(Prefix):])
	return err == nil
}
