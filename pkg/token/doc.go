// Package token generates and verifies DocVault access tokens.
//
// A token is the literal prefix "dvtk_" followed by 43 characters of
// base64 raw-URL random data, 48 characters total. Token bytes come
// from crypto/rand. Storage only ever sees the SHA-256 digest of a
// token, and digest comparison is constant time.
package token
