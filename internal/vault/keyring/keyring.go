// Package keyring manages DocVault encryption key material.
package keyring

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/yndnr/docvault-go/internal/core/domain"
	"github.com/yndnr/docvault-go/pkg/crypto/aead"
)

const (
	// MasterKeyLength is the master key length in bytes.
	MasterKeyLength = 32

	// SaltLength is the wrapping key salt length in bytes.
	SaltLength = 16

	// KeyFileName is the default key file name inside the data directory.
	KeyFileName = "master.key"

	keyFileVersion = 1
	keyFileMode    = os.FileMode(0o600)

	// Argon2id parameters for the wrapping key.
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
)

// Keyring errors.
var (
	ErrKeyFileCorrupt = errors.New("keyring: key file corrupt or truncated")
	ErrSecretTooShort = errors.New("keyring: operator secret too short (minimum 8 bytes)")
)

// MinSecretLength is the minimum operator secret length.
const MinSecretLength = 8

// timeNow is overridable in tests.
var timeNow = time.Now

// keyFile is the on-disk representation of the wrapped master key.
type keyFile struct {
	Version    int    `json:"version"`
	Algorithm  string `json:"algorithm"`
	Salt       string `json:"salt"`
	WrappedKey string `json:"wrapped_key"`
	KeyCheck   string `json:"key_check"`
	CreatedAt  string `json:"created_at"`
}

// Keyring holds the unwrapped master key and the cipher algorithm
// used for document encryption.
type Keyring struct {
	mu        sync.RWMutex
	masterKey []byte
	algorithm aead.Algorithm
	path      string
	closed    bool
}

// Options configures Open.
type Options struct {
	// Path is the key file location. Required.
	Path string

	// Secret is the operator secret protecting the key file.
	// When empty, a machine-bound secret is used.
	Secret []byte

	// Algorithm selects the document cipher. When empty, the optimal
	// algorithm for the current hardware is chosen at creation time
	// and recorded in the key file.
	Algorithm aead.Algorithm
}

// Open loads the key file at opts.Path, creating it with a fresh
// master key on first use.
func Open(opts Options) (*Keyring, error) {
	if opts.Path == "" {
		return nil, domain.ErrInvalidArgument.WithDetails("key file path is empty")
	}
	if len(opts.Secret) > 0 && len(opts.Secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}

	secret := opts.Secret
	if len(secret) == 0 {
		secret = machineSecret()
	}

	if _, err := os.Stat(opts.Path); errors.Is(err, os.ErrNotExist) {
		return create(opts.Path, secret, opts.Algorithm)
	}
	return load(opts.Path, secret)
}

// create generates a master key, wraps it, and writes the key file.
func create(path string, secret []byte, algo aead.Algorithm) (*Keyring, error) {
	master := make([]byte, MasterKeyLength)
	if _, err := rand.Read(master); err != nil {
		return nil, fmt.Errorf("keyring: generate master key: %w", err)
	}

	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("keyring: generate salt: %w", err)
	}

	if algo == "" {
		c, err := aead.New(master)
		if err != nil {
			return nil, err
		}
		algo = c.Algorithm()
	}

	wrapped, err := wrapKey(master, secret, salt)
	if err != nil {
		return nil, err
	}

	kf := keyFile{
		Version:    keyFileVersion,
		Algorithm:  string(algo),
		Salt:       hex.EncodeToString(salt),
		WrappedKey: hex.EncodeToString(wrapped),
		KeyCheck:   keyCheck(master),
		CreatedAt:  timeNow().UTC().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("keyring: encode key file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("keyring: create key directory: %w", err)
	}
	if err := os.WriteFile(path, data, keyFileMode); err != nil {
		return nil, fmt.Errorf("keyring: write key file: %w", err)
	}

	return &Keyring{masterKey: master, algorithm: algo, path: path}, nil
}

// load reads and unwraps an existing key file.
func load(path string, secret []byte) (*Keyring, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keyring: read key file: %w", err)
	}

	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, ErrKeyFileCorrupt
	}
	if kf.Version != keyFileVersion || kf.Salt == "" || kf.WrappedKey == "" {
		return nil, ErrKeyFileCorrupt
	}

	salt, err := hex.DecodeString(kf.Salt)
	if err != nil || len(salt) != SaltLength {
		return nil, ErrKeyFileCorrupt
	}
	wrapped, err := hex.DecodeString(kf.WrappedKey)
	if err != nil {
		return nil, ErrKeyFileCorrupt
	}

	master, err := unwrapKey(wrapped, secret, salt)
	if err != nil {
		return nil, domain.ErrKeyUnwrapFailed.WithCause(err)
	}

	if kf.KeyCheck != "" && subtle.ConstantTimeCompare([]byte(kf.KeyCheck), []byte(keyCheck(master))) != 1 {
		return nil, domain.ErrKeyUnwrapFailed.WithDetails("key check mismatch")
	}

	algo := aead.Algorithm(kf.Algorithm)
	if algo == "" {
		algo = aead.AlgorithmAESGCM
	}

	return &Keyring{masterKey: master, algorithm: algo, path: path}, nil
}

// wrapKey encrypts the master key under the Argon2id-derived wrapping key.
func wrapKey(master, secret, salt []byte) ([]byte, error) {
	wk := argon2.IDKey(secret, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	defer zero(wk)

	c, err := aead.NewAESGCM(wk)
	if err != nil {
		return nil, err
	}
	return c.Seal(master, []byte("docvault/master"))
}

// unwrapKey reverses wrapKey.
func unwrapKey(wrapped, secret, salt []byte) ([]byte, error) {
	wk := argon2.IDKey(secret, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	defer zero(wk)

	c, err := aead.NewAESGCM(wk)
	if err != nil {
		return nil, err
	}
	return c.Open(wrapped, []byte("docvault/master"))
}

// keyCheck returns a fingerprint used to detect unwrap corruption.
func keyCheck(master []byte) string {
	h := sha256.Sum256(append([]byte("docvault/check:"), master...))
	return hex.EncodeToString(h[:8])
}

// machineSecret derives a host-bound fallback secret.
func machineSecret() []byte {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return fmt.Appendf(nil, "docvault:%s:%d", host, os.Getuid())
}

// Algorithm returns the document cipher algorithm.
func (k *Keyring) Algorithm() aead.Algorithm {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.algorithm
}

// Path returns the key file location.
func (k *Keyring) Path() string {
	return k.path
}

// Close zeroes the master key. The keyring is unusable afterwards.
func (k *Keyring) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil
	}
	zero(k.masterKey)
	k.masterKey = nil
	k.closed = true
	return nil
}

// zero wipes key material.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
