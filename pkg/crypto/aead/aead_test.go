package aead

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	return key
}

func TestNew_SelectsHardwareCipher(t *testing.T) {
	c, err := New(testKey(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if hasAESNI() && c.Algorithm() != AlgorithmAESGCM {
		t.Fatalf("Algorithm = %v, want %v on accelerated hardware", c.Algorithm(), AlgorithmAESGCM)
	}
}

func TestNewWithAlgorithm(t *testing.T) {
	tests := []struct {
		algo    Algorithm
		wantErr bool
	}{
		{AlgorithmAESGCM, false},
		{AlgorithmChaCha20, false},
		{Algorithm("des"), true},
	}

	for _, tt := range tests {
		c, err := NewWithAlgorithm(testKey(t), tt.algo)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewWithAlgorithm(%q): want error", tt.algo)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewWithAlgorithm(%q): %v", tt.algo, err)
			continue
		}
		if c.Algorithm() != tt.algo {
			t.Errorf("Algorithm = %v, want %v", c.Algorithm(), tt.algo)
		}
	}
}

func TestCipher_RoundTrip(t *testing.T) {
	for _, algo := range []Algorithm{AlgorithmAESGCM, AlgorithmChaCha20} {
		t.Run(string(algo), func(t *testing.T) {
			c, err := NewWithAlgorithm(testKey(t), algo)
			if err != nil {
				t.Fatalf("NewWithAlgorithm: %v", err)
			}

			plaintext := []byte("confidential document body")
			aad := []byte("doc-01hxyz")

			blob, err := c.Seal(plaintext, aad)
			if err != nil {
				t.Fatalf("Seal: %v", err)
			}
			if len(blob) != c.NonceSize()+c.Overhead()+len(plaintext) {
				t.Fatalf("blob length = %d, want %d", len(blob), c.NonceSize()+c.Overhead()+len(plaintext))
			}

			got, err := c.Open(blob, aad)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if !bytes.Equal(got, plaintext) {
				t.Fatalf("Open = %q, want %q", got, plaintext)
			}
		})
	}
}

func TestCipher_SealIsRandomized(t *testing.T) {
	c, err := New(testKey(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	plaintext := []byte("same plaintext")
	a, _ := c.Seal(plaintext, nil)
	b, _ := c.Seal(plaintext, nil)
	if bytes.Equal(a, b) {
		t.Fatal("two Seal calls produced identical blobs")
	}
}

func TestCipher_OpenRejectsTampering(t *testing.T) {
	c, err := New(testKey(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	blob, err := c.Seal([]byte("payload"), []byte("aad"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		aad    []byte
	}{
		{"flipped nonce bit", func(b []byte) []byte { b[0] ^= 0x01; return b }, []byte("aad")},
		{"flipped tag bit", func(b []byte) []byte { b[c.NonceSize()] ^= 0x01; return b }, []byte("aad")},
		{"flipped ciphertext bit", func(b []byte) []byte { b[len(b)-1] ^= 0x01; return b }, []byte("aad")},
		{"wrong aad", func(b []byte) []byte { return b }, []byte("other")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := tt.mutate(bytes.Clone(blob))
			if _, err := c.Open(tampered, tt.aad); err == nil {
				t.Fatal("Open accepted tampered blob")
			}
		})
	}
}

func TestCipher_OpenRejectsWrongKey(t *testing.T) {
	c1, _ := New(testKey(t))
	c2, _ := New(testKey(t))

	blob, err := c1.Seal([]byte("payload"), nil)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := c2.Open(blob, nil); err == nil {
		t.Fatal("Open with wrong key succeeded")
	}
}

func TestCipher_OpenRejectsShortBlob(t *testing.T) {
	c, _ := New(testKey(t))
	if _, err := c.Open([]byte("short"), nil); err != ErrBlobTooShort {
		t.Fatalf("Open(short) = %v, want ErrBlobTooShort", err)
	}
}

func TestNewCipher_RejectsBadKeySize(t *testing.T) {
	for _, algo := range []Algorithm{AlgorithmAESGCM, AlgorithmChaCha20} {
		if _, err := NewWithAlgorithm(make([]byte, 16), algo); err == nil {
			t.Errorf("%v: accepted 16-byte key", algo)
		}
	}
}

func TestCipher_EmptyPlaintext(t *testing.T) {
	c, _ := New(testKey(t))
	blob, err := c.Seal(nil, nil)
	if err != nil {
		t.Fatalf("Seal(nil): %v", err)
	}
	got, err := c.Open(blob, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Open = %q, want empty", got)
	}
}
