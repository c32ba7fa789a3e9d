package token

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tok, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !strings.HasPrefix(tok, Prefix) {
		t.Errorf("Generate() = %q, want prefix %q", tok, Prefix)
	}
	if len(tok) != EncodedLength {
		t.Errorf("Generate() length = %d, want %d", len(tok), EncodedLength)
	}

	body, err := base64.RawURLEncoding.DecodeString(tok[len(Prefix):])
	if err != nil {
		t.Fatalf("token body is not raw-URL base64: %v", err)
	}
	if len(body) != DefaultLength {
		t.Errorf("decoded body = %d bytes, want %d", len(body), DefaultLength)
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token after %d generations", i)
		}
		seen[tok] = true
	}
}

func TestGenerateWithLength(t *testing.T) {
	for _, n := range []int{16, 32, 64, 128} {
		tok, err := GenerateWithLength(n)
		if err != nil {
			t.Fatalf("GenerateWithLength(%d) error = %v", n, err)
		}
		body, err := base64.RawURLEncoding.DecodeString(tok)
		if err != nil {
			t.Fatalf("GenerateWithLength(%d) not base64: %v", n, err)
		}
		if len(body) != n {
			t.Errorf("GenerateWithLength(%d) decoded to %d bytes", n, len(body))
		}
	}
}

func TestGenerateBytes(t *testing.T) {
	for _, n := range []int{16, 32, 64} {
		raw, err := GenerateBytes(n)
		if err != nil {
			t.Fatalf("GenerateBytes(%d) error = %v", n, err)
		}
		if len(raw) != n {
			t.Errorf("GenerateBytes(%d) = %d bytes", n, len(raw))
		}
	}
}

func TestWellFormed(t *testing.T) {
	valid, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name string
		tok  string
		want bool
	}{
		{"generated token", valid, true},
		{"empty", "", false},
		{"missing prefix", valid[len(Prefix):] + "xxxxx", false},
		{"too short", Prefix + "abc", false},
		{"too long", valid + "a", false},
		{"bad alphabet", Prefix + strings.Repeat("!", 43), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WellFormed(tt.tok); got != tt.want {
				t.Errorf("WellFormed(%q) = %v, want %v", tt.tok, got, tt.want)
			}
		})
	}
}

func TestHash(t *testing.T) {
	tok := "dvtk_test-token-12345"
	digest := Hash(tok)

	if len(digest) != 64 {
		t.Errorf("Hash() length = %d, want 64 hex chars", len(digest))
	}
	if strings.ToLower(digest) != digest {
		t.Error("Hash() must be lowercase hex")
	}
	if digest != Hash(tok) {
		t.Error("Hash() is not deterministic")
	}
	if Hash("token1") == Hash("token2") {
		t.Error("distinct tokens hashed to the same digest")
	}
}

func TestHashBytes(t *testing.T) {
	data := []byte("test-data-12345")
	if HashBytes(data) != Hash(string(data)) {
		t.Error("HashBytes and Hash disagree on identical input")
	}
}

func TestVerify(t *testing.T) {
	tok := "my-secret-token"
	digest := Hash(tok)

	if !Verify(tok, digest) {
		t.Error("Verify rejected the matching token")
	}
	if Verify("wrong-token", digest) {
		t.Error("Verify accepted a different token")
	}
	if Verify(tok, "wrong-hash") {
		t.Error("Verify accepted a bogus digest")
	}
	if Verify("", digest) {
		t.Error("Verify accepted an empty token")
	}
	if !Verify("", Hash("")) {
		t.Error("Verify rejected empty token against its own digest")
	}
}

func TestVerifyBytes(t *testing.T) {
	data := []byte("my-secret-data")
	digest := HashBytes(data)

	if !VerifyBytes(data, digest) {
		t.Error("VerifyBytes rejected the matching data")
	}
	if VerifyBytes([]byte("wrong-data"), digest) {
		t.Error("VerifyBytes accepted different data")
	}
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Generate()
	}
}

func BenchmarkVerify(b *testing.B) {
	tok := "dvtk_benchmark-token-12345"
	digest := Hash(tok)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Verify(tok, digest)
	}
}
