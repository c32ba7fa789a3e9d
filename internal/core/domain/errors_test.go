package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_ErrorFormat(t *testing.T) {
	err := NewDomainError("DV-DOC-4040", "document not found")
	if got := err.Error(); got != "[DV-DOC-4040] document not found" {
		t.Fatalf("Error() = %q", got)
	}

	withDetails := err.WithDetails("id doc-1")
	if got := withDetails.Error(); got != "[DV-DOC-4040] document not found: id doc-1" {
		t.Fatalf("Error() with details = %q", got)
	}
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := ErrDocumentNotFound.WithDetails("id doc-1")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatal("errors.Is failed for same code with details")
	}
	if errors.Is(err, ErrDocumentConflict) {
		t.Fatal("errors.Is matched a different code")
	}
}

func TestDomainError_UnwrapChain(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := ErrStorage.WithCause(cause)

	if !errors.Is(err, ErrStorage) {
		t.Fatal("wrapped error lost its code identity")
	}
	if errors.Unwrap(err) != cause {
		t.Fatal("Unwrap did not return the cause")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(ErrRateLimited); got != "DV-RATE-4290" {
		t.Fatalf("GetErrorCode = %q", got)
	}
	if got := GetErrorCode(fmt.Errorf("plain")); got != "" {
		t.Fatalf("GetErrorCode(plain) = %q, want empty", got)
	}
	if !IsDomainError(ErrRateLimited, "") {
		t.Fatal("IsDomainError with empty code = false")
	}
}
