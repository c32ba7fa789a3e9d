// Package domain defines the core domain models for DocVault.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "DV-DOC-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Encryption Errors (CRYP)
// ============================================================================

var (
	// ErrKeyMaterialMissing indicates the master key could not be loaded.
	ErrKeyMaterialMissing = NewDomainError("DV-CRYP-5001", "key material missing")

	// ErrDecryptFailed indicates authenticated decryption failed
	// (wrong key or tampered ciphertext).
	ErrDecryptFailed = NewDomainError("DV-CRYP-4001", "decryption failed")

	// ErrIntegrityViolation indicates a stored document failed its
	// checksum verification on read.
	ErrIntegrityViolation = NewDomainError("DV-CRYP-4002", "integrity violation detected")

	// ErrKeyUnwrapFailed indicates the wrapped master key could not be
	// unwrapped (wrong secret or corrupted key file).
	ErrKeyUnwrapFailed = NewDomainError("DV-CRYP-4003", "master key unwrap failed")
)

// ============================================================================
// Authentication / Authorization Errors (AUTH)
// ============================================================================

var (
	// ErrTokenMalformed indicates the token format is invalid.
	ErrTokenMalformed = NewDomainError("DV-AUTH-4000", "malformed token")

	// ErrTokenInvalid indicates the token is unknown.
	ErrTokenInvalid = NewDomainError("DV-AUTH-4010", "invalid token")

	// ErrTokenExpired indicates the token has passed its 24h validity window.
	ErrTokenExpired = NewDomainError("DV-AUTH-4011", "token expired")

	// ErrTokenRevoked indicates the token has been revoked.
	ErrTokenRevoked = NewDomainError("DV-AUTH-4012", "token revoked")

	// ErrAuthRequired indicates no security context was supplied.
	ErrAuthRequired = NewDomainError("DV-AUTH-4013", "authentication required")

	// ErrPermissionDenied indicates the role lacks the required permission.
	ErrPermissionDenied = NewDomainError("DV-AUTH-4030", "permission denied")

	// ErrIssueThrottled indicates token issuance was throttled for the user.
	ErrIssueThrottled = NewDomainError("DV-AUTH-4290", "token issuance throttled")
)

// ============================================================================
// Rate Limiting Errors (RATE)
// ============================================================================

var (
	// ErrRateLimited indicates the sliding-window request limit was hit.
	// Details carry the retry-after hint.
	ErrRateLimited = NewDomainError("DV-RATE-4290", "rate limit exceeded")
)

// ============================================================================
// Document Errors (DOC)
// ============================================================================

var (
	// ErrDocumentNotFound indicates the requested document does not exist
	// (or is soft-deleted).
	ErrDocumentNotFound = NewDomainError("DV-DOC-4040", "document not found")

	// ErrDocumentConflict indicates a live document with the same id exists.
	ErrDocumentConflict = NewDomainError("DV-DOC-4090", "document id conflict")

	// ErrDocumentValidation indicates document field validation failed.
	ErrDocumentValidation = NewDomainError("DV-DOC-4001", "document validation failed")

	// ErrBatchAborted indicates a batch operation was rolled back;
	// no document from the batch was persisted.
	ErrBatchAborted = NewDomainError("DV-DOC-4002", "batch aborted, no documents persisted")
)

// ============================================================================
// System Errors (SYS / ARG)
// ============================================================================

var (
	// ErrInternal indicates an unexpected internal error.
	ErrInternal = NewDomainError("DV-SYS-5000", "internal error")

	// ErrStorage wraps unexpected backing-store failures.
	ErrStorage = NewDomainError("DV-SYS-5001", "storage error")

	// ErrClosed indicates the vault has been closed.
	ErrClosed = NewDomainError("DV-SYS-5002", "vault closed")

	// ErrFeatureDisabled indicates the operation requires a feature
	// the current mode does not enable.
	ErrFeatureDisabled = NewDomainError("DV-SYS-4030", "feature disabled in current mode")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("DV-ARG-1001", "invalid argument")
)
