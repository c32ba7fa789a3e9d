// Package domain defines the core domain models for DocVault.
package domain

import (
	"crypto/rand"
	"strings"

	"github.com/oklog/ulid/v2"
)

// AuditEventIDPrefix is the prefix for audit event IDs.
const AuditEventIDPrefix = "evt-"

// Action identifies the audited operation.
type Action string

const (
	// Document lifecycle actions.
	ActionDocumentCreated  Action = "document_created"
	ActionDocumentRead     Action = "document_read"
	ActionDocumentUpdated  Action = "document_updated"
	ActionDocumentDeleted  Action = "document_deleted"
	ActionDocumentListed   Action = "document_listed"
	ActionDocumentSearched Action = "document_searched"
	ActionBatchCreated     Action = "batch_created"
	ActionBatchRead        Action = "batch_read"

	// Security actions.
	ActionTokenIssued    Action = "token_issued"
	ActionTokenRevoked   Action = "token_revoked"
	ActionAuthFailure    Action = "authentication_failure"
	ActionAuthzFailure   Action = "authorization_failure"
	ActionRateLimited    Action = "rate_limit_exceeded"
	ActionIntegrityAlert Action = "integrity_violation"
	ActionInjectionAlert Action = "injection_attempt"
	ActionTraversalAlert Action = "path_traversal_attempt"
	ActionPIIMasked      Action = "pii_masked"
)

// Severity classifies the weight of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// AuditEvent is one immutable entry in the security audit trail.
//
// Details must never contain secret material: no plaintext content,
// tokens, or key bytes.
type AuditEvent struct {
	// ID is the unique event id. Format: evt-{ulid_lowercase}.
	ID string `json:"id"`

	// Timestamp is the event time (Unix MS).
	Timestamp int64 `json:"timestamp"`

	// Action identifies the audited operation.
	Action Action `json:"action"`

	// Severity classifies the event.
	Severity Severity `json:"severity"`

	// Message is a short human-readable summary.
	Message string `json:"message"`

	// User is the acting user id, or "anonymous".
	User string `json:"user"`

	// Role is the acting role, empty when unauthenticated.
	Role Role `json:"role,omitempty"`

	// Details carries structured context (document ids, counts, reasons).
	Details map[string]string `json:"details,omitempty"`
}

// NewAuditEvent creates an audit event stamped with the current time.
func NewAuditEvent(action Action, severity Severity, message string) *AuditEvent {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(timeNow()), entropy)

	return &AuditEvent{
		ID:        AuditEventIDPrefix + strings.ToLower(id.String()),
		Timestamp: currentTimeMillis(),
		Action:    action,
		Severity:  severity,
		Message:   message,
		User:      "anonymous",
	}
}

// WithUser sets the acting user and role.
func (e *AuditEvent) WithUser(userID string, role Role) *AuditEvent {
	if userID != "" {
		e.User = userID
	}
	e.Role = role
	return e
}

// WithDetail adds one structured detail entry.
func (e *AuditEvent) WithDetail(key, value string) *AuditEvent {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// IsAuthFailure reports whether the event is an authentication or
// authorization failure, the signals tracked by the anomaly check.
func (e *AuditEvent) IsAuthFailure() bool {
	return e.Action == ActionAuthFailure || e.Action == ActionAuthzFailure
}

// IsInjectionAlert reports whether the event records an injection or
// path-traversal attempt.
func (e *AuditEvent) IsInjectionAlert() bool {
	return e.Action == ActionInjectionAlert || e.Action == ActionTraversalAlert
}

// Clone creates a deep copy of the event.
func (e *AuditEvent) Clone() *AuditEvent {
	clone := *e
	if e.Details != nil {
		clone.Details = make(map[string]string, len(e.Details))
		for k, v := range e.Details {
			clone.Details[k] = v
		}
	}
	return &clone
}
