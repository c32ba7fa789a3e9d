// Package domain defines the core domain models for DocVault.
package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

// DocumentIDPrefix is the prefix for generated document IDs.
const DocumentIDPrefix = "doc-"

// Document field constraints.
const (
	MaxTitleLength       = 512
	MaxContentTypeLength = 128
	MaxMetadataEntries   = 64
	MaxMetadataValueLen  = 4096
)

// DefaultContentType is assumed when a document declares none.
const DefaultContentType = "text/plain"

// Status describes the lifecycle state of a document.
type Status string

const (
	// StatusDraft indicates the document is not yet published.
	StatusDraft Status = "draft"

	// StatusActive indicates the document is live.
	StatusActive Status = "active"

	// StatusArchived indicates the document is retained but inactive.
	StatusArchived Status = "archived"
)

// ValidStatuses returns all valid document statuses.
func ValidStatuses() []Status {
	return []Status{StatusDraft, StatusActive, StatusArchived}
}

// IsValidStatus checks if a string is a valid document status.
func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusDraft, StatusActive, StatusArchived:
		return true
	}
	return false
}

// Document is the unit of storage in the vault.
//
// Content and Metadata are plaintext in memory; the repository encrypts
// them at rest when encryption is enabled. Timestamps are Unix milliseconds.
type Document struct {
	// ID is the stable external key, unique among live documents.
	ID string `json:"id"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Content is the document body (plaintext in memory).
	Content []byte `json:"content"`

	// ContentType is the MIME type of Content.
	ContentType string `json:"content_type"`

	// Status is the lifecycle state.
	Status Status `json:"status"`

	// Metadata holds tags, category, author and custom fields.
	Metadata map[string]string `json:"metadata,omitempty"`

	// Checksum is the SHA-256 hex digest of Content.
	Checksum string `json:"checksum"`

	// CreatedAt is the creation timestamp (Unix MS).
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the last-modification timestamp (Unix MS).
	// Never decreases across updates.
	UpdatedAt int64 `json:"updated_at"`

	// IsDeleted marks a soft-deleted row.
	IsDeleted bool `json:"is_deleted,omitempty"`

	// DeletedAt is the soft-delete timestamp (Unix MS), 0 if live.
	DeletedAt int64 `json:"deleted_at,omitempty"`
}

// NewDocument creates a document with the given id, title and content.
// An empty id gets a generated ULID-based id.
func NewDocument(id, title string, content []byte) *Document {
	if id == "" {
		id = GenerateDocumentID()
	}

	now := currentTimeMillis()
	doc := &Document{
		ID:          id,
		Title:       title,
		Content:     content,
		ContentType: DefaultContentType,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	doc.RefreshChecksum()
	return doc
}

// GenerateDocumentID generates a new document id.
// Format: doc-{ulid_lowercase}.
func GenerateDocumentID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(timeNow()), entropy)
	return DocumentIDPrefix + strings.ToLower(id.String())
}

// ComputeChecksum returns the SHA-256 hex digest of the content.
func ComputeChecksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// RefreshChecksum recomputes the checksum from the current content.
func (d *Document) RefreshChecksum() {
	d.Checksum = ComputeChecksum(d.Content)
}

// VerifyChecksum reports whether the stored checksum matches the content.
func (d *Document) VerifyChecksum() bool {
	return d.Checksum == ComputeChecksum(d.Content)
}

// Touch advances UpdatedAt, keeping it strictly monotonic even when the
// wall clock has not moved between two updates.
func (d *Document) Touch() {
	now := currentTimeMillis()
	if now <= d.UpdatedAt {
		now = d.UpdatedAt + 1
	}
	d.UpdatedAt = now
}

// MarkDeleted soft-deletes the document.
func (d *Document) MarkDeleted() {
	d.IsDeleted = true
	d.DeletedAt = currentTimeMillis()
	d.Touch()
}

// Revive clears the soft-delete flag, keeping the original CreatedAt.
func (d *Document) Revive() {
	d.IsDeleted = false
	d.DeletedAt = 0
	d.Touch()
}

// CreatedAtTime returns CreatedAt as time.Time.
func (d *Document) CreatedAtTime() time.Time {
	return time.UnixMilli(d.CreatedAt)
}

// UpdatedAtTime returns UpdatedAt as time.Time.
func (d *Document) UpdatedAtTime() time.Time {
	return time.UnixMilli(d.UpdatedAt)
}

// Validate validates the document fields.
func (d *Document) Validate() error {
	var violations []string

	if d.ID == "" {
		violations = append(violations, "id is required")
	}

	if !utf8.ValidString(d.Title) {
		violations = append(violations, "title is not valid UTF-8")
	}
	if len(d.Title) > MaxTitleLength {
		violations = append(violations, "title exceeds 512 bytes")
	}

	if len(d.ContentType) > MaxContentTypeLength {
		violations = append(violations, "content_type exceeds 128 bytes")
	}

	if d.Status != "" && !IsValidStatus(string(d.Status)) {
		violations = append(violations, "invalid status")
	}

	if len(d.Metadata) > MaxMetadataEntries {
		violations = append(violations, "metadata exceeds 64 entries")
	}
	for k, v := range d.Metadata {
		if k == "" {
			violations = append(violations, "metadata key must not be empty")
			break
		}
		if len(v) > MaxMetadataValueLen {
			violations = append(violations, "metadata value exceeds 4096 bytes")
			break
		}
	}

	if len(violations) > 0 {
		return ErrDocumentValidation.WithDetails(strings.Join(violations, "; "))
	}

	return nil
}

// Clone creates a deep copy of the document.
func (d *Document) Clone() *Document {
	clone := *d
	if d.Content != nil {
		clone.Content = make([]byte, len(d.Content))
		copy(clone.Content, d.Content)
	}
	if d.Metadata != nil {
		clone.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}

// currentTimeMillis returns the current Unix timestamp in milliseconds.
// This is a package-level function to enable testing with mock time.
var currentTimeMillis = func() int64 {
	return timeNow().UnixMilli()
}

// timeNow is a hook for testing.
var timeNow = time.Now
