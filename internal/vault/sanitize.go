// Package vault implements the DocVault storage manager.
package vault

import (
	"strings"

	"github.com/yndnr/docvault-go/internal/core/domain"
)

// MaxContentBytes caps document content accepted on writes.
const MaxContentBytes = 10 << 20

// injectionMarkers are SQL/script fragments that have no business in a
// title, metadata entry or search query. Matching is case-insensitive.
var injectionMarkers = []string{
	"drop table",
	"delete from",
	"insert into",
	"union select",
	"' or '",
	"\" or \"",
	"1=1--",
	";--",
	"exec(",
	"<script",
	"javascript:",
}

// traversalMarkers flag path traversal attempts in identifiers.
var traversalMarkers = []string{
	"../",
	"..\\",
	"%2e%2e",
}

// threat describes a rejected input.
type threat struct {
	action domain.Action
	field  string
	marker string
}

// detect scans one user-supplied string for attack signatures.
func detect(field, s string) *threat {
	lower := strings.ToLower(s)

	for _, m := range traversalMarkers {
		if strings.Contains(lower, m) {
			return &threat{action: domain.ActionTraversalAlert, field: field, marker: m}
		}
	}
	for _, m := range injectionMarkers {
		if strings.Contains(lower, m) {
			return &threat{action: domain.ActionInjectionAlert, field: field, marker: m}
		}
	}
	return nil
}

// inspectDocument checks the writable fields of a document. Content is
// excluded: it is opaque data bound via parameters, never interpolated.
func inspectDocument(doc *domain.Document) *threat {
	if t := detect("id", doc.ID); t != nil {
		return t
	}
	if t := detect("title", doc.Title); t != nil {
		return t
	}
	if t := detect("content_type", doc.ContentType); t != nil {
		return t
	}
	for k, v := range doc.Metadata {
		if t := detect("metadata."+k, k); t != nil {
			return t
		}
		if t := detect("metadata."+k, v); t != nil {
			return t
		}
	}
	return nil
}

// inspectID checks a caller-supplied document id.
func inspectID(id string) *threat {
	return detect("id", id)
}

// inspectQuery checks a search query.
func inspectQuery(q string) *threat {
	return detect("query", q)
}
