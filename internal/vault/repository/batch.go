// Package repository provides SQLite-backed document persistence.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yndnr/docvault-go/internal/core/domain"
)

// BatchCreate inserts all documents in a single transaction. Any
// failure rolls the whole batch back and reports the offending
// document.
func (r *Repository) BatchCreate(ctx context.Context, docs []*domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	// Validate everything before touching the database
	seen := make(map[string]bool, len(docs))
	for i, doc := range docs {
		if err := doc.Validate(); err != nil {
			return domain.ErrBatchAborted.WithDetails(
				fmt.Sprintf("document %d (%s): %v", i, doc.ID, err)).WithCause(err)
		}
		if seen[doc.ID] {
			return domain.ErrBatchAborted.WithDetails(
				fmt.Sprintf("duplicate id in batch: %s", doc.ID))
		}
		seen[doc.ID] = true
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	defer tx.Rollback()

	for i, doc := range docs {
		var deleted int
		var createdAt int64
		err := tx.QueryRowContext(ctx,
			`SELECT deleted, created_at FROM documents WHERE id = ?`, doc.ID).
			Scan(&deleted, &createdAt)
		switch {
		case err == nil && deleted == 0:
			return domain.ErrBatchAborted.WithDetails(
				fmt.Sprintf("document %d (%s): already exists", i, doc.ID))
		case err == nil:
			doc.CreatedAt = createdAt
			doc.Revive()
			err = r.replace(ctx, tx, doc)
		case errors.Is(err, sql.ErrNoRows):
			err = r.insert(ctx, tx, doc)
		default:
			return domain.ErrStorage.WithCause(err)
		}
		if err != nil {
			return domain.ErrBatchAborted.WithDetails(
				fmt.Sprintf("document %d (%s)", i, doc.ID)).WithCause(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}

// BatchGet loads multiple documents by id. Missing ids are skipped;
// the result preserves the request order of the found documents.
func (r *Repository) BatchGet(ctx context.Context, ids []string) ([]*domain.Document, error) {
	docs := make([]*domain.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := r.Get(ctx, id)
		if errors.Is(err, domain.ErrDocumentNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
