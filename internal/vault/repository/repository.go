// Package repository provides SQLite-backed document persistence.
package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/yndnr/docvault-go/internal/core/domain"
)

// ListOptions filters, pages and sorts List.
type ListOptions struct {
	// Status keeps only documents in the given lifecycle state.
	Status domain.Status

	// ContentType keeps only documents with the given MIME type.
	ContentType string

	// Limit caps the result count. Zero means no limit.
	Limit int

	// Offset skips leading results for pagination.
	Offset int

	// SortBy orders results by created_at, title or updated_at (the
	// default). Anything else is rejected.
	SortBy string

	// Ascending reverses the default newest-first order.
	Ascending bool

	// IncludeDeleted includes soft-deleted documents.
	IncludeDeleted bool
}

// sortColumn maps a SortBy value to its whitelisted column. Only named
// columns reach the SQL text.
func sortColumn(field string) (string, error) {
	switch field {
	case "", "updated_at":
		return "updated_at", nil
	case "created_at":
		return "created_at", nil
	case "title":
		return "title", nil
	}
	return "", domain.ErrInvalidArgument.WithDetails("unsupported sort field " + field)
}

// Create inserts a document. A live document with the same id is a
// conflict; a soft-deleted one is replaced in place, keeping the
// original creation timestamp.
func (r *Repository) Create(ctx context.Context, doc *domain.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	var deleted int
	var createdAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT deleted, created_at FROM documents WHERE id = ?`, doc.ID).
		Scan(&deleted, &createdAt)
	switch {
	case err == nil && deleted == 0:
		return domain.ErrDocumentConflict.WithDetails(doc.ID)
	case err == nil:
		// Revive path: keep the original creation time
		doc.CreatedAt = createdAt
		doc.Revive()
		return r.replace(ctx, r.db, doc)
	case errors.Is(err, sql.ErrNoRows):
		return r.insert(ctx, r.db, doc)
	default:
		return domain.ErrStorage.WithCause(err)
	}
}

// execer covers *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Repository) insert(ctx context.Context, ex execer, doc *domain.Document) error {
	content, metadata, err := r.sealRow(doc)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, content_type, status, metadata,
		                       checksum, created_at, updated_at, deleted, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0)`,
		doc.ID, doc.Title, content, doc.ContentType, string(doc.Status), metadata,
		doc.Checksum, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		// A primary-key violation means a concurrent create won the
		// race between our existence check and this insert.
		var sqlErr sqlite3.Error
		if errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrConstraint {
			return domain.ErrDocumentConflict.WithDetails(doc.ID)
		}
		return domain.ErrStorage.WithCause(err)
	}

	return r.indexRow(ctx, ex, doc)
}

func (r *Repository) replace(ctx context.Context, ex execer, doc *domain.Document) error {
	content, metadata, err := r.sealRow(doc)
	if err != nil {
		return err
	}

	res, err := ex.ExecContext(ctx, `
		UPDATE documents
		SET title = ?, content = ?, content_type = ?, status = ?, metadata = ?,
		    checksum = ?, created_at = ?, updated_at = ?, deleted = ?, deleted_at = ?
		WHERE id = ?`,
		doc.Title, content, doc.ContentType, string(doc.Status), metadata,
		doc.Checksum, doc.CreatedAt, doc.UpdatedAt,
		boolToInt(doc.IsDeleted), doc.DeletedAt, doc.ID)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrDocumentNotFound.WithDetails(doc.ID)
	}

	if err := r.deindexRow(ctx, ex, doc.ID); err != nil {
		return err
	}
	if doc.IsDeleted {
		return nil
	}
	return r.indexRow(ctx, ex, doc)
}

// Get loads a live document by id and verifies its checksum.
func (r *Repository) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, content, content_type, status, metadata,
		       checksum, created_at, updated_at, deleted, deleted_at
		FROM documents WHERE id = ? AND deleted = 0`, id)

	doc, err := r.scanDocument(row)
	if err != nil {
		return nil, err
	}

	if !doc.VerifyChecksum() {
		return nil, domain.ErrIntegrityViolation.WithDetails(id)
	}
	return doc, nil
}

// Update persists changed fields of a live document.
func (r *Repository) Update(ctx context.Context, doc *domain.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	var deleted int
	err := r.db.QueryRowContext(ctx,
		`SELECT deleted FROM documents WHERE id = ?`, doc.ID).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && deleted != 0) {
		return domain.ErrDocumentNotFound.WithDetails(doc.ID)
	}
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}

	doc.Touch()
	doc.RefreshChecksum()
	return r.replace(ctx, r.db, doc)
}

// Delete soft-deletes a live document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	doc, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	doc.MarkDeleted()
	return r.replace(ctx, r.db, doc)
}

// HardDelete removes the row entirely. It works on live and
// soft-deleted documents alike.
func (r *Repository) HardDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrDocumentNotFound.WithDetails(id)
	}
	return r.deindexRow(ctx, r.db, id)
}

// SecureErase overwrites the stored content with random bytes before
// removing the row, so the plaintext-sized blob never lingers in
// freed pages.
func (r *Repository) SecureErase(ctx context.Context, id string) error {
	var size int
	err := r.db.QueryRowContext(ctx,
		`SELECT length(content) FROM documents WHERE id = ?`, id).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrDocumentNotFound.WithDetails(id)
	}
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}

	junk := make([]byte, size)
	if _, err := rand.Read(junk); err != nil {
		return domain.ErrInternal.WithCause(err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE documents SET content = ?, checksum = '' WHERE id = ?`, junk, id); err != nil {
		return domain.ErrStorage.WithCause(err)
	}

	return r.HardDelete(ctx, id)
}

// List returns documents matching the filter. Without sort options
// they come back newest-updated first.
func (r *Repository) List(ctx context.Context, opts ListOptions) ([]*domain.Document, error) {
	col, err := sortColumn(opts.SortBy)
	if err != nil {
		return nil, err
	}
	dir := " DESC"
	if opts.Ascending {
		dir = " ASC"
	}

	query := `
		SELECT id, title, content, content_type, status, metadata,
		       checksum, created_at, updated_at, deleted, deleted_at
		FROM documents WHERE 1=1`
	var args []any

	if !opts.IncludeDeleted {
		query += ` AND deleted = 0`
	}
	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(opts.Status))
	}
	if opts.ContentType != "" {
		query += ` AND content_type = ?`
		args = append(args, opts.ContentType)
	}

	query += ` ORDER BY ` + col + dir
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			query += ` LIMIT -1`
		}
		query += ` OFFSET ?`
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := r.scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	return docs, nil
}

// sealRow prepares content and metadata for storage.
func (r *Repository) sealRow(doc *domain.Document) (content []byte, metadata string, err error) {
	meta := doc.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, "", domain.ErrInternal.WithCause(err)
	}

	if r.keyring == nil {
		return doc.Content, string(metaJSON), nil
	}

	content, err = r.keyring.SealDocument(doc.ID, doc.Content)
	if err != nil {
		return nil, "", err
	}
	metadata, err = r.keyring.SealMetadata(doc.ID, metaJSON)
	if err != nil {
		return nil, "", err
	}
	return content, metadata, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanDocument decodes one row, opening sealed fields when needed.
func (r *Repository) scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var status, metadata string
	var deleted int

	err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.ContentType,
		&status, &metadata, &doc.Checksum, &doc.CreatedAt, &doc.UpdatedAt,
		&deleted, &doc.DeletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	doc.Status = domain.Status(status)
	doc.IsDeleted = deleted != 0

	metaJSON := []byte(metadata)
	if r.keyring != nil {
		doc.Content, err = r.keyring.OpenDocument(doc.ID, doc.Content)
		if err != nil {
			return nil, err
		}
		metaJSON, err = r.keyring.OpenMetadata(doc.ID, metadata)
		if err != nil {
			return nil, err
		}
	}

	var meta map[string]string
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	if len(meta) > 0 {
		doc.Metadata = meta
	}
	return &doc, nil
}

// indexRow adds a live row to the FTS index.
func (r *Repository) indexRow(ctx context.Context, ex execer, doc *domain.Document) error {
	if !r.fts {
		return nil
	}
	_, err := ex.ExecContext(ctx,
		`INSERT INTO documents_fts (doc_id, title, content) VALUES (?, ?, ?)`,
		doc.ID, doc.Title, string(doc.Content))
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}

// deindexRow removes a row from the FTS index.
func (r *Repository) deindexRow(ctx context.Context, ex execer, id string) error {
	if !r.fts {
		return nil
	}
	_, err := ex.ExecContext(ctx, `DELETE FROM documents_fts WHERE doc_id = ?`, id)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
