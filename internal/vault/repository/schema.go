// Package repository provides SQLite-backed document persistence.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yndnr/docvault-go/internal/core/domain"
	"github.com/yndnr/docvault-go/internal/vault/keyring"
)

const (
	// MinOpenConns and MaxOpenConns bound the connection pool.
	MinOpenConns = 2
	MaxOpenConns = 16
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	content      BLOB NOT NULL,
	content_type TEXT NOT NULL,
	status       TEXT NOT NULL,
	metadata     TEXT NOT NULL,
	checksum     TEXT NOT NULL,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL,
	deleted      INTEGER NOT NULL DEFAULT 0,
	deleted_at   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_documents_status  ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_updated ON documents(updated_at);
CREATE INDEX IF NOT EXISTS idx_documents_deleted ON documents(deleted);

CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
	doc_id UNINDEXED,
	title,
	content
);
`

// Repository stores documents in SQLite.
type Repository struct {
	db      *sql.DB
	keyring *keyring.Keyring // nil means plaintext at rest
	fts     bool
}

// Options configures Open.
type Options struct {
	// Path is the database file location. Required.
	Path string

	// Keyring seals content and metadata at rest. When nil, rows are
	// stored in plaintext and the FTS index is maintained.
	Keyring *keyring.Keyring

	// FullTextSearch enables the FTS index. It is forced off when a
	// keyring is set, since indexing would leak plaintext.
	FullTextSearch bool

	// PoolSize caps open connections. Clamped to [MinOpenConns, MaxOpenConns].
	PoolSize int
}

// Open opens or creates the database and applies the schema.
func Open(opts Options) (*Repository, error) {
	if opts.Path == "" {
		return nil, domain.ErrInvalidArgument.WithDetails("database path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
		return nil, fmt.Errorf("repository: create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", opts.Path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("repository: open database: %w", err)
	}

	pool := opts.PoolSize
	if pool < MinOpenConns {
		pool = MinOpenConns
	}
	if pool > MaxOpenConns {
		pool = MaxOpenConns
	}
	db.SetMaxOpenConns(pool)
	db.SetMaxIdleConns(pool)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: apply schema: %w", err)
	}

	return &Repository{
		db:      db,
		keyring: opts.Keyring,
		fts:     opts.FullTextSearch && opts.Keyring == nil,
	}, nil
}

// Encrypted reports whether rows are sealed at rest.
func (r *Repository) Encrypted() bool {
	return r.keyring != nil
}

// FullTextSearchEnabled reports whether the FTS index is maintained.
func (r *Repository) FullTextSearchEnabled() bool {
	return r.fts
}

// Count returns the number of live documents.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE deleted = 0`).Scan(&count)
	if err != nil {
		return 0, domain.ErrStorage.WithCause(err)
	}
	return count, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}
