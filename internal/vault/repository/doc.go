// Package repository provides SQLite-backed document persistence for
// DocVault.
//
// Documents live in a single documents table; full-text search uses an
// FTS5 shadow table ranked with bm25. The FTS index only holds
// plaintext: when the repository is opened with a keyring, content and
// metadata are sealed before they reach the database and search falls
// back to decrypt-and-scan so indexed plaintext never exists on disk.
//
// Deletion comes in three grades: soft delete keeps the row and lets a
// later create with the same id revive it, hard delete removes the row,
// and secure erase overwrites the stored content with random bytes
// before removing the row.
//
// Integrity is checked on every read by recomputing the content
// checksum; a mismatch surfaces as an integrity violation instead of
// returning silently corrupted data.
package repository
