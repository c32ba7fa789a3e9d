// Package main provides the entry point for docvault.
//
// The CLI tool provides command-line access to a local vault for:
//
//   - Vault initialization (init)
//   - Document management (create, get, list, search, delete)
//   - System inspection (info, audit, version)
//
// Usage:
//
//	docvault [command] [flags]
//	docvault --mode secure create --title "Notes" --content @notes.txt
//	docvault search "quarterly report" --output json
package main
