// Package command provides CLI command definitions for docvault.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, config loading
//   - document.go: Document commands (create, get, list, search, delete)
//   - system.go: System commands (init, info, audit, version)
//
// Commands follow a consistent pattern of parsing flags, opening the
// vault, calling the storage manager, and formatting output.
package command
