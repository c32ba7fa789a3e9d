// Package confloader loads DocVault configuration with koanf.
//
// Sources, highest priority last when loaded through Load:
//
//  1. Default values (set on the target struct before Load)
//  2. YAML configuration file
//  3. DOCVAULT_* environment variables
//
// CLI flags are applied by the command layer on top of the loaded
// config. Environment keys map section-aware: only the section boundary
// becomes a dot, so DOCVAULT_VAULT_DATA_DIR reaches vault.data_dir.
//
// A fsnotify-based Watcher notifies on config-file changes so the log
// level can be reloaded without restarting the vault.
package confloader
