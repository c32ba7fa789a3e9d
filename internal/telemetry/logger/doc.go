// Package logger provides structured logging for DocVault.
//
// It wraps log/slog with JSON and text handlers, a process-wide level
// that can be changed at runtime, and automatic redaction so tokens
// and secrets never reach the log stream. Request and trace IDs
// travel through context and are attached by L.
package logger
