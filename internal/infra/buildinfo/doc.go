// Package buildinfo carries the version identity stamped into the
// docvault binary at build time.
//
// Version, Commit and BuildTime are set with ldflags:
//
//	go build -ldflags "-X .../buildinfo.Version=1.2.0 -X .../buildinfo.Commit=abc123"
//
// Unstamped builds report "dev".
package buildinfo
