// Package access provides token-based access control for DocVault.
//
// The controller issues opaque bearer tokens bound to a user and role,
// validates them on each operation, and enforces the role permission
// matrix defined in the domain package. Tokens are held in memory as
// SHA-256 hashes; the raw token is returned once at issuance and never
// stored.
//
// Authorization failures and revocations are reported to an optional
// audit sink so the security trail stays complete without coupling
// this package to the audit logger implementation.
package access
