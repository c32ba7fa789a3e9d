// Package domain defines the core domain models for DocVault.
package domain

import "time"

// Role defines the permission level of a security context.
type Role string

const (
	// RoleAdmin has full access to all operations.
	RoleAdmin Role = "admin"

	// RoleDeveloper has read/write access to documents.
	RoleDeveloper Role = "developer"

	// RoleViewer has read-only access to documents.
	RoleViewer Role = "viewer"

	// RoleAuditor has read access plus access to the audit trail.
	RoleAuditor Role = "auditor"
)

// ValidRoles returns all valid roles.
func ValidRoles() []Role {
	return []Role{RoleAdmin, RoleDeveloper, RoleViewer, RoleAuditor}
}

// IsValidRole checks if a string is a valid role.
func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleDeveloper, RoleViewer, RoleAuditor:
		return true
	}
	return false
}

// Permission represents an action that can be performed on the vault.
type Permission string

const (
	// PermRead allows reading, listing and searching documents.
	PermRead Permission = "document.read"

	// PermWrite allows creating and updating documents.
	PermWrite Permission = "document.write"

	// PermDelete allows deleting documents.
	PermDelete Permission = "document.delete"

	// PermAdmin allows administrative operations (limiter resets, hard deletes).
	PermAdmin Permission = "system.admin"

	// PermAudit allows reading the audit trail.
	PermAudit Permission = "audit.read"
)

// rolePermissions defines the permissions granted to each role.
// RoleAdmin is handled implicitly: it holds every permission.
var rolePermissions = map[Role][]Permission{
	RoleDeveloper: {
		PermRead,
		PermWrite,
		PermDelete,
	},
	RoleViewer: {
		PermRead,
	},
	RoleAuditor: {
		PermRead,
		PermAudit,
	},
}

// HasPermission checks if a role has a specific permission.
// Admin implicitly holds all permissions.
func HasPermission(role Role, perm Permission) bool {
	if role == RoleAdmin {
		return true
	}
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// GetPermissions returns all permissions for a role.
func GetPermissions(role Role) []Permission {
	if role == RoleAdmin {
		return []Permission{PermRead, PermWrite, PermDelete, PermAdmin, PermAudit}
	}
	if permissions, ok := rolePermissions[role]; ok {
		result := make([]Permission, len(permissions))
		copy(result, permissions)
		return result
	}
	return nil
}

// TokenTTL is the validity window of an issued token.
const TokenTTL = 24 * time.Hour

// SecurityContext is an authenticated caller identity.
//
// Only the SHA-256 hash of the token is retained; the plaintext token is
// returned once at issuance and never stored.
type SecurityContext struct {
	// UserID identifies the authenticated user.
	UserID string `json:"user_id"`

	// Role is the permission level.
	Role Role `json:"role"`

	// TokenHash is the SHA-256 hex hash of the issued token.
	TokenHash string `json:"-"`

	// IssuedAt is the issuance timestamp (Unix MS).
	IssuedAt int64 `json:"issued_at"`
}

// ExpiresAt returns the expiration timestamp (Unix MS).
func (c *SecurityContext) ExpiresAt() int64 {
	return c.IssuedAt + TokenTTL.Milliseconds()
}

// IsExpired returns true if the context has passed its validity window.
func (c *SecurityContext) IsExpired() bool {
	return currentTimeMillis() >= c.ExpiresAt()
}

// Clone creates a copy of the security context.
func (c *SecurityContext) Clone() *SecurityContext {
	clone := *c
	return &clone
}
