package domain

import (
	"testing"
	"time"
)

func TestHasPermission_RoleMatrix(t *testing.T) {
	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleAdmin, PermRead, true},
		{RoleAdmin, PermWrite, true},
		{RoleAdmin, PermDelete, true},
		{RoleAdmin, PermAdmin, true},
		{RoleAdmin, PermAudit, true},
		{RoleDeveloper, PermRead, true},
		{RoleDeveloper, PermWrite, true},
		{RoleDeveloper, PermDelete, true},
		{RoleDeveloper, PermAdmin, false},
		{RoleDeveloper, PermAudit, false},
		{RoleViewer, PermRead, true},
		{RoleViewer, PermWrite, false},
		{RoleViewer, PermDelete, false},
		{RoleAuditor, PermRead, true},
		{RoleAuditor, PermAudit, true},
		{RoleAuditor, PermWrite, false},
		{Role("unknown"), PermRead, false},
	}

	for _, tt := range tests {
		if got := HasPermission(tt.role, tt.perm); got != tt.want {
			t.Errorf("HasPermission(%s, %s) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestGetPermissions_ReturnsCopy(t *testing.T) {
	perms := GetPermissions(RoleViewer)
	if len(perms) != 1 || perms[0] != PermRead {
		t.Fatalf("GetPermissions(viewer) = %v", perms)
	}

	perms[0] = PermAdmin
	again := GetPermissions(RoleViewer)
	if again[0] != PermRead {
		t.Fatal("GetPermissions returned a shared slice")
	}
}

func TestSecurityContext_Expiry(t *testing.T) {
	restore := currentTimeMillis
	defer func() { currentTimeMillis = restore }()

	issued := int64(1_000_000)
	ctx := &SecurityContext{UserID: "u1", Role: RoleViewer, IssuedAt: issued}

	currentTimeMillis = func() int64 { return issued + TokenTTL.Milliseconds() - 1 }
	if ctx.IsExpired() {
		t.Fatal("IsExpired = true just before the 24h boundary")
	}

	currentTimeMillis = func() int64 { return issued + TokenTTL.Milliseconds() }
	if !ctx.IsExpired() {
		t.Fatal("IsExpired = false at the 24h boundary")
	}

	if got, want := ctx.ExpiresAt(), issued+(24*time.Hour).Milliseconds(); got != want {
		t.Fatalf("ExpiresAt = %d, want %d", got, want)
	}
}

func TestIsValidRole(t *testing.T) {
	for _, r := range ValidRoles() {
		if !IsValidRole(string(r)) {
			t.Errorf("IsValidRole(%s) = false", r)
		}
	}
	if IsValidRole("superuser") {
		t.Error("IsValidRole(superuser) = true")
	}
}
