// Package domain defines the core domain models for DocVault:
// documents, security contexts, roles and permissions, audit events,
// and the structured error taxonomy shared by all vault components.
package domain
