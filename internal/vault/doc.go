// Package vault implements the DocVault storage manager.
//
// The manager orchestrates the vault components around every document
// operation. The mode selected at construction (basic, performance,
// secure, enterprise) maps to a fixed feature-flag vector; each
// component is built only when its flag is on and consulted through an
// explicit nil check, never via dynamic dispatch.
//
// Every operation runs the same procedural pipeline:
//
//	RBAC enforce -> rate limit -> sanitize (writes) -> PII mask (writes)
//	-> cache lookup -> repository -> cache populate -> audit
//
// Permission, rate-limit and integrity failures surface to the caller
// as typed domain errors and are always audited. The mode is fixed for
// the lifetime of the manager.
package vault
