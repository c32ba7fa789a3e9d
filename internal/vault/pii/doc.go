// Package pii detects and masks personally identifiable information.
//
// Detection is regex based and covers email addresses, US phone
// numbers, social security numbers, payment card numbers and
// honorific-prefixed personal names. Masking is category aware:
//
//   - email: local part replaced, domain kept (***@example.com)
//   - card: all but the last four digits replaced
//   - other categories: replaced with [REDACTED]
//
// Masking is idempotent; masked output contains nothing the detector
// matches, so running it twice changes nothing.
package pii
