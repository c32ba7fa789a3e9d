package logger

import (
	"log/slog"
	"strings"
)

// redactedValue replaces values that must never appear in logs.
const redactedValue = "***REDACTED***"

// tokenPrefixes lists value prefixes that mark a string as a
// credential regardless of the attribute key.
var tokenPrefixes = []string{
	"dvtk_",
}

// sensitiveKeyPatterns match attribute keys whose values are
// redacted wholesale.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"key",
	"credential",
	"auth",
	"bearer",
}

// redactSensitive is installed as the handler's ReplaceAttr hook.
// Token-shaped values are partially masked so entries remain
// correlatable; values under sensitive keys are replaced entirely.
// Groups are walked recursively.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		for _, prefix := range tokenPrefixes {
			if strings.HasPrefix(v, prefix) {
				return slog.String(a.Key, maskValue(v, prefix))
			}
		}
		if v != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		masked := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			masked[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}
	return a
}

// maskValue keeps the prefix plus three characters at each end of the
// body. Bodies too short to mask safely collapse to prefix + "***".
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) <= 6 {
		return prefix + "***"
	}
	return prefix + body[:3] + "..." + body[len(body)-3:]
}

// RedactString masks a value before it is handed to a log call. The
// ReplaceAttr hook covers attributes; this covers values embedded in
// messages or error strings.
func RedactString(value string) string {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return maskValue(value, prefix)
		}
	}
	// Catch other dv*_ style identifiers that may be credentials.
	if strings.HasPrefix(value, "dv") {
		if idx := strings.Index(value, "_"); idx > 0 && idx < 10 {
			return maskValue(value, value[:idx+1])
		}
	}
	return value
}

// IsSensitiveKey reports whether a key name suggests its value is a
// credential.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether a value carries a known credential
// prefix.
func IsSensitiveValue(value string) bool {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
