package config

import "strings"

// Sanitize returns a copy of the config safe to log. Only the shallow
// copy's secret fields are rewritten, so the original is untouched.
func Sanitize(cfg *Config) *Config {
	out := *cfg
	if out.Security.Secret != "" {
		out.Security.Secret = maskSecret(out.Security.Secret)
	}
	return &out
}

// maskSecret keeps two characters at each end so operators can tell
// which secret is loaded without seeing it.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
