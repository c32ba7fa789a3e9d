// Package audit provides the buffered security audit trail for DocVault.
package audit

import (
	"fmt"
	"time"
)

const (
	// AuthFailureThreshold is the auth failure count that raises an anomaly.
	AuthFailureThreshold = 3

	// AuthFailureWindow is the window the threshold applies to.
	AuthFailureWindow = 5 * time.Minute
)

// AnomalyKind classifies a detected anomaly.
type AnomalyKind string

const (
	// AnomalyRepeatedAuthFailures flags a user exceeding the auth
	// failure threshold inside the window.
	AnomalyRepeatedAuthFailures AnomalyKind = "repeated_auth_failures"

	// AnomalyInjectionAttempt flags any injection or traversal event.
	AnomalyInjectionAttempt AnomalyKind = "injection_attempt"
)

// Anomaly is one suspicious pattern found in the event history.
type Anomaly struct {
	Kind    AnomalyKind `json:"kind"`
	User    string      `json:"user"`
	Count   int         `json:"count"`
	Message string      `json:"message"`
}

// Anomalies scans the in-memory history for suspicious patterns.
//
// A user with more than AuthFailureThreshold auth failures inside
// AuthFailureWindow raises one anomaly; every injection or traversal
// event raises its own.
func (l *Logger) Anomalies() []Anomaly {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := timeNow().Add(-AuthFailureWindow).UnixMilli()
	failures := make(map[string]int)
	var out []Anomaly

	for _, e := range l.history {
		if e.IsInjectionAlert() {
			out = append(out, Anomaly{
				Kind:    AnomalyInjectionAttempt,
				User:    e.User,
				Count:   1,
				Message: e.Message,
			})
			continue
		}
		if e.IsAuthFailure() && e.Timestamp >= cutoff {
			failures[e.User]++
		}
	}

	for user, n := range failures {
		if n > AuthFailureThreshold {
			out = append(out, Anomaly{
				Kind:  AnomalyRepeatedAuthFailures,
				User:  user,
				Count: n,
				Message: fmt.Sprintf("%d auth failures within %s",
					n, AuthFailureWindow),
			})
		}
	}
	return out
}
