package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func newBufJSON(t *testing.T, level string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, &buf
}

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"json", "text", "console", ""} {
		l, err := New(Config{Level: "info", Format: format})
		if err != nil {
			t.Fatalf("New(format=%q) error = %v", format, err)
		}
		if l == nil {
			t.Fatalf("New(format=%q) returned nil logger", format)
		}
	}
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newBufJSON(t, "debug")

	calls := map[string]func(string, ...any){
		"DEBUG": l.Debug,
		"INFO":  l.Info,
		"WARN":  l.Warn,
		"ERROR": l.Error,
	}
	for level, logFn := range calls {
		t.Run(level, func(t *testing.T) {
			buf.Reset()
			logFn("cache evicted", "component", "cache")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("parse log entry: %v", err)
			}
			if entry["level"] != level {
				t.Errorf("level = %v, want %s", entry["level"], level)
			}
			if entry["msg"] != "cache evicted" {
				t.Errorf("msg = %v", entry["msg"])
			}
			if entry["component"] != "cache" {
				t.Errorf("component = %v", entry["component"])
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := newBufJSON(t, "info")

	l.With("component", "vault").Info("opened")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse log entry: %v", err)
	}
	if entry["component"] != "vault" {
		t.Errorf("component = %v, want vault", entry["component"])
	}
}

func TestLogger_RedactsTokens(t *testing.T) {
	l, buf := newBufJSON(t, "info")

	l.Info("token issued", "user", "alice", "token", "dvtk_AAAABBBBCCCCDDDD")

	out := buf.String()
	if strings.Contains(out, "dvtk_AAAABBBBCCCCDDDD") {
		t.Errorf("raw token leaked into log output: %s", out)
	}
	if !strings.Contains(out, "alice") {
		t.Errorf("non-sensitive attrs should survive redaction: %s", out)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufJSON(t, "warn")

	l.Debug("suppressed")
	l.Info("suppressed")
	if buf.Len() > 0 {
		t.Error("debug and info must be filtered at warn level")
	}

	l.Warn("visible")
	if buf.Len() == 0 {
		t.Error("warn entry was filtered out")
	}
}

func TestSetLevel(t *testing.T) {
	l, buf := newBufJSON(t, "error")

	l.Info("suppressed")
	if buf.Len() > 0 {
		t.Error("info must be filtered at error level")
	}

	SetLevel("debug")
	l.Info("visible after level change")
	if buf.Len() == 0 {
		t.Error("info entry filtered after SetLevel(debug)")
	}
	if got := GetLevel(); got != "debug" {
		t.Errorf("GetLevel() = %q, want debug", got)
	}
}

func TestSetLevel_Parsing(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "debug"},
		{"DEBUG", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"ERROR", "error"},
		{"invalid", "info"},
		{"", "info"},
	}
	for _, tt := range tests {
		SetLevel(tt.input)
		if got := GetLevel(); got != tt.want {
			t.Errorf("SetLevel(%q); GetLevel() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDefaultAndPackageFuncs(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}

	var buf bytes.Buffer
	l, err := New(Config{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	SetDefault(l)

	for name, logFn := range map[string]func(string, ...any){
		"Debug": Debug, "Info": Info, "Warn": Warn, "Error": Error,
	} {
		buf.Reset()
		logFn("ping")
		if buf.Len() == 0 {
			t.Errorf("package-level %s() produced no output", name)
		}
	}
}

func TestLogger_WithContext(t *testing.T) {
	l, buf := newBufJSON(t, "info")

	l.WithContext(context.Background()).Info("ping")
	if buf.Len() == 0 {
		t.Error("WithContext logger produced no output")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != "info" || cfg.Format != "json" || cfg.Output == nil {
		t.Errorf("DefaultConfig() = %+v, want info/json/stderr", cfg)
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("document stored", "component", "repository")

	out := buf.String()
	if !strings.Contains(out, "document stored") || !strings.Contains(out, "component=repository") {
		t.Errorf("unexpected text output: %s", out)
	}
}
