package confloader

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the prefix recognized on environment variables.
const DefaultEnvPrefix = "DOCVAULT_"

// Loader merges configuration from a YAML file, environment variables
// and explicit maps into a single koanf tree.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	loaded    bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// WithConfigFile sets the YAML file consulted by Load.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.filePath = path }
}

// NewLoader creates a loader with the DOCVAULT_ env prefix unless
// overridden.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the config file when one is set, overlays environment
// variables on top and unmarshals the result into target. CLI flag
// overrides are applied by the caller afterwards.
func (l *Loader) Load(target any) error {
	if l.filePath != "" {
		if err := l.LoadFile(l.filePath); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}
	if err := l.LoadEnv(); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	l.loaded = true
	return nil
}

// LoadFile merges a YAML file into the tree.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}
	return nil
}

// envSections are the top-level config sections, longest first so
// rate_limit wins over a hypothetical "rate" section.
var envSections = []string{"rate_limit", "security", "vault", "cache", "audit", "log"}

// LoadEnv merges DOCVAULT_* variables into the tree. Only the section
// boundary becomes a dot, so keys containing underscores survive:
//
//	DOCVAULT_VAULT_MODE        -> vault.mode
//	DOCVAULT_VAULT_DATA_DIR    -> vault.data_dir
//	DOCVAULT_RATE_LIMIT_WINDOW -> rate_limit.window
func (l *Loader) LoadEnv() error {
	envTransformer := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
		for _, section := range envSections {
			if strings.HasPrefix(s, section+"_") {
				return section + "." + s[len(section)+1:]
			}
		}
		return s
	}

	if err := l.k.Load(env.Provider(l.envPrefix, ".", envTransformer), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// LoadMap merges literal key-value pairs, used for flag overrides and
// in tests.
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal decodes the merged tree into target using koanf struct
// tags.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// Get returns the raw value stored under key.
func (l *Loader) Get(key string) any { return l.k.Get(key) }

// GetString returns the value under key as a string.
func (l *Loader) GetString(key string) string { return l.k.String(key) }

// GetInt returns the value under key as an int.
func (l *Loader) GetInt(key string) int { return l.k.Int(key) }

// GetBool returns the value under key as a bool.
func (l *Loader) GetBool(key string) bool { return l.k.Bool(key) }

// IsLoaded reports whether Load has completed successfully.
func (l *Loader) IsLoaded() bool { return l.loaded }

// All returns the merged tree as a flat map.
func (l *Loader) All() map[string]any { return l.k.All() }

// Keys returns every key in the merged tree.
func (l *Loader) Keys() []string { return l.k.Keys() }
