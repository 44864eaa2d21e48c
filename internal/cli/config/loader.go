package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the environment variable prefix for CLI settings.
// VITALIS_LOG_LEVEL maps to log.level, VITALIS_SERVER to server.
const EnvPrefix = "VITALIS_"

// errReadBytesUnsupported is returned when koanf asks a map provider
// for raw bytes.
var errReadBytesUnsupported = errors.New("config: ReadBytes not supported by map provider")

// Loader resolves CLI configuration from file, environment and flag
// overrides, in that priority order.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	overrides map[string]any
}

// Option configures the Loader.
type Option func(*Loader)

// WithConfigFile sets the configuration file path. An empty path keeps
// the default location; a missing default file is not an error.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithOverride records a flag-level override, applied last. Keys use
// dotted form, e.g. "log.level".
func WithOverride(key string, value any) Option {
	return func(l *Loader) {
		l.overrides[key] = value
	}
}

// NewLoader creates a configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: EnvPrefix,
		overrides: make(map[string]any),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves the configuration and validates the result.
func (l *Loader) Load() (*CLIConfig, error) {
	path := l.filePath
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	// VITALIS_LOG_LEVEL -> log.level
	transform := func(s string) string {
		s = strings.TrimPrefix(s, l.envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "_", ".")
	}
	if err := l.k.Load(env.Provider(l.envPrefix, ".", transform), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if len(l.overrides) > 0 {
		if err := l.k.Load(mapProvider(l.overrides), nil); err != nil {
			return nil, fmt.Errorf("apply overrides: %w", err)
		}
	}

	cfg := Default()
	if err := l.k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	// time.Duration would serialize as raw nanoseconds; persist the
	// human-readable form instead.
	data, err := yamlv3.Marshal(persistedConfig{
		Server:            cfg.Server,
		Output:            cfg.Output,
		DataDir:           cfg.DataDir,
		Timeout:           cfg.Timeout.String(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Log:               cfg.Log,
	})
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// persistedConfig is the on-disk shape written by Save.
type persistedConfig struct {
	Server            string    `yaml:"server"`
	Output            string    `yaml:"output"`
	DataDir           string    `yaml:"data_dir"`
	Timeout           string    `yaml:"timeout"`
	RequestsPerSecond float64   `yaml:"requests_per_second"`
	Log               LogConfig `yaml:"log"`
}

// mapProvider is a koanf provider backed by a flat map of dotted keys,
// used for flag overrides.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errReadBytesUnsupported
}

func (m mapProvider) Read() (map[string]any, error) {
	flat := make(map[string]any, len(m))
	for k, v := range m {
		flat[k] = v
	}
	return maps.Unflatten(flat, "."), nil
}
