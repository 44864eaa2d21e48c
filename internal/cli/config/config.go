package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CLIConfig is the configuration for vitalis-cli.
type CLIConfig struct {
	// Server is the base URL of the analysis service.
	Server string `koanf:"server" yaml:"server"`

	// Output selects the default rendering: table, json or yaml.
	Output string `koanf:"output" yaml:"output"`

	// DataDir holds sealed credentials and the local report cache.
	DataDir string `koanf:"data_dir" yaml:"data_dir"`

	// Timeout bounds each request, upload included.
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`

	// RequestsPerSecond throttles outgoing calls. Zero disables.
	RequestsPerSecond float64 `koanf:"requests_per_second" yaml:"requests_per_second"`

	Log LogConfig `koanf:"log" yaml:"log"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`   // debug, info, warn, error
	Format string `koanf:"format" yaml:"format"` // text, json
}

// Default returns the built-in CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:            "https://api.vitalis.example.com",
		Output:            "table",
		DataDir:           DefaultDataDir(),
		Timeout:           60 * time.Second,
		RequestsPerSecond: 8,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Validate checks the configuration for values no command could use.
func (c *CLIConfig) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("server is required")
	}
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("output must be table, json or yaml, got %q", c.Output)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %g", c.RequestsPerSecond)
	}
	return nil
}

// DefaultDataDir returns the directory for credentials and cached data.
func DefaultDataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".vitalis")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".vitalis", "cli.yaml")
}
