// Package config loads the wgpeer settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application settings.
type Config struct {
	// LogLevel is a zerolog level name: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`
	// LogFormat is "json" or "console".
	LogFormat string `yaml:"log_format"`
	// ConfigDir is where peer blocks are read from and written to.
	ConfigDir string `yaml:"config_dir"`
	// StateFile records which tunnels were running at shutdown.
	StateFile string `yaml:"state_file"`
	// Elevate is the command prefix used to gain root, e.g. ["sudo", "-n"].
	// Empty runs commands directly.
	Elevate []string `yaml:"elevate"`
	// ResolveTimeout bounds endpoint name resolution.
	ResolveTimeout time.Duration `yaml:"resolve_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "json",
		ConfigDir:      "/etc/wireguard",
		StateFile:      "/var/lib/wgpeer/state.yaml",
		Elevate:        []string{"sudo", "-n"},
		ResolveTimeout: 5 * time.Second,
	}
}

// Load reads the YAML file at path over the defaults, then applies environment
// overrides. A missing file or an empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error opening configuration: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("error parsing configuration: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.LogLevel = getEnv("WGPEER_LOG_LEVEL", c.LogLevel)
	c.ConfigDir = getEnv("WGPEER_CONFIG_DIR", c.ConfigDir)
	c.StateFile = getEnv("WGPEER_STATE_FILE", c.StateFile)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("log_format must be json or console, got %q", c.LogFormat))
	}
	if c.ResolveTimeout <= 0 {
		errs = append(errs, fmt.Errorf("resolve_timeout must be positive, got %s", c.ResolveTimeout))
	}
	if c.StateFile == "" {
		errs = append(errs, errors.New("state_file is required"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
