// Package config loads the onboard configuration file (~/.onboard/config.yaml)
// and applies environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Dir is the per-user directory holding config and workspace.
	Dir = ".onboard"

	fileName = "config.yaml"
)

const defaultConfigYAML = `# onboard configuration
# Base URL of the onboarding platform, e.g. https://onboarding.example.com/
base_url: http://localhost:8000/

# Sent as Content-Language on every request.
language: en

# Request timeout in milliseconds.
timeout_ms: 15000

# Workspace database. Empty means ~/.onboard/onboard.db
db_path: ""

# Log every API call to stderr.
log_calls: false

# Colour output: auto, always or never.
color: auto
`

// Config models ~/.onboard/config.yaml.
type Config struct {
	BaseURL   string `yaml:"base_url"`
	Language  string `yaml:"language"`
	TimeoutMs int    `yaml:"timeout_ms"`
	DBPath    string `yaml:"db_path"`
	LogCalls  bool   `yaml:"log_calls"`
	Color     string `yaml:"color"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "http://localhost:8000/",
		Language:  "en",
		TimeoutMs: 15000,
		Color:     "auto",
	}
}

// Timeout returns TimeoutMs as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// DefaultPath resolves the config file path: $ONBOARD_CONFIG, else ~/.onboard/config.yaml.
func DefaultPath() string {
	if env := os.Getenv("ONBOARD_CONFIG"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, Dir, fileName)
}

// DefaultDBPath is used when neither the config nor the environment names a database.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, Dir, "onboard.db")
}

// Load reads the config at path, falling back to defaults when the file does
// not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base_url is required")
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("config: timeout_ms must be positive, got %d", c.TimeoutMs)
	}
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("config: color must be auto, always or never, got %q", c.Color)
	}
	return nil
}

// Init writes the commented default config to path unless one already exists.
func Init(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ONBOARD_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("ONBOARD_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("ONBOARD_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("ONBOARD_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ONBOARD_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
}
