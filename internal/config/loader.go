package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const appName = "gopost"

// Environment variables that override the file.
const (
	EnvBaseURL = "GOPOST_BASE_URL"
	EnvAPIKey  = "GOPOST_API_KEY"
)

// Path returns ~/.config/gopost/config.yaml.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.yaml"), nil
}

// StateDir returns ~/.local/state/gopost, where history is kept.
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}

// Load loads configuration from ~/.config/gopost/config.yaml, falling back
// to defaults when the file is missing or unreadable.
func Load() Config {
	cfg := DefaultConfig()
	if path, err := Path(); err == nil {
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, &cfg)
		}
	}
	applyEnv(&cfg)
	return cfg
}

// LoadFile reads an explicit config file. Unlike Load it reports errors.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
}

// HistoryFile resolves the history database path.
func (c Config) HistoryFile() (string, error) {
	if c.HistoryPath != "" {
		return c.HistoryPath, nil
	}
	dir, err := StateDir()
	if err != nil {
		return "", fmt.Errorf("resolving history path: %w", err)
	}
	return filepath.Join(dir, "history.db"), nil
}
