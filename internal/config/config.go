// Package config resolves client configuration: the backend base URL and
// the profile directory holding per-browser-equivalent local state.
// Precedence, lowest to highest: built-in defaults, the profile's
// config.json, a .env file in the working directory, then real
// environment variables.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variable overrides.
const (
	EnvBaseURL = "ECOBAZAAR_BASE_URL"
	EnvProfile = "ECOBAZAAR_PROFILE"
)

// Config holds user preferences.
type Config struct {
	BaseURL    string `json:"base_url"`
	ProfileDir string `json:"-"`
}

// DefaultConfig returns the development defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8081",
	}
}

// DefaultProfileDir is ~/.ecobazaar, falling back to a local directory
// when no home is resolvable.
func DefaultProfileDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ecobazaar"
	}
	return filepath.Join(home, ".ecobazaar")
}

// Load resolves configuration for the given profile directory. An empty
// profileDir selects the default. Missing config files are not errors;
// a malformed config.json falls back to defaults.
func Load(profileDir string) (Config, error) {
	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	if profileDir == "" {
		profileDir = os.Getenv(EnvProfile)
	}
	if profileDir == "" {
		profileDir = DefaultProfileDir()
	}

	cfg := DefaultConfig()
	cfg.ProfileDir = profileDir

	data, err := os.ReadFile(filepath.Join(profileDir, "config.json"))
	if err == nil {
		var fileCfg Config
		if jsonErr := json.Unmarshal(data, &fileCfg); jsonErr == nil && fileCfg.BaseURL != "" {
			cfg.BaseURL = fileCfg.BaseURL
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	return cfg, nil
}

// Save writes the persistent part of the configuration to the profile's
// config.json.
func Save(cfg Config) error {
	if err := os.MkdirAll(cfg.ProfileDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cfg.ProfileDir, "config.json"), data, 0o644)
}
