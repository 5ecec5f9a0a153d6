// Package config loads client settings: YAML next to the binary, overridden
// by environment variables (with an optional .env file for development).
package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings stores client preferences persisted as YAML next to the binary.
type Settings struct {
	APIBaseURL string `yaml:"api_base_url"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	DataDir    string `yaml:"data_dir,omitempty"` // session storage; default: next to the binary
}

// Default returns default settings.
func Default() *Settings {
	return &Settings{
		APIBaseURL: "http://localhost:5000",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

func settingsPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "settings.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "settings.yaml")
}

// Load builds the effective settings: defaults, then the YAML file, then the
// environment. A missing or corrupt settings file falls back to defaults.
func Load() *Settings {
	// Best-effort .env for development setups; absence is normal.
	_ = godotenv.Load()

	s := Default()
	if data, err := os.ReadFile(settingsPath()); err == nil {
		if err := yaml.Unmarshal(data, s); err != nil {
			slog.Error("parse settings", "err", err)
			s = Default()
		}
	}

	if v := os.Getenv("UNSAID_API_URL"); v != "" {
		s.APIBaseURL = v
	}
	if v := os.Getenv("UNSAID_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv("UNSAID_LOG_FORMAT"); v != "" {
		s.LogFormat = v
	}
	if v := os.Getenv("UNSAID_DATA_DIR"); v != "" {
		s.DataDir = v
	}
	return s
}

// Save writes settings to YAML.
func (s *Settings) Save() error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(settingsPath(), data, 0600)
}
