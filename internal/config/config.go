// Package config handles loading and saving user configuration for
// shotwright.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shotwright/shotwright/internal/scene"
)

// Config holds the user-level settings: gateway endpoints, project
// identity, and per-shot defaults the wizard starts from.
type Config struct {
	ProjectID string `yaml:"project_id"`

	PricingURL string `yaml:"pricing_url"`
	MediaURL   string `yaml:"media_url"`
	JobURL     string `yaml:"job_url"`

	// LibraryPath points at the SQLite media library. Relative paths are
	// resolved against the config directory.
	LibraryPath string `yaml:"library_path"`

	DefaultAspectRatio scene.AspectRatio   `yaml:"default_aspect_ratio"`
	DefaultRefModel    scene.RefImageModel `yaml:"default_ref_model"`
}

// Default returns the configuration written by `shotwright init`.
func Default() *Config {
	return &Config{
		PricingURL:         "https://api.shotwright.dev",
		MediaURL:           "https://api.shotwright.dev",
		JobURL:             "https://api.shotwright.dev",
		LibraryPath:        "library.db",
		DefaultAspectRatio: scene.Ratio16x9,
		DefaultRefModel:    scene.RefModelDefault,
	}
}

// Load reads the configuration file from a directory.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.LibraryPath != "" && !filepath.IsAbs(cfg.LibraryPath) {
		cfg.LibraryPath = filepath.Join(dir, cfg.LibraryPath)
	}

	return cfg, nil
}

// Save writes the configuration file into a directory.
func Save(dir string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "shotwright"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
