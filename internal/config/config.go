// Package config loads and persists the declutter configuration: the
// user's classification rules, the folder exclusion set, and the external
// classifier settings. The engine consumes these as plain in-memory data;
// this package owns their storage.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/declutter/internal/classifier"
)

// CurrentVersion is the config schema version.
const CurrentVersion = 1

// Config represents the application configuration
type Config struct {
	Version         int               `yaml:"version"`
	CustomRules     []classifier.Rule `yaml:"custom_rules"`
	ExcludedFolders []string          `yaml:"excluded_folders"`
	Classifier      ClassifierConfig  `yaml:"classifier"`
	DryRun          bool              `yaml:"dry_run"`
	Verbose         bool              `yaml:"verbose"`
}

// ClassifierConfig holds the external classifier settings
type ClassifierConfig struct {
	Enabled        bool   `yaml:"enabled"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Version:     CurrentVersion,
		CustomRules: []classifier.Rule{},
		ExcludedFolders: []string{
			"node_modules",
			".git",
			".cache",
			"tmp",
		},
		Classifier: ClassifierConfig{
			Enabled:        false,
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 15,
		},
	}
}

// Load loads configuration from a file. A missing file yields the default
// configuration.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Version <= 0 {
		return fmt.Errorf("config version must be >= 1")
	}

	for i, rule := range c.CustomRules {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}

	for _, name := range c.ExcludedFolders {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("excluded folder name must not be empty")
		}
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("excluded folder must be a bare name, not a path: %s", name)
		}
	}

	if c.Classifier.TimeoutSeconds < 0 {
		return fmt.Errorf("classifier timeout must be >= 0")
	}

	return nil
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".config", "declutter")
	return filepath.Join(configDir, "config.yaml"), nil
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(GetDefault(), configPath); err != nil {
			return "", err
		}
	}

	return configPath, nil
}
