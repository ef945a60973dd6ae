package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load loads the configuration from file. A missing config file is not an
// error: the caller gets defaults and an empty account list, which triggers
// the first-run setup wizard.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "omnis"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to path, creating parent directories as
// needed. Account credentials are stored in plain YAML, matching the
// original tool's behavior; the file is created user-readable only.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultPath returns the standard config file location
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "omnis", "config.yaml"), nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.details", false)
	v.SetDefault("fetch.detail_concurrency", 8)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

func defaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			DetailConcurrency: 8,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Color:  true,
		},
	}
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	for i, account := range cfg.Accounts {
		if account.Username == "" {
			return fmt.Errorf("accounts[%d]: username is required", i)
		}
		if account.Password == "" {
			return fmt.Errorf("accounts[%d]: password is required", i)
		}
		if account.BaseURL == "" {
			return fmt.Errorf("accounts[%d]: base_url is required", i)
		}
		if account.Institution == "" {
			return fmt.Errorf("accounts[%d]: institution is required", i)
		}
		if account.View == "" {
			return fmt.Errorf("accounts[%d]: view is required", i)
		}
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	if cfg.Fetch.DetailConcurrency < 1 {
		return fmt.Errorf("fetch.detail_concurrency must be at least 1")
	}

	return nil
}
