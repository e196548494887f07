// Package config loads SDK settings from a YAML file and ANCHOR_* env
// vars, with env taking precedence. A config file is optional; env alone
// is enough.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads settings from configPath, standard locations, and the
// environment. Pass an empty path to search ./anchor.yaml and
// ~/.anchor/anchor.yaml.
func Load(configPath string) (*Settings, error) {
	v := viper.New()

	setDefaults(v)

	// ANCHOR_API_KEY, ANCHOR_BASE_URL, ANCHOR_RETRY_ATTEMPTS, ...
	v.SetEnvPrefix("anchor")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("anchor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".anchor"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// No file is fine; env vars and defaults still apply.
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&settings); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &settings, nil
}

func setDefaults(v *viper.Viper) {
	// Registered empty so AutomaticEnv can bind ANCHOR_API_KEY during
	// Unmarshal even when no config file sets it.
	v.SetDefault("api_key", "")

	v.SetDefault("base_url", "https://api.anchor.dev")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("retry_attempts", 3)
	v.SetDefault("retry_base_delay", time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

func validate(settings *Settings) error {
	if settings.APIKey == "" {
		return fmt.Errorf("api_key is required (set ANCHOR_API_KEY)")
	}

	if settings.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	if settings.RetryAttempts < 0 {
		return fmt.Errorf("retry_attempts must not be negative")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[settings.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", settings.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[settings.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", settings.Logging.Format)
	}

	return nil
}
