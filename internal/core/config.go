package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FilterPreset is a named, pre-parameterized edit command offered in the
// editor view.
type FilterPreset struct {
	Name    string         `yaml:"name"`
	Command string         `yaml:"command"`
	Params  map[string]any `yaml:",inline"`
}

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type Gateway struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
	Model   string `yaml:"model"`
}

type Cache struct {
	Addr       string `yaml:"addr"`
	TTLSeconds int    `yaml:"ttlSeconds"`
}

type ServiceConfig struct {
	Port           int            `yaml:"port"`
	ThumbnailWidth int            `yaml:"thumbnailWidth"`
	Database       Database       `yaml:"database"`
	Gateway        Gateway        `yaml:"gateway"`
	Cache          Cache          `yaml:"cache"`
	Filters        []FilterPreset `yaml:"filters"`
}

const (
	defaultThumbnailWidth = 320
	defaultCacheTTL       = 3600

	// Environment override for the gateway credential, so the key does not
	// have to live in the config file.
	apiKeyEnv = "GATEWAY_API_KEY"
)

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if config.ThumbnailWidth <= 0 {
		config.ThumbnailWidth = defaultThumbnailWidth
	}
	if config.Cache.TTLSeconds <= 0 {
		config.Cache.TTLSeconds = defaultCacheTTL
	}
	if key := os.Getenv(apiKeyEnv); key != "" {
		config.Gateway.APIKey = key
	}

	// Validate filter presets
	if err := validateFilters(config.Filters); err != nil {
		return nil, fmt.Errorf("invalid filter configuration: %w", err)
	}

	return &config, nil
}

// validateFilters ensures all filter presets have required fields
func validateFilters(filters []FilterPreset) error {
	seenNames := make(map[string]bool)

	for i, preset := range filters {
		// Validate name is not empty
		if preset.Name == "" {
			return fmt.Errorf("filter at index %d has empty name", i)
		}

		// Validate name is unique
		if seenNames[preset.Name] {
			return fmt.Errorf("duplicate filter name: %s", preset.Name)
		}
		seenNames[preset.Name] = true

		if preset.Command == "" {
			return fmt.Errorf("filter %s has no command", preset.Name)
		}
	}

	return nil
}
