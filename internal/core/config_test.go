package core

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_Success(t *testing.T) {
	configPath := writeConfig(t, `port: 8080
thumbnailWidth: 240
database:
  type: sqlite
  connectionString: ":memory:"
gateway:
  baseUrl: "https://images.example.com"
  apiKey: "from-file"
  model: "banana-vision-1"
cache:
  addr: "localhost:6379"
  ttlSeconds: 600
filters:
  - name: grayscale
    command: GrayscaleCommand
  - name: warm sepia
    command: SepiaCommand
    amount: 80
`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Port != 8080 {
		t.Errorf("Expected port to be 8080, got %d", config.Port)
	}
	if config.ThumbnailWidth != 240 {
		t.Errorf("Expected thumbnailWidth 240, got %d", config.ThumbnailWidth)
	}
	if config.Database.Type != "sqlite" {
		t.Errorf("Expected database type sqlite, got %q", config.Database.Type)
	}
	if config.Gateway.Model != "banana-vision-1" {
		t.Errorf("Expected model banana-vision-1, got %q", config.Gateway.Model)
	}
	if len(config.Filters) != 2 {
		t.Fatalf("Expected 2 filters, got %d", len(config.Filters))
	}
	if config.Filters[1].Command != "SepiaCommand" {
		t.Errorf("Expected second filter command SepiaCommand, got %q", config.Filters[1].Command)
	}
	// Inline params are collected into the Params map
	if got, ok := config.Filters[1].Params["amount"]; !ok || got != 80 {
		t.Errorf("Expected sepia amount param 80, got %v", got)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	configPath := writeConfig(t, `port: 8080
database:
  type: sqlite
  connectionString: ":memory:"
`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.ThumbnailWidth != defaultThumbnailWidth {
		t.Errorf("Expected default thumbnail width %d, got %d", defaultThumbnailWidth, config.ThumbnailWidth)
	}
	if config.Cache.TTLSeconds != defaultCacheTTL {
		t.Errorf("Expected default cache TTL %d, got %d", defaultCacheTTL, config.Cache.TTLSeconds)
	}
}

func TestLoadConfig_APIKeyEnvOverride(t *testing.T) {
	configPath := writeConfig(t, `port: 8080
gateway:
  apiKey: "from-file"
`)
	t.Setenv(apiKeyEnv, "from-env")

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Gateway.APIKey != "from-env" {
		t.Errorf("Expected env override from-env, got %q", config.Gateway.APIKey)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	if _, err := LoadConfig("/path/that/does/not/exist/config.yaml"); err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "port: [not a number")

	if _, err := LoadConfig(configPath); err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_FilterValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "empty filter name",
			content: `filters:
  - name: ""
    command: GrayscaleCommand
`,
		},
		{
			name: "duplicate filter name",
			content: `filters:
  - name: grayscale
    command: GrayscaleCommand
  - name: grayscale
    command: SepiaCommand
`,
		},
		{
			name: "missing command",
			content: `filters:
  - name: grayscale
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			configPath := writeConfig(t, tc.content)
			if _, err := LoadConfig(configPath); err == nil {
				t.Fatal("Expected validation error, got nil")
			}
		})
	}
}
