package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level diwan.yaml configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Import   ImportConfig   `yaml:"import"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig controls the report API server.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

// DatabaseConfig locates the ledger database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ImportConfig controls spreadsheet ingestion.
type ImportConfig struct {
	// Root holds the import/ and logs/ subdirectories.
	Root string `yaml:"root"`
	// Directorate is the default source directorate for imports that
	// name none.
	Directorate string `yaml:"directorate"`
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// Load reads a diwan.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new office.
func Default(directorate string) *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8417",
			MetricsEnabled: true,
		},
		Database: DatabaseConfig{
			Path: "diwan.db",
		},
		Import: ImportConfig{
			Root:        ".",
			Directorate: directorate,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
