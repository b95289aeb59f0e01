package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for configuration.
const DefaultPath = "logistis.yaml"

// Config represents the top-level logistis.yaml configuration.
type Config struct {
	Database      string            `yaml:"database"`
	CatalogFile   string            `yaml:"catalog_file,omitempty"`
	HouseholdFile string            `yaml:"household_file"`
	Log           LogConfig         `yaml:"log"`
	Server        ServerConfig      `yaml:"server"`
	Categorizer   CategorizerConfig `yaml:"categorizer"`
	Linker        LinkerConfig      `yaml:"linker"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// CategorizerConfig tunes the category cascade.
type CategorizerConfig struct {
	FuzzyThreshold float64        `yaml:"fuzzy_threshold"`
	External       ExternalConfig `yaml:"external"`
}

// ExternalConfig enables the model-backed fallback. The API key comes from
// the environment, never the file.
type ExternalConfig struct {
	Enabled bool          `yaml:"enabled"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
	APIKey  string        `yaml:"-"`
}

// LinkerConfig tunes own-account pairing.
type LinkerConfig struct {
	WindowDays int     `yaml:"window_days"`
	Tolerance  float64 `yaml:"tolerance"`
}

// Load reads a logistis.yaml file from disk. Fields the file omits keep
// their defaults; a missing file yields Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
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

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	if db := os.Getenv("LOGISTIS_DATABASE"); db != "" {
		c.Database = db
	}
	if level := os.Getenv("LOGISTIS_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			c.Categorizer.External.APIKey = key
			break
		}
	}
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database:      "logistis.db",
		HouseholdFile: "household.yaml",
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 20,
		},
		Categorizer: CategorizerConfig{
			FuzzyThreshold: 0.5,
			External: ExternalConfig{
				Model:   "gemini-2.5-flash",
				Timeout: 5 * time.Second,
			},
		},
		Linker: LinkerConfig{
			WindowDays: 2,
			Tolerance:  0.01,
		},
	}
}
