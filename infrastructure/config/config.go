// Package config loads the application configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the application.
// Fields are loaded from a YAML file; anything missing keeps its default.
type Config struct {
	Processing ProcessingConfig `yaml:"processing"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Log        LogConfig        `yaml:"log"`
	Canvas     CanvasConfig     `yaml:"canvas"`
	Image      ImageConfig      `yaml:"image"`
}

// ProcessingConfig configures the remote processing service client.
type ProcessingConfig struct {
	Enabled        bool          `yaml:"enabled"`
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	HealthInterval time.Duration `yaml:"health_interval"`
}

// MongoConfig configures job history persistence.
type MongoConfig struct {
	Enabled        bool          `yaml:"enabled"`
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level     string `yaml:"level"`
	Dir       string `yaml:"dir"`
	AddSource bool   `yaml:"add_source"`
}

// CanvasConfig configures the seed canvas.
type CanvasConfig struct {
	// MarkerRadius is the marker and hit-test radius in display units.
	MarkerRadius float64 `yaml:"marker_radius"`
	// Slots is the number of workspace slots.
	Slots int `yaml:"slots"`
}

// ImageConfig configures image loading.
type ImageConfig struct {
	// Timeout bounds remote image fetches. Zero means no timeout.
	Timeout  time.Duration `yaml:"timeout"`
	MaxBytes int64         `yaml:"max_bytes"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Processing: ProcessingConfig{
			Enabled:        true,
			BaseURL:        "http://localhost:8000",
			Timeout:        120 * time.Second,
			HealthInterval: 5 * time.Second,
		},
		Mongo: MongoConfig{
			Enabled:        true,
			URI:            "mongodb://localhost:27017",
			Database:       "aura",
			ConnectTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Canvas: CanvasConfig{
			MarkerRadius: 5,
			Slots:        1,
		},
		Image: ImageConfig{
			MaxBytes: 64 << 20,
		},
	}
}

// DefaultPath returns <UserConfigDir>/aura/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "aura", "config.yaml")
}

// Validate clamps/normalizes values to safe ranges.
// It returns an error only for values that cannot be repaired.
func (c *Config) Validate() error {
	def := DefaultConfig()

	c.Processing.BaseURL = strings.TrimRight(strings.TrimSpace(c.Processing.BaseURL), "/")
	if c.Processing.BaseURL == "" {
		c.Processing.BaseURL = def.Processing.BaseURL
	}
	if !strings.HasPrefix(c.Processing.BaseURL, "http://") && !strings.HasPrefix(c.Processing.BaseURL, "https://") {
		return fmt.Errorf("processing.base_url %q must be an http(s) URL", c.Processing.BaseURL)
	}
	if c.Processing.Timeout <= 0 {
		c.Processing.Timeout = def.Processing.Timeout
	}
	if c.Processing.HealthInterval <= 0 {
		c.Processing.HealthInterval = def.Processing.HealthInterval
	}

	if c.Mongo.URI == "" {
		c.Mongo.URI = def.Mongo.URI
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = def.Mongo.Database
	}
	if c.Mongo.ConnectTimeout <= 0 {
		c.Mongo.ConnectTimeout = def.Mongo.ConnectTimeout
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}

	if c.Canvas.MarkerRadius <= 0 {
		c.Canvas.MarkerRadius = def.Canvas.MarkerRadius
	}
	if c.Canvas.Slots < 1 {
		c.Canvas.Slots = def.Canvas.Slots
	}

	if c.Image.Timeout < 0 {
		c.Image.Timeout = 0
	}
	if c.Image.MaxBytes <= 0 {
		c.Image.MaxBytes = def.Image.MaxBytes
	}
	return nil
}

// Load reads configuration from the given YAML file path. If the file does not
// exist it returns DefaultConfig(). On parse error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in YAML format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
