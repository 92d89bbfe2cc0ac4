// Package config provides configuration loading and management for mathviz.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/mathviz/compute"
	"github.com/spektr-org/mathviz/engine"
)

// Output formats accepted by output.format.
const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
	FormatText   = "text"
	FormatCSV    = "csv"
)

// Config represents the complete mathviz configuration
type Config struct {
	Compute ComputeConfig `yaml:"compute"`
	Sampler SamplerConfig `yaml:"sampler"`
	Output  OutputConfig  `yaml:"output"`
	Publish PublishConfig `yaml:"publish"`
	Log     LogConfig     `yaml:"log"`
}

// ComputeConfig configures the compute-service client
type ComputeConfig struct {
	// BaseURL is the service root (default: http://localhost:8000/mathcompute)
	BaseURL string `yaml:"base_url"`
	// Timeout bounds each request
	Timeout time.Duration `yaml:"timeout"`
	// UseAI overrides the service's natural-language parser (unset = service default)
	UseAI *bool `yaml:"use_ai,omitempty"`
}

// SamplerConfig configures the quick-plot sweep
type SamplerConfig struct {
	XMin                   float64 `yaml:"x_min"`
	XMax                   float64 `yaml:"x_max"`
	Resolution             int     `yaml:"resolution"`
	DiscontinuityThreshold float64 `yaml:"discontinuity_threshold"`
	Clamp                  float64 `yaml:"clamp"`
}

// OutputConfig configures how results are written
type OutputConfig struct {
	// Format is one of json, pretty, text, csv
	Format        string `yaml:"format"`
	PreviewWidth  int    `yaml:"preview_width"`
	PreviewHeight int    `yaml:"preview_height"`
}

// PublishConfig configures artifact upload. An empty bucket disables it.
type PublishConfig struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
	Prefix string `yaml:"prefix"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Compute: ComputeConfig{
			BaseURL: compute.DefaultBaseURL,
			Timeout: compute.DefaultTimeout,
		},
		Sampler: SamplerConfig{
			XMin:                   -10,
			XMax:                   10,
			Resolution:             engine.DefaultResolution,
			DiscontinuityThreshold: engine.DefaultDiscontinuityThreshold,
			Clamp:                  engine.DefaultClamp,
		},
		Output: OutputConfig{
			Format:        FormatPretty,
			PreviewWidth:  800,
			PreviewHeight: 600,
		},
		Publish: PublishConfig{
			Region: "us-east-1",
			Prefix: "mathviz",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Compute.BaseURL == "" {
		return fmt.Errorf("compute.base_url is required")
	}
	if c.Compute.Timeout < 0 {
		return fmt.Errorf("compute.timeout must not be negative")
	}
	if c.Sampler.XMin >= c.Sampler.XMax {
		return fmt.Errorf("sampler.x_min must be less than sampler.x_max")
	}
	if c.Sampler.Resolution < 2 {
		return fmt.Errorf("sampler.resolution must be at least 2")
	}
	if c.Sampler.DiscontinuityThreshold <= 0 {
		return fmt.Errorf("sampler.discontinuity_threshold must be positive")
	}
	if c.Sampler.Clamp <= 0 {
		return fmt.Errorf("sampler.clamp must be positive")
	}
	switch c.Output.Format {
	case FormatJSON, FormatPretty, FormatText, FormatCSV:
	default:
		return fmt.Errorf("output.format must be one of json, pretty, text, csv (got %q)", c.Output.Format)
	}
	if c.Output.PreviewWidth < 100 || c.Output.PreviewHeight < 100 {
		return fmt.Errorf("output preview size must be at least 100x100")
	}
	if c.Publish.Bucket != "" && c.Publish.Region == "" {
		return fmt.Errorf("publish.region is required when publish.bucket is set")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// Binding returns the sampler range as a parameter binding with neutral
// transforms.
func (c *Config) Binding() engine.ParameterBinding {
	b := engine.DefaultBinding()
	b.XMin = c.Sampler.XMin
	b.XMax = c.Sampler.XMax
	return b
}

// SamplerOptions returns the engine options for the sampler section.
func (c *Config) SamplerOptions() []engine.Option {
	return []engine.Option{
		engine.WithDiscontinuityThreshold(c.Sampler.DiscontinuityThreshold),
		engine.WithClamp(c.Sampler.Clamp),
	}
}

// ClientOptions returns the compute client options for the compute section.
func (c *Config) ClientOptions() []compute.Option {
	return []compute.Option{compute.WithTimeout(c.Compute.Timeout)}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error (got %q)", s)
}

// LoadFromFile loads configuration from a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := decodeInto(config, path); err != nil {
		return nil, err
	}
	return config, nil
}

// decodeInto overlays the keys present in the file at path onto config.
func decodeInto(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
