package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/mathviz/compute"
	"github.com/spektr-org/mathviz/engine"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, compute.DefaultBaseURL, cfg.Compute.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Compute.Timeout)
	assert.Nil(t, cfg.Compute.UseAI)
	assert.Equal(t, -10.0, cfg.Sampler.XMin)
	assert.Equal(t, 10.0, cfg.Sampler.XMax)
	assert.Equal(t, engine.DefaultResolution, cfg.Sampler.Resolution)
	assert.Equal(t, FormatPretty, cfg.Output.Format)
	assert.Empty(t, cfg.Publish.Bucket)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid default config", func(c *Config) {}, false},
		{"missing base url", func(c *Config) { c.Compute.BaseURL = "" }, true},
		{"negative timeout", func(c *Config) { c.Compute.Timeout = -time.Second }, true},
		{"zero timeout disables bound", func(c *Config) { c.Compute.Timeout = 0 }, false},
		{"empty range", func(c *Config) { c.Sampler.XMin = 5; c.Sampler.XMax = 5 }, true},
		{"resolution too small", func(c *Config) { c.Sampler.Resolution = 1 }, true},
		{"zero threshold", func(c *Config) { c.Sampler.DiscontinuityThreshold = 0 }, true},
		{"negative clamp", func(c *Config) { c.Sampler.Clamp = -1 }, true},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, true},
		{"csv format", func(c *Config) { c.Output.Format = FormatCSV }, false},
		{"tiny preview", func(c *Config) { c.Output.PreviewWidth = 10 }, true},
		{"bucket without region", func(c *Config) { c.Publish.Bucket = "b"; c.Publish.Region = "" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"warn level", func(c *Config) { c.Log.Level = "WARN" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
compute:
  base_url: "http://compute:9000/mathcompute"
  timeout: 5s
  use_ai: false
sampler:
  x_min: -3.14
  x_max: 3.14
  resolution: 500
output:
  format: csv
publish:
  bucket: plots
log:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://compute:9000/mathcompute", cfg.Compute.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Compute.Timeout)
	require.NotNil(t, cfg.Compute.UseAI)
	assert.False(t, *cfg.Compute.UseAI)
	assert.Equal(t, -3.14, cfg.Sampler.XMin)
	assert.Equal(t, 500, cfg.Sampler.Resolution)
	assert.Equal(t, engine.DefaultDiscontinuityThreshold, cfg.Sampler.DiscontinuityThreshold)
	assert.Equal(t, FormatCSV, cfg.Output.Format)
	assert.Equal(t, 800, cfg.Output.PreviewWidth)
	assert.Equal(t, "plots", cfg.Publish.Bucket)
	assert.Equal(t, "us-east-1", cfg.Publish.Region)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	b := cfg.Binding()
	assert.Equal(t, -3.14, b.XMin)
	assert.Equal(t, 1.0, b.Amplitude)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("sampler: [1, 2"), 0644))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)
}

func TestSaveToFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	cfg := DefaultConfig()
	cfg.Sampler.Resolution = 101
	cfg.Publish.Bucket = "artifacts"

	require.NoError(t, cfg.SaveToFile(path))
	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoaderPrecedence(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	work := filepath.Join(project, "sub", "dir")
	require.NoError(t, os.MkdirAll(work, 0755))

	userPath := filepath.Join(home, UserConfigDir, UserConfigFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0755))
	require.NoError(t, os.WriteFile(userPath, []byte(`
compute:
  base_url: http://user
sampler:
  resolution: 300
log:
  level: warn
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(project, ProjectConfigFile), []byte(`
sampler:
  resolution: 400
output:
  format: text
`), 0644))
	explicit := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte(`
output:
  format: json
`), 0644))

	loader := NewLoader(nil, WithHomeDir(home), WithWorkDir(work))

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://user", cfg.Compute.BaseURL)
	assert.Equal(t, 400, cfg.Sampler.Resolution)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())

	cfg, err = loader.Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, 400, cfg.Sampler.Resolution)
}

func TestLoaderErrors(t *testing.T) {
	loader := NewLoader(nil, WithHomeDir(t.TempDir()), WithWorkDir(t.TempDir()))

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = loader.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("sampler:\n  resolution: 1\n"), 0644))
	_, err = loader.Load(invalid)
	assert.ErrorContains(t, err, "sampler.resolution")
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	loader := NewLoader(nil, WithHomeDir(home), WithWorkDir(t.TempDir()))

	path, err := loader.EnsureUserConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, UserConfigDir, UserConfigFile), path)
	assert.FileExists(t, path)

	again, err := loader.EnsureUserConfig()
	require.NoError(t, err)
	assert.Equal(t, path, again)
}
