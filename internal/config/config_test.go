package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "elempdf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
browser:
  engine: rod
  chromePath: /usr/bin/chromium
  noSandbox: true
  timeout: 45s
page:
  size: Letter
  orientation: landscape
  widthOffset: 20
  heightOffset: 10
output:
  defaultPath: true
  concurrency: 2
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EngineRod, cfg.Browser.Engine)
	assert.Equal(t, "/usr/bin/chromium", cfg.Browser.ChromePath)
	assert.True(t, cfg.Browser.NoSandbox)
	assert.Equal(t, "Letter", cfg.Page.Size)
	assert.Equal(t, "landscape", cfg.Page.Orientation)
	assert.Equal(t, 20.0, cfg.Page.WidthOffset)
	assert.Equal(t, 10.0, cfg.Page.HeightOffset)
	assert.True(t, cfg.Output.DefaultPath)
	assert.Equal(t, 2, cfg.Output.Concurrency)
	assert.Equal(t, "debug", cfg.Log.Level)

	d, err := cfg.LoadTimeout()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "page:\n  size: A3\n"))
	require.NoError(t, err)

	assert.Equal(t, "A3", cfg.Page.Size)
	assert.Equal(t, "portrait", cfg.Page.Orientation)
	assert.Equal(t, EngineChromedp, cfg.Browser.Engine)
	assert.Equal(t, "30s", cfg.Browser.Timeout)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicit(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, "page:\n  colour: red\n"))
	assert.ErrorIs(t, err, ErrConfigParse)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bad engine", func(c *Config) { c.Browser.Engine = "webkit" }, false},
		{"bad timeout", func(c *Config) { c.Browser.Timeout = "soon" }, false},
		{"bad size", func(c *Config) { c.Page.Size = "B5" }, false},
		{"bad orientation", func(c *Config) { c.Page.Orientation = "diagonal" }, false},
		{"empty timeout", func(c *Config) { c.Browser.Timeout = "" }, true},
		{"NaN width offset", func(c *Config) { c.Page.WidthOffset = math.NaN() }, false},
		{"infinite height offset", func(c *Config) { c.Page.HeightOffset = math.Inf(1) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestEngineOptions(t *testing.T) {
	c := Default()
	c.Browser.ChromePath = "/opt/chrome"
	c.Browser.NoSandbox = true
	c.Browser.AutoDownload = true

	opts, err := c.EngineOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	c.Browser.Timeout = "never"
	_, err = c.EngineOptions()
	assert.ErrorIs(t, err, ErrInvalidTimeout)
}
