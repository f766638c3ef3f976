// Package config loads elempdf CLI defaults from a YAML file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	elempdf "github.com/porticus-lab/go-element-pdf"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidEngine  = errors.New("invalid engine")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// Engine names.
const (
	EngineChromedp = "chromedp"
	EngineRod      = "rod"
)

// DefaultFile is the config file looked up in the working directory when no
// path is given.
const DefaultFile = "elempdf.yaml"

// Config holds CLI defaults. Flags and environment variables override it.
type Config struct {
	Browser BrowserConfig `yaml:"browser"`
	Page    PageConfig    `yaml:"page"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
}

// BrowserConfig selects and tunes the capture engine.
type BrowserConfig struct {
	Engine       string `yaml:"engine"`       // "chromedp" (default) or "rod"
	ChromePath   string `yaml:"chromePath"`   // empty = search PATH
	NoSandbox    bool   `yaml:"noSandbox"`    // required as root
	AutoDownload bool   `yaml:"autoDownload"` // fetch Chromium when missing
	Timeout      string `yaml:"timeout"`      // page load timeout, e.g. "30s"
}

// PageConfig holds request defaults.
type PageConfig struct {
	Size         string  `yaml:"size"`
	Orientation  string  `yaml:"orientation"`
	WidthOffset  float64 `yaml:"widthOffset"`
	HeightOffset float64 `yaml:"heightOffset"`
}

// OutputConfig controls output naming and fan-out.
type OutputConfig struct {
	DefaultPath bool `yaml:"defaultPath"` // generate output-<millis>.pdf when no path
	Concurrency int  `yaml:"concurrency"` // 0 = GOMAXPROCS
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{Engine: EngineChromedp, Timeout: "30s"},
		Page:    PageConfig{Size: string(elempdf.A4), Orientation: string(elempdf.Portrait)},
		Log:     LogConfig{Level: "warn"},
	}
}

// Load reads the YAML file at path over the defaults. An empty path tries
// [DefaultFile] and silently falls back to the defaults when it is absent.
func Load(path string) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultFile
	}

	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			if optional {
				return cfg, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerations, durations and offsets.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Browser.Engine) {
	case "", EngineChromedp, EngineRod:
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidEngine, c.Browser.Engine, EngineChromedp, EngineRod)
	}
	if _, err := c.LoadTimeout(); err != nil {
		return err
	}
	if _, err := elempdf.ParsePageSize(c.Page.Size); err != nil {
		return err
	}
	if _, err := elempdf.ParseOrientation(c.Page.Orientation); err != nil {
		return err
	}
	for name, v := range map[string]float64{"widthOffset": c.Page.WidthOffset, "heightOffset": c.Page.HeightOffset} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: page.%s %v", elempdf.ErrInvalidOffset, name, v)
		}
	}
	return nil
}

// LoadTimeout parses Browser.Timeout. An empty value means no timeout.
func (c *Config) LoadTimeout() (time.Duration, error) {
	if c.Browser.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Browser.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, c.Browser.Timeout, err)
	}
	return d, nil
}

// EngineOptions translates the browser section into engine options.
func (c *Config) EngineOptions() ([]elempdf.EngineOption, error) {
	timeout, err := c.LoadTimeout()
	if err != nil {
		return nil, err
	}
	opts := []elempdf.EngineOption{elempdf.WithTimeout(timeout)}
	if c.Browser.ChromePath != "" {
		opts = append(opts, elempdf.WithChromePath(c.Browser.ChromePath))
	}
	if c.Browser.NoSandbox {
		opts = append(opts, elempdf.WithNoSandbox())
	}
	if c.Browser.AutoDownload {
		opts = append(opts, elempdf.WithAutoDownload())
	}
	return opts, nil
}
