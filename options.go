package elempdf

import (
	"io"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// converterConfig holds internal configuration for a Converter.
type converterConfig struct {
	logger      logrus.FieldLogger
	defaultPath bool
	now         func() time.Time
	timeout     time.Duration
	concurrency int
}

func defaultConverterConfig() converterConfig {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return converterConfig{
		logger:      discard,
		now:         time.Now,
		concurrency: runtime.GOMAXPROCS(0),
	}
}

// Option configures a [Converter].
type Option func(*converterConfig)

// WithLogger sets the logger used for per-step diagnostics.
// By default nothing is logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *converterConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaultOutputPath makes a blank Request.OutputPath resolve to
// "output-<unix millis>.pdf" instead of failing validation. Later names from
// the same Converter carry a "-<n>" sequence suffix.
func WithDefaultOutputPath() Option {
	return func(c *converterConfig) {
		c.defaultPath = true
	}
}

// WithClock overrides the clock used to name default output files.
func WithClock(now func() time.Time) Option {
	return func(c *converterConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithConversionTimeout bounds each conversion. A zero or negative value,
// the default, leaves conversions unbounded.
func WithConversionTimeout(d time.Duration) Option {
	return func(c *converterConfig) {
		c.timeout = d
	}
}

// WithConcurrency limits how many conversions [Converter.ConvertAll] runs
// at once. Defaults to GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(c *converterConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// engineConfig holds internal configuration shared by the browser engines.
type engineConfig struct {
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	headless     string
	autoDownload bool
	logger       logrus.FieldLogger
}

func defaultEngineConfig() engineConfig {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return engineConfig{
		timeout:  30 * time.Second,
		headless: "new",
		logger:   discard,
	}
}

// EngineOption configures a [ChromeEngine] or [RodEngine].
type EngineOption func(*engineConfig)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the library searches standard locations automatically.
func WithChromePath(path string) EngineOption {
	return func(c *engineConfig) {
		c.chromePath = path
	}
}

// WithTimeout sets the maximum duration for loading a source.
// Defaults to 30 seconds. A zero or negative value disables the timeout.
func WithTimeout(d time.Duration) EngineOption {
	return func(c *engineConfig) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() EngineOption {
	return func(c *engineConfig) {
		c.noSandbox = true
	}
}

// WithAutoDownload fetches a compatible Chromium when no executable path
// is configured. The download is cached by the rod launcher.
func WithAutoDownload() EngineOption {
	return func(c *engineConfig) {
		c.autoDownload = true
	}
}

// WithEngineLogger sets the logger for browser lifecycle and capture events.
func WithEngineLogger(l logrus.FieldLogger) EngineOption {
	return func(c *engineConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// executable resolves the browser binary, downloading one when enabled and
// no explicit path is set. An empty result means "search PATH".
func (c *engineConfig) executable() (string, error) {
	if c.chromePath != "" || !c.autoDownload {
		return c.chromePath, nil
	}
	return resolveBrowser()
}
