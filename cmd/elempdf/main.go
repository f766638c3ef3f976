// elempdf captures an element of an HTML page into a one-page PDF.
//
// Usage:
//
//	elempdf convert --id chart --file report.html -o chart.pdf
//	elempdf convert --id a --id b --url https://example.com -o page.pdf
//	elempdf inspect chart.pdf
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/porticus-lab/go-element-pdf/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the CLI with explicit streams so tests can drive it.
func newApp(in io.Reader, out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "elempdf",
		Usage:     "capture an HTML element into a PDF",
		Version:   Version,
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML config file (default: ./" + config.DefaultFile + " when present)",
				EnvVars: []string{"ELEMPDF_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"ELEMPDF_LOG_LEVEL", "LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			level := cfg.Log.Level
			if c.IsSet("log-level") {
				level = c.String("log-level")
			}
			logger := newLogger(errOut, level)

			// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS
			// env, in which case the runtime default applies.
			_, _ = maxprocs.Set(maxprocs.Logger(logger.Debugf))

			c.App.Metadata = map[string]interface{}{
				metaConfig: cfg,
				metaLogger: logger,
			}
			return nil
		},
		Commands: []*cli.Command{
			convertCommand(),
			inspectCommand(),
		},
	}
}

const (
	metaConfig = "config"
	metaLogger = "logger"
)

func appConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

func appLogger(c *cli.Context) *logrus.Logger {
	if l, ok := c.App.Metadata[metaLogger].(*logrus.Logger); ok {
		return l
	}
	return newLogger(c.App.ErrWriter, "warn")
}

// newLogger returns a text logger on w. Unknown levels fall back to warn.
func newLogger(w io.Writer, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.WarnLevel
	}
	l.SetLevel(lvl)
	return l
}
