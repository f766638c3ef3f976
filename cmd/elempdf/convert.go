package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	elempdf "github.com/porticus-lab/go-element-pdf"
	"github.com/porticus-lab/go-element-pdf/internal/config"
)

var errSourceConflict = errors.New("--file and --url are mutually exclusive")

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "capture one or more elements into PDF files",
		ArgsUsage: " ",
		Description: `Loads HTML from --file, --url or stdin and saves each --id as a PDF.
With several ids the output name gets a "-<id>" suffix.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "id", Usage: "element id to capture (repeatable)", Required: true},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "local HTML file"},
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "page URL"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output PDF path"},
			&cli.StringFlag{Name: "page-size", Usage: "A4, A3, Letter or Legal"},
			&cli.StringFlag{Name: "orientation", Usage: "portrait or landscape"},
			&cli.Float64Flag{Name: "width-offset", Usage: "added to the capture width, removed from the image width (pt)"},
			&cli.Float64Flag{Name: "height-offset", Usage: "added to the capture height"},
			&cli.BoolFlag{Name: "default-output", Usage: "name missing outputs output-<millis>.pdf"},
			&cli.IntFlag{Name: "concurrency", Usage: "parallel conversions (0 = GOMAXPROCS)"},
			&cli.StringFlag{Name: "engine", Usage: "chromedp or rod", EnvVars: []string{"ELEMPDF_ENGINE"}},
			&cli.StringFlag{Name: "chrome-path", Usage: "Chrome/Chromium executable", EnvVars: []string{"ELEMPDF_CHROME_PATH", "ROD_BROWSER_BIN"}},
			&cli.BoolFlag{Name: "no-sandbox", Usage: "disable the Chrome sandbox", EnvVars: []string{"ELEMPDF_NO_SANDBOX"}},
			&cli.BoolFlag{Name: "auto-download", Usage: "download Chromium when none is found"},
			&cli.StringFlag{Name: "timeout", Usage: "page load timeout, e.g. 30s"},
			&cli.BoolFlag{Name: "json", Usage: "print results as JSON"},
		},
		Action: runConvert,
	}
}

// convertParams is everything runConvert needs, resolved from config and flags.
type convertParams struct {
	ids         []string
	source      elempdf.Source
	output      string
	page        config.PageConfig
	defaultPath bool
	concurrency int
}

// applyFlags overlays the flags that were set onto cfg.
func applyFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("engine") {
		cfg.Browser.Engine = c.String("engine")
	}
	if c.IsSet("chrome-path") {
		cfg.Browser.ChromePath = c.String("chrome-path")
	}
	if c.IsSet("no-sandbox") {
		cfg.Browser.NoSandbox = c.Bool("no-sandbox")
	}
	if c.IsSet("auto-download") {
		cfg.Browser.AutoDownload = c.Bool("auto-download")
	}
	if c.IsSet("timeout") {
		cfg.Browser.Timeout = c.String("timeout")
	}
	if c.IsSet("page-size") {
		cfg.Page.Size = c.String("page-size")
	}
	if c.IsSet("orientation") {
		cfg.Page.Orientation = c.String("orientation")
	}
	if c.IsSet("width-offset") {
		cfg.Page.WidthOffset = c.Float64("width-offset")
	}
	if c.IsSet("height-offset") {
		cfg.Page.HeightOffset = c.Float64("height-offset")
	}
	if c.IsSet("default-output") {
		cfg.Output.DefaultPath = c.Bool("default-output")
	}
	if c.IsSet("concurrency") {
		cfg.Output.Concurrency = c.Int("concurrency")
	}
	return cfg.Validate()
}

func resolveSource(file, rawURL string, stdin io.Reader) (elempdf.Source, error) {
	switch {
	case file != "" && rawURL != "":
		return elempdf.Source{}, errSourceConflict
	case file != "":
		return elempdf.File(file), nil
	case rawURL != "":
		return elempdf.URL(rawURL), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return elempdf.Source{}, fmt.Errorf("reading stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return elempdf.Source{}, errors.New("no input: use --file, --url or pipe HTML on stdin")
	}
	return elempdf.HTML(string(data)), nil
}

// outputPathFor returns the output for id. A single id uses output as is;
// several ids get "-<id>" inserted before the extension.
func outputPathFor(output, id string, multi bool) string {
	if output == "" || !multi {
		return output
	}
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "-" + id + ext
}

// buildRequests turns resolved params into one request per id.
func buildRequests(p convertParams) []elempdf.Request {
	multi := len(p.ids) > 1
	reqs := make([]elempdf.Request, 0, len(p.ids))
	for _, id := range p.ids {
		reqs = append(reqs, elempdf.Request{
			ElementID:    id,
			OutputPath:   outputPathFor(p.output, id, multi),
			PageSize:     elempdf.PageSize(p.page.Size),
			Orientation:  elempdf.Orientation(p.page.Orientation),
			WidthOffset:  p.page.WidthOffset,
			HeightOffset: p.page.HeightOffset,
		})
	}
	return reqs
}

func newEngine(cfg *config.Config, opts []elempdf.EngineOption) (elempdf.Engine, error) {
	if strings.EqualFold(cfg.Browser.Engine, config.EngineRod) {
		return elempdf.NewRodEngine(opts...)
	}
	return elempdf.NewChromeEngine(opts...)
}

func runConvert(c *cli.Context) error {
	cfg := appConfig(c)
	logger := appLogger(c)
	if err := applyFlags(c, cfg); err != nil {
		return err
	}

	src, err := resolveSource(c.String("file"), c.String("url"), c.App.Reader)
	if err != nil {
		return err
	}
	params := convertParams{
		ids:         c.StringSlice("id"),
		source:      src,
		output:      c.String("output"),
		page:        cfg.Page,
		defaultPath: cfg.Output.DefaultPath,
		concurrency: cfg.Output.Concurrency,
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}
	opts = append(opts, elempdf.WithEngineLogger(logger))

	eng, err := newEngine(cfg, opts)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	page, err := eng.Open(ctx, params.source)
	if err != nil {
		return err
	}
	defer page.Close()

	convOpts := []elempdf.Option{elempdf.WithLogger(logger), elempdf.WithConcurrency(params.concurrency)}
	if params.defaultPath {
		convOpts = append(convOpts, elempdf.WithDefaultOutputPath())
	}
	conv := elempdf.NewPageConverter(page, convOpts...)

	reqs := buildRequests(params)
	results := conv.ConvertAll(ctx, reqs)

	if err := printResults(c.App.Writer, reqs, results, c.Bool("json")); err != nil {
		return err
	}
	for _, r := range results {
		if !r.Success {
			return cli.Exit("", 1)
		}
	}
	return nil
}

type resultLine struct {
	ID string `json:"id"`
	elempdf.Result
}

func printResults(w io.Writer, reqs []elempdf.Request, results []elempdf.Result, asJSON bool) error {
	if asJSON {
		lines := make([]resultLine, len(results))
		for i, r := range results {
			lines[i] = resultLine{ID: reqs[i].ElementID, Result: r}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lines)
	}

	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	for i, r := range results {
		if r.Success {
			ok.Fprintf(w, "✓ %s → %s\n", reqs[i].ElementID, r.OutputPath)
			continue
		}
		bad.Fprintf(w, "✗ %s: %s\n", reqs[i].ElementID, r.Error)
	}
	return nil
}
