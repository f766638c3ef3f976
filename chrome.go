package elempdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/png" // decode capture dimensions
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// Compile-time interface checks
var (
	_ Engine = (*ChromeEngine)(nil)
	_ Page   = (*chromePage)(nil)
)

// ChromeEngine loads documents into headless Chrome through the Chrome
// DevTools Protocol.
//
// A ChromeEngine manages a browser instance that is reused across pages.
// It is safe for concurrent use. Call [ChromeEngine.Close] when it is no
// longer needed to release browser resources.
type ChromeEngine struct {
	cfg           engineConfig
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewChromeEngine starts a headless browser with the given options.
func NewChromeEngine(opts ...EngineOption) (*ChromeEngine, error) {
	cfg := defaultEngineConfig()
	for _, o := range opts {
		o(&cfg)
	}

	exe, err := cfg.executable()
	if err != nil {
		return nil, err
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("headless", cfg.headless),
	)
	if exe != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(exe))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("elempdf: starting browser: %w", err)
	}
	cfg.logger.WithField("exec", exe).Debug("chrome started")

	return &ChromeEngine{
		cfg:           cfg,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close releases all resources held by the engine, including the browser
// process and every page it opened. Close is idempotent.
func (e *ChromeEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.browserCancel()
	e.allocCancel()
	return nil
}

// Open loads src into a new browser tab and waits for its body to be ready.
// The caller must close the returned page.
func (e *ChromeEngine) Open(ctx context.Context, src Source) (Page, error) {
	if err := e.checkClosed(); err != nil {
		return nil, err
	}

	target, cleanup, err := src.location()
	if err != nil {
		return nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(e.browserCtx)
	// Allocate the tab's target before binding actions to the caller's ctx.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		cleanup()
		return nil, fmt.Errorf("elempdf: opening tab: %w", err)
	}

	p := &chromePage{tabCtx: tabCtx, cancel: tabCancel, cleanup: cleanup, log: e.cfg.logger}

	loadCtx := ctx
	if e.cfg.timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, e.cfg.timeout)
		defer cancel()
	}
	if err := p.run(loadCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		p.Close()
		return nil, fmt.Errorf("elempdf: loading %s: %w", src, err)
	}
	e.cfg.logger.WithField("source", src.String()).Debug("page loaded")
	return p, nil
}

func (e *ChromeEngine) checkClosed() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return nil
}

// chromePage is one browser tab holding a loaded document.
type chromePage struct {
	tabCtx  context.Context
	cancel  context.CancelFunc
	cleanup func()
	log     logrus.FieldLogger

	// capture serializes background overrides on the shared tab.
	capture sync.Mutex
	once    sync.Once
}

// run executes actions against the tab while honouring ctx for
// cancellation and deadlines.
func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	if p.tabCtx.Err() != nil {
		return ErrClosed
	}
	c := chromedp.FromContext(p.tabCtx)
	if c == nil || c.Target == nil {
		return ErrClosed
	}
	return chromedp.Tasks(actions).Do(cdp.WithExecutor(ctx, c.Target))
}

// ElementByID implements [Document].
func (p *chromePage) ElementByID(ctx context.Context, id string) (Element, error) {
	arg, err := json.Marshal(id)
	if err != nil {
		return Element{}, fmt.Errorf("elempdf: encoding id: %w", err)
	}
	var box elementBox
	expr := "(" + elementBoxJS + ")(" + string(arg) + ")"
	if err := p.run(ctx, chromedp.Evaluate(expr, &box)); err != nil {
		return Element{}, fmt.Errorf("elempdf: locating element: %w", err)
	}
	return box.element(id)
}

// Rasterize implements [Rasterizer] with a clipped screenshot of the page.
func (p *chromePage) Rasterize(ctx context.Context, el Element, opts RasterOptions) (*CapturedImage, error) {
	bg, err := parseHexColor(opts.BackgroundColor)
	if err != nil {
		return nil, err
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	p.capture.Lock()
	defer p.capture.Unlock()

	if err := p.run(ctx, emulation.SetDefaultBackgroundColorOverride().WithColor(&cdp.RGBA{
		R: int64(bg.R), G: int64(bg.G), B: int64(bg.B), A: 1,
	})); err != nil {
		return nil, fmt.Errorf("elempdf: setting background: %w", err)
	}
	defer func() {
		_ = p.run(context.WithoutCancel(ctx), emulation.SetDefaultBackgroundColorOverride())
	}()

	var buf []byte
	if err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithCaptureBeyondViewport(true).
			WithFromSurface(true).
			WithClip(&page.Viewport{
				X:      el.X,
				Y:      el.Y,
				Width:  opts.Width,
				Height: opts.Height,
				Scale:  scale,
			}).
			Do(ctx)
		return err
	})); err != nil {
		return nil, fmt.Errorf("elempdf: capturing element %q: %w", el.ID, err)
	}

	img, err := decodeCapture(buf)
	if err != nil {
		return nil, err
	}
	if opts.Logging {
		p.log.WithFields(logrus.Fields{
			"element": el.ID,
			"width":   img.Width,
			"height":  img.Height,
		}).Debug("element captured")
	}
	return img, nil
}

// Close closes the tab and removes any temporary source file.
func (p *chromePage) Close() error {
	p.once.Do(func() {
		p.cancel()
		p.cleanup()
	})
	return nil
}

// decodeCapture reads the pixel size of a PNG screenshot.
func decodeCapture(buf []byte) (*CapturedImage, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("elempdf: decoding capture: %w", err)
	}
	return &CapturedImage{Data: buf, Format: "PNG", Width: cfg.Width, Height: cfg.Height}, nil
}
