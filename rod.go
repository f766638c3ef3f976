package elempdf

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// Compile-time interface checks
var (
	_ Engine = (*RodEngine)(nil)
	_ Page   = (*rodPage)(nil)
)

// RodEngine loads documents into a browser driven by go-rod. It offers the
// same pages as [ChromeEngine] and is safe for concurrent use.
type RodEngine struct {
	cfg      engineConfig
	launcher *launcher.Launcher
	browser  *rod.Browser

	mu     sync.Mutex
	closed bool
}

// NewRodEngine launches a browser with the given options and connects to it.
func NewRodEngine(opts ...EngineOption) (*RodEngine, error) {
	cfg := defaultEngineConfig()
	for _, o := range opts {
		o(&cfg)
	}

	exe, err := cfg.executable()
	if err != nil {
		return nil, err
	}

	l := launcher.New().Headless(true).NoSandbox(cfg.noSandbox).Set("hide-scrollbars")
	if exe != "" {
		l = l.Bin(exe)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("elempdf: starting browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("elempdf: connecting to browser: %w", err)
	}
	cfg.logger.WithField("control_url", u).Debug("rod browser connected")

	return &RodEngine{cfg: cfg, launcher: l, browser: browser}, nil
}

// Close shuts the browser down. Close is idempotent.
func (e *RodEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	err := e.browser.Close()
	e.launcher.Kill()
	e.launcher.Cleanup()
	return err
}

// Open loads src into a new page and waits for the load event.
// The caller must close the returned page.
func (e *RodEngine) Open(ctx context.Context, src Source) (Page, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	target, cleanup, err := src.location()
	if err != nil {
		return nil, err
	}

	pg, err := e.browser.Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("elempdf: opening page: %w", err)
	}
	p := &rodPage{page: pg, cleanup: cleanup, log: e.cfg.logger}

	loadCtx := ctx
	if e.cfg.timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, e.cfg.timeout)
		defer cancel()
	}
	if err := pg.Context(loadCtx).WaitLoad(); err != nil {
		p.Close()
		return nil, fmt.Errorf("elempdf: loading %s: %w", src, err)
	}
	e.cfg.logger.WithField("source", src.String()).Debug("page loaded")
	return p, nil
}

// rodPage is one rod page holding a loaded document.
type rodPage struct {
	page    *rod.Page
	cleanup func()
	log     logrus.FieldLogger

	capture sync.Mutex
	once    sync.Once
	closed  bool
}

// ElementByID implements [Document].
func (p *rodPage) ElementByID(ctx context.Context, id string) (Element, error) {
	if p.isClosed() {
		return Element{}, ErrClosed
	}
	obj, err := p.page.Context(ctx).Eval(elementBoxJS, id)
	if err != nil {
		return Element{}, fmt.Errorf("elempdf: locating element: %w", err)
	}
	raw, err := obj.Value.MarshalJSON()
	if err != nil {
		return Element{}, fmt.Errorf("elempdf: locating element: %w", err)
	}
	var box elementBox
	if err := json.Unmarshal(raw, &box); err != nil {
		return Element{}, fmt.Errorf("elempdf: decoding element box: %w", err)
	}
	return box.element(id)
}

// Rasterize implements [Rasterizer] with a clipped screenshot of the page.
func (p *rodPage) Rasterize(ctx context.Context, el Element, opts RasterOptions) (*CapturedImage, error) {
	if p.isClosed() {
		return nil, ErrClosed
	}
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

	pg := p.page.Context(ctx)
	alpha := 1.0
	err = proto.EmulationSetDefaultBackgroundColorOverride{
		Color: &proto.DOMRGBA{R: int(bg.R), G: int(bg.G), B: int(bg.B), A: &alpha},
	}.Call(pg)
	if err != nil {
		return nil, fmt.Errorf("elempdf: setting background: %w", err)
	}
	defer func() {
		_ = proto.EmulationSetDefaultBackgroundColorOverride{}.Call(p.page.Context(context.WithoutCancel(ctx)))
	}()

	buf, err := pg.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:                proto.PageCaptureScreenshotFormatPng,
		FromSurface:           true,
		CaptureBeyondViewport: true,
		Clip: &proto.PageViewport{
			X:      el.X,
			Y:      el.Y,
			Width:  opts.Width,
			Height: opts.Height,
			Scale:  scale,
		},
	})
	if err != nil {
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

// Close closes the page and removes any temporary source file.
func (p *rodPage) Close() error {
	var err error
	p.once.Do(func() {
		p.capture.Lock()
		p.closed = true
		p.capture.Unlock()
		err = p.page.Close()
		p.cleanup()
	})
	return err
}

func (p *rodPage) isClosed() bool {
	p.capture.Lock()
	defer p.capture.Unlock()
	return p.closed
}

// resolveBrowser downloads a compatible Chromium binary if one is not
// already cached and returns the path to the executable. The binary is
// stored in ~/.cache/rod/browser (Unix) or %APPDATA%\rod\browser (Windows).
func resolveBrowser() (string, error) {
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("elempdf: downloading browser: %w", err)
	}
	return path, nil
}
