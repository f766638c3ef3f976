package elempdf

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Element is a located DOM element. X and Y are document coordinates in CSS
// pixels, Width and Height its rendered offset size.
type Element struct {
	ID     string
	X, Y   float64
	Width  float64
	Height float64
}

// Document gives access to the elements of a loaded page.
type Document interface {
	// ElementByID returns the element with the given id, or an error
	// wrapping [ErrElementNotFound] when there is none.
	ElementByID(ctx context.Context, id string) (Element, error)
}

// RasterOptions controls a single capture.
type RasterOptions struct {
	// Scale is the device-pixel oversampling factor.
	Scale float64
	// BackgroundColor fills transparent regions, as "#rrggbb".
	BackgroundColor string
	// Width and Height are the capture size in CSS pixels.
	Width, Height float64
	// AllowCrossOrigin and AllowTaint permit cross-origin images in the
	// capture. Browser-backed rasterizers read composited pixels, which are
	// never tainted, so they accept both unconditionally.
	AllowCrossOrigin bool
	AllowTaint       bool
	// Logging asks the rasterizer to log its own progress.
	Logging bool
}

// CapturedImage is the encoded output of a capture. Width and Height are in
// device pixels.
type CapturedImage struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// Rasterizer renders an element into an image.
type Rasterizer interface {
	Rasterize(ctx context.Context, el Element, opts RasterOptions) (*CapturedImage, error)
}

// Page is a loaded document that can also rasterize its own elements.
type Page interface {
	Document
	Rasterizer
	Close() error
}

// Engine loads sources into pages backed by a browser.
type Engine interface {
	Open(ctx context.Context, src Source) (Page, error)
	Close() error
}

// captureOptions are the fixed rasterizer settings for a conversion.
func captureOptions(width, height float64) RasterOptions {
	return RasterOptions{
		Scale:            2,
		BackgroundColor:  "#ffffff",
		Width:            width,
		Height:           height,
		AllowCrossOrigin: true,
		AllowTaint:       true,
		Logging:          true,
	}
}

// parseHexColor parses "#rgb" or "#rrggbb". An empty string is white.
func parseHexColor(s string) (color.RGBA, error) {
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 0:
		return white, nil
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return color.RGBA{}, fmt.Errorf("elempdf: invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("elempdf: invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// elementBoxJS evaluates to a box for the element whose id is the single
// argument. It always returns an object so that drivers never see null.
const elementBoxJS = `(id) => {
	const el = document.getElementById(id);
	if (!el) return {found: false};
	const r = el.getBoundingClientRect();
	return {
		found: true,
		x: r.left + window.scrollX,
		y: r.top + window.scrollY,
		width: el.offsetWidth,
		height: el.offsetHeight
	};
}`

// elementBox is the decoded result of elementBoxJS.
type elementBox struct {
	Found  bool    `json:"found"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b elementBox) element(id string) (Element, error) {
	if !b.Found {
		return Element{}, fmt.Errorf("%w: %q", ErrElementNotFound, id)
	}
	return Element{ID: id, X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}, nil
}

var errEmptyCapture = errors.New("elempdf: captured image is empty")
