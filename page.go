package elempdf

import (
	"fmt"
	"strings"
)

// PageSize names a supported paper format.
type PageSize string

// Supported paper formats.
const (
	A4     PageSize = "A4"
	A3     PageSize = "A3"
	Letter PageSize = "Letter"
	Legal  PageSize = "Legal"
)

// Orientation represents the page orientation.
type Orientation string

const (
	// Portrait is the default vertical orientation.
	Portrait Orientation = "portrait"
	// Landscape rotates the page to horizontal orientation.
	Landscape Orientation = "landscape"
)

// paperPoints holds portrait paper dimensions in PDF points (1/72 inch),
// rounded the way PDF writers emit them.
var paperPoints = map[PageSize][2]float64{
	A3:     {841.89, 1190.55},
	A4:     {595.28, 841.89},
	Letter: {612, 792},
	Legal:  {612, 1008},
}

// ParsePageSize maps a case-insensitive name to a PageSize.
// An empty name yields the default, A4.
func ParsePageSize(s string) (PageSize, error) {
	if strings.TrimSpace(s) == "" {
		return A4, nil
	}
	for size := range paperPoints {
		if strings.EqualFold(string(size), strings.TrimSpace(s)) {
			return size, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPageSize, s)
}

// ParseOrientation maps a case-insensitive name to an Orientation.
// An empty name yields the default, Portrait.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Portrait):
		return Portrait, nil
	case string(Landscape):
		return Landscape, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrientation, s)
}

// Valid reports whether p is one of the supported formats.
func (p PageSize) Valid() bool {
	_, ok := paperPoints[p]
	return ok
}

// Valid reports whether o is Portrait or Landscape.
func (o Orientation) Valid() bool {
	return o == Portrait || o == Landscape
}

// Points returns the paper width and height in points,
// accounting for orientation.
func (p PageSize) Points(o Orientation) (width, height float64) {
	d, ok := paperPoints[p]
	if !ok {
		d = paperPoints[A4]
	}
	if o == Landscape {
		return d[1], d[0]
	}
	return d[0], d[1]
}

// captureSize returns the size requested from the rasterizer: the element's
// rendered size grown by the request offsets.
func captureSize(el Element, widthOffset, heightOffset float64) (width, height float64) {
	return el.Width + widthOffset, el.Height + heightOffset
}

// placement returns the size at which a captured image is drawn on the page.
// The image fills the page width less widthOffset and keeps its aspect ratio.
// The height offset only grows the capture and is not subtracted here.
func placement(pageWidth, widthOffset float64, capturedWidth, capturedHeight int) (width, height float64) {
	width = pageWidth - widthOffset
	height = float64(capturedHeight) * width / float64(capturedWidth)
	return width, height
}
