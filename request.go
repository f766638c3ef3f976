package elempdf

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Request describes one element-to-PDF conversion. Zero-value fields use
// their documented defaults.
type Request struct {
	// ElementID is the id attribute of the element to capture. Required.
	ElementID string `json:"id" yaml:"id"`

	// OutputPath is where the PDF is saved. Required unless the Converter
	// was built with [WithDefaultOutputPath].
	OutputPath string `json:"outputPath" yaml:"outputPath"`

	// PageSize defaults to A4.
	PageSize PageSize `json:"pageSize,omitempty" yaml:"pageSize,omitempty"`

	// Orientation defaults to Portrait.
	Orientation Orientation `json:"orientation,omitempty" yaml:"orientation,omitempty"`

	// WidthOffset grows the capture width and is subtracted from the page
	// width when sizing the image.
	WidthOffset float64 `json:"widthOffset,omitempty" yaml:"widthOffset,omitempty"`

	// HeightOffset grows the capture height only. The embedded image height
	// is derived from the page width and the capture's aspect ratio, so this
	// offset does not shrink it.
	HeightOffset float64 `json:"heightOffset,omitempty" yaml:"heightOffset,omitempty"`
}

// resolved returns a copy of r with defaults applied. A blank output path is
// named by defaultPath, or rejected when defaultPath is nil. It reports the
// first validation failure.
func (r Request) resolved(defaultPath func() string) (Request, error) {
	if strings.TrimSpace(r.ElementID) == "" {
		return r, ErrElementIDRequired
	}
	if strings.TrimSpace(r.OutputPath) == "" {
		if defaultPath == nil {
			return r, ErrOutputPathRequired
		}
		r.OutputPath = defaultPath()
	}
	if r.PageSize == "" {
		r.PageSize = A4
	}
	if !r.PageSize.Valid() {
		size, err := ParsePageSize(string(r.PageSize))
		if err != nil {
			return r, err
		}
		r.PageSize = size
	}
	if r.Orientation == "" {
		r.Orientation = Portrait
	}
	if !r.Orientation.Valid() {
		o, err := ParseOrientation(string(r.Orientation))
		if err != nil {
			return r, err
		}
		r.Orientation = o
	}
	if !finite(r.WidthOffset) {
		return r, fmt.Errorf("%w: width offset %v", ErrInvalidOffset, r.WidthOffset)
	}
	if !finite(r.HeightOffset) {
		return r, fmt.Errorf("%w: height offset %v", ErrInvalidOffset, r.HeightOffset)
	}
	return r, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// defaultOutputPath builds "output-<unix millis>.pdf" for the first name a
// Converter hands out and "output-<unix millis>-<seq>.pdf" after that, so
// names generated within the same millisecond stay distinct.
func defaultOutputPath(t time.Time, seq uint64) string {
	if seq <= 1 {
		return fmt.Sprintf("output-%d.pdf", t.UnixMilli())
	}
	return fmt.Sprintf("output-%d-%d.pdf", t.UnixMilli(), seq)
}
