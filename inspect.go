package elempdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageInfo holds the media box size of one page in points.
type PageInfo struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Landscape reports whether the page is wider than it is tall.
func (p PageInfo) Landscape() bool { return p.Width > p.Height }

// Info describes a PDF file on disk.
type Info struct {
	Path  string     `json:"path"`
	Size  int64      `json:"size"`
	Pages []PageInfo `json:"pages"`
}

// Inspect reads the page geometry of the PDF at path.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("elempdf: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("elempdf: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	dims, err := api.PageDims(f, conf)
	if err != nil {
		return nil, fmt.Errorf("elempdf: reading page dimensions of %s: %w", path, err)
	}

	info := &Info{Path: path, Size: st.Size(), Pages: make([]PageInfo, len(dims))}
	for i, d := range dims {
		info.Pages[i] = PageInfo{Width: d.Width, Height: d.Height}
	}
	return info, nil
}
