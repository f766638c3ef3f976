package elempdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

// WriterConfig is the page geometry a [DocumentWriter] is built with.
type WriterConfig struct {
	Orientation Orientation
	// Unit is the measurement unit of every coordinate passed to the
	// writer. The Converter always uses "pt".
	Unit     string
	PageSize PageSize
}

// DocumentWriter assembles a one-page document around an embedded image.
type DocumentWriter interface {
	PageWidth() float64
	PageHeight() float64
	EmbedImage(data []byte, format string, x, y, w, h float64) error
	Save(path string) error
}

// WriterFactory builds a fresh DocumentWriter for each conversion.
type WriterFactory interface {
	NewWriter(cfg WriterConfig) (DocumentWriter, error)
}

// WriterFactoryFunc adapts a function to [WriterFactory].
type WriterFactoryFunc func(cfg WriterConfig) (DocumentWriter, error)

// NewWriter calls f(cfg).
func (f WriterFactoryFunc) NewWriter(cfg WriterConfig) (DocumentWriter, error) {
	return f(cfg)
}

// FPDFWriter is a [WriterFactory] producing PDF files with fpdf.
type FPDFWriter struct {
	// Creator is recorded in the document information dictionary.
	Creator string
	// NoCompression disables stream compression, which makes output
	// easier to diff.
	NoCompression bool
}

// NewFPDFWriter returns an FPDFWriter with default settings.
func NewFPDFWriter() *FPDFWriter {
	return &FPDFWriter{Creator: "elempdf"}
}

var _ WriterFactory = (*FPDFWriter)(nil)

// NewWriter implements [WriterFactory]. The returned document already has
// its single page.
func (w *FPDFWriter) NewWriter(cfg WriterConfig) (DocumentWriter, error) {
	if !cfg.PageSize.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPageSize, cfg.PageSize)
	}
	orientation := "P"
	switch cfg.Orientation {
	case Portrait, "":
	case Landscape:
		orientation = "L"
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrientation, cfg.Orientation)
	}
	unit := cfg.Unit
	if unit == "" {
		unit = "pt"
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        unit,
		SizeStr:        string(cfg.PageSize),
	})
	pdf.SetCompression(!w.NoCompression)
	if w.Creator != "" {
		pdf.SetCreator(w.Creator, true)
	}
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("elempdf: creating document: %w", err)
	}
	return &fpdfDocument{pdf: pdf}, nil
}

// fpdfDocument is one in-progress fpdf document.
type fpdfDocument struct {
	pdf    *fpdf.Fpdf
	images int
}

func (d *fpdfDocument) PageWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	return w
}

func (d *fpdfDocument) PageHeight() float64 {
	_, h := d.pdf.GetPageSize()
	return h
}

// EmbedImage draws data at (x, y) with size w×h in document units.
func (d *fpdfDocument) EmbedImage(data []byte, format string, x, y, w, h float64) error {
	d.images++
	name := fmt.Sprintf("capture-%d", d.images)
	opts := fpdf.ImageOptions{ImageType: strings.ToUpper(format), AllowNegativePosition: true}

	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	d.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("elempdf: embedding image: %w", err)
	}
	return nil
}

// Save writes the document to path, creating parent directories.
func (d *fpdfDocument) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("elempdf: creating output directory: %w", err)
		}
	}
	if err := d.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("elempdf: saving %s: %w", path, err)
	}
	return nil
}
