package elempdf

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Converter captures an element of a document and saves it as a one-page
// PDF.
//
// A Converter holds its collaborators, immutable settings and a counter for
// generated output names, so it is safe for concurrent use. Concurrent
// conversions of the same element are independent and are neither merged
// nor serialized.
type Converter struct {
	doc     Document
	raster  Rasterizer
	writers WriterFactory
	cfg     converterConfig

	names atomic.Uint64
}

// NewConverter returns a Converter that looks elements up in doc, captures
// them with raster and writes documents built by writers.
func NewConverter(doc Document, raster Rasterizer, writers WriterFactory, opts ...Option) *Converter {
	cfg := defaultConverterConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Converter{doc: doc, raster: raster, writers: writers, cfg: cfg}
}

// NewPageConverter returns a Converter over a loaded [Page] that writes PDFs
// with [FPDFWriter].
func NewPageConverter(p Page, opts ...Option) *Converter {
	return NewConverter(p, p, NewFPDFWriter(), opts...)
}

// Convert runs one conversion. It never returns an error: every failure is
// reported through the Result.
func (c *Converter) Convert(ctx context.Context, req Request) (res Result) {
	log := c.cfg.logger.WithField("element", req.ElementID)
	stage := KindValidation
	defer func() {
		if r := recover(); r != nil {
			res = failed(stage, fmt.Errorf("elempdf: conversion panicked: %v", r))
		}
		if !res.Success {
			log.WithField("kind", res.Kind).Error(res.Error)
		}
	}()

	var name func() string
	if c.cfg.defaultPath {
		name = c.nextOutputPath
	}
	req, err := req.resolved(name)
	if err != nil {
		return failed(KindValidation, err)
	}

	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	stage = KindRasterizationFailed
	el, err := c.doc.ElementByID(ctx, req.ElementID)
	if errors.Is(err, ErrElementNotFound) {
		return failedWith(KindNotFound, elementNotFoundMessage(req.ElementID), err)
	}
	if err != nil {
		return failed(KindRasterizationFailed, err)
	}
	log.WithFields(logrus.Fields{"width": el.Width, "height": el.Height}).Debug("element located")

	img, err := c.raster.Rasterize(ctx, el, captureOptions(captureSize(el, req.WidthOffset, req.HeightOffset)))
	if err != nil {
		return failed(KindRasterizationFailed, err)
	}
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return failed(KindRasterizationFailed, errEmptyCapture)
	}
	log.WithFields(logrus.Fields{"width": img.Width, "height": img.Height}).Debug("image captured")

	stage = KindWriteFailed
	doc, err := c.writers.NewWriter(WriterConfig{
		Orientation: req.Orientation,
		Unit:        "pt",
		PageSize:    req.PageSize,
	})
	if err != nil {
		return failed(KindWriteFailed, err)
	}

	w, h := placement(doc.PageWidth(), req.WidthOffset, img.Width, img.Height)
	if w <= 0 {
		return failed(KindWriteFailed, fmt.Errorf(
			"elempdf: width offset %g leaves no room on a %g pt page", req.WidthOffset, doc.PageWidth()))
	}
	log.WithFields(logrus.Fields{"width": w, "height": h}).Debug("pdf placement")

	format := img.Format
	if format == "" {
		format = "PNG"
	}
	if err := doc.EmbedImage(img.Data, format, 0, 0, w, h); err != nil {
		return failed(KindWriteFailed, err)
	}
	if err := doc.Save(req.OutputPath); err != nil {
		return failed(KindWriteFailed, err)
	}

	log.WithField("output", req.OutputPath).Info("pdf saved")
	return succeeded(req.OutputPath)
}

func (c *Converter) nextOutputPath() string {
	return defaultOutputPath(c.cfg.now(), c.names.Add(1))
}

// ConvertAll converts every request, running up to the configured
// concurrency at once. Results are returned in request order.
func (c *Converter) ConvertAll(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))

	g := new(errgroup.Group)
	g.SetLimit(c.cfg.concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = c.Convert(ctx, req)
			return nil
		})
	}
	_ = g.Wait() // Convert never fails
	return results
}

// --- Package-level convenience functions ---

// ConvertHTML captures an element of an HTML string using a temporary
// [ChromeEngine]. Engine start-up failures are reported in the Result.
func ConvertHTML(ctx context.Context, html string, req Request, opts ...EngineOption) Result {
	return convertSource(ctx, HTML(html), req, opts)
}

// ConvertURL captures an element of a web page using a temporary [ChromeEngine].
func ConvertURL(ctx context.Context, rawURL string, req Request, opts ...EngineOption) Result {
	return convertSource(ctx, URL(rawURL), req, opts)
}

// ConvertFile captures an element of a local HTML file using a temporary
// [ChromeEngine].
func ConvertFile(ctx context.Context, path string, req Request, opts ...EngineOption) Result {
	return convertSource(ctx, File(path), req, opts)
}

func convertSource(ctx context.Context, src Source, req Request, opts []EngineOption) Result {
	// Fail fast on input errors before paying for a browser start.
	if _, err := req.resolved(nil); err != nil {
		return failed(KindValidation, err)
	}

	eng, err := NewChromeEngine(opts...)
	if err != nil {
		return failed(KindRasterizationFailed, err)
	}
	defer eng.Close()

	p, err := eng.Open(ctx, src)
	if err != nil {
		return failed(KindRasterizationFailed, err)
	}
	defer p.Close()

	return NewPageConverter(p).Convert(ctx, req)
}
