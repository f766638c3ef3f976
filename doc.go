// Package elempdf captures a single element of an HTML document and saves
// it as a one-page PDF.
//
// A conversion locates the element by id, screenshots it in headless Chrome
// at twice the device scale over a white background, and draws the image at
// the top-left corner of a new page so that it fills the page width.
//
// # One-off conversions
//
//	res := elempdf.ConvertHTML(ctx, html, elempdf.Request{
//	    ElementID:  "invoice",
//	    OutputPath: "invoice.pdf",
//	})
//	if !res.Success {
//	    log.Fatal(res.Error)
//	}
//
// # Reusing a browser
//
// An [Engine] keeps one browser process alive. [ChromeEngine] drives it with
// chromedp, [RodEngine] with go-rod:
//
//	eng, err := elempdf.NewChromeEngine(elempdf.WithNoSandbox())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	page, err := eng.Open(ctx, elempdf.File("report.html"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer page.Close()
//
//	conv := elempdf.NewPageConverter(page)
//	res := conv.Convert(ctx, elempdf.Request{
//	    ElementID:   "chart",
//	    OutputPath:  "chart.pdf",
//	    PageSize:    elempdf.A3,
//	    Orientation: elempdf.Landscape,
//	})
//
// # Results
//
// Convert never returns an error. A failed [Result] carries the message
// and an [ErrorKind]; [Result.Err] exposes the cause to errors.Is:
//
//	if errors.Is(res.Err(), elempdf.ErrElementIDRequired) { ... }
//
// # Page geometry
//
// The image is drawn PageWidth-WidthOffset points wide, and its height
// follows the captured aspect ratio. HeightOffset enlarges the captured
// area but does not reduce the drawn height.
//
// # Custom collaborators
//
// [NewConverter] accepts any [Document], [Rasterizer] and [WriterFactory],
// which lets tests substitute fakes. [Inspect] reads the page sizes of a
// produced file.
package elempdf
