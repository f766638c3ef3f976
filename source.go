package elempdf

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

type sourceKind int

const (
	sourceHTML sourceKind = iota
	sourceURL
	sourceFile
)

// Source is the document an [Engine] loads before elements are captured.
type Source struct {
	kind  sourceKind
	value string
}

// HTML returns a Source for an HTML string.
func HTML(html string) Source { return Source{kind: sourceHTML, value: html} }

// URL returns a Source for a web page.
func URL(rawURL string) Source { return Source{kind: sourceURL, value: rawURL} }

// File returns a Source for a local HTML file.
func File(path string) Source { return Source{kind: sourceFile, value: path} }

func (s Source) String() string {
	switch s.kind {
	case sourceURL:
		return s.value
	case sourceFile:
		return "file:" + s.value
	}
	return fmt.Sprintf("html(%d bytes)", len(s.value))
}

// location returns a URL the browser can navigate to. HTML strings are
// written to a temporary file, which cleanup removes.
func (s Source) location() (target string, cleanup func(), err error) {
	cleanup = func() {}
	switch s.kind {
	case sourceURL:
		if _, err := url.ParseRequestURI(s.value); err != nil {
			return "", cleanup, fmt.Errorf("elempdf: invalid URL %q: %w", s.value, err)
		}
		return s.value, cleanup, nil

	case sourceFile:
		abs, err := filepath.Abs(s.value)
		if err != nil {
			return "", cleanup, fmt.Errorf("elempdf: resolving path: %w", err)
		}
		if _, err := os.Stat(abs); err != nil {
			return "", cleanup, fmt.Errorf("elempdf: %w", err)
		}
		return "file://" + abs, cleanup, nil
	}

	f, err := os.CreateTemp("", "elempdf-*.html")
	if err != nil {
		return "", cleanup, fmt.Errorf("elempdf: creating temp file: %w", err)
	}
	name := f.Name()
	cleanup = func() { os.Remove(name) }

	if _, err := f.WriteString(s.value); err != nil {
		f.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("elempdf: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("elempdf: closing temp file: %w", err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("elempdf: resolving path: %w", err)
	}
	return "file://" + abs, cleanup, nil
}
