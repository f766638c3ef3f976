package elempdf

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Engine] or [Page].
	ErrClosed = errors.New("elempdf: engine is closed")

	// ErrElementIDRequired is reported when a request carries a blank element id.
	ErrElementIDRequired = errors.New("The id of the html element is required") //nolint:staticcheck // message is part of the result contract

	// ErrOutputPathRequired is reported when a request carries a blank output path.
	ErrOutputPathRequired = errors.New("Output path is required") //nolint:staticcheck // message is part of the result contract

	// ErrElementNotFound is returned by a [Document] when no element has the id.
	ErrElementNotFound = errors.New("element not found")

	// ErrInvalidPageSize is returned for a page size outside A4, A3, Letter and Legal.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrInvalidOrientation is returned for an orientation other than
	// portrait or landscape.
	ErrInvalidOrientation = errors.New("invalid orientation")

	// ErrInvalidOffset is returned when a width or height offset is NaN or infinite.
	ErrInvalidOffset = errors.New("invalid offset")
)

// ErrorKind classifies a failed conversion.
type ErrorKind int

const (
	// KindNone marks a successful Result.
	KindNone ErrorKind = iota
	// KindValidation covers blank ids, blank output paths, unknown page
	// settings and non-finite offsets.
	KindValidation
	// KindNotFound means the element id did not resolve in the document.
	KindNotFound
	// KindRasterizationFailed covers element lookup and capture failures.
	KindRasterizationFailed
	// KindWriteFailed covers document construction, embedding and saving.
	KindWriteFailed
)

var kindNames = map[ErrorKind]string{
	KindNone:                "none",
	KindValidation:          "validation",
	KindNotFound:            "not_found",
	KindRasterizationFailed: "rasterization_failed",
	KindWriteFailed:         "write_failed",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ErrorKind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("elempdf: unknown error kind %q", b)
}

// ConversionError is the error form of a failed [Result].
type ConversionError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ConversionError) Error() string { return e.Msg }

func (e *ConversionError) Unwrap() error { return e.Err }

// elementNotFoundMessage names the missing id the way callers match on it.
func elementNotFoundMessage(id string) string {
	return fmt.Sprintf("Element with id '%s' not found", id)
}
