package elempdf

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestResult_SucceededJSON(t *testing.T) {
	data, err := json.Marshal(succeeded("thisisawesome.pdf"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"success":true,"outputPath":"thisisawesome.pdf"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestResult_FailedJSON(t *testing.T) {
	data, err := json.Marshal(failed(KindValidation, ErrElementIDRequired))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"success":false,"error":"The id of the html element is required","kind":"validation"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestResult_RoundTripKind(t *testing.T) {
	var r Result
	in := `{"success":false,"error":"x","kind":"write_failed"}`
	if err := json.Unmarshal([]byte(in), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if r.Kind != KindWriteFailed {
		t.Errorf("kind = %v, want write_failed", r.Kind)
	}
}

func TestResult_ErrNilOnSuccess(t *testing.T) {
	if err := succeeded("a.pdf").Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestResult_ErrUnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("%w: %q", ErrElementNotFound, "missing")
	r := failedWith(KindNotFound, elementNotFoundMessage("missing"), cause)

	err := r.Err()
	if !errors.Is(err, ErrElementNotFound) {
		t.Errorf("errors.Is(%v, ErrElementNotFound) = false", err)
	}
	var ce *ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("errors.As(%v, *ConversionError) = false", err)
	}
	if ce.Kind != KindNotFound {
		t.Errorf("kind = %v, want not_found", ce.Kind)
	}
	if err.Error() != "Element with id 'missing' not found" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestErrorKind_String(t *testing.T) {
	tests := map[ErrorKind]string{
		KindNone:                "none",
		KindValidation:          "validation",
		KindNotFound:            "not_found",
		KindRasterizationFailed: "rasterization_failed",
		KindWriteFailed:         "write_failed",
		ErrorKind(99):           "ErrorKind(99)",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}

func TestErrorKind_UnmarshalUnknown(t *testing.T) {
	var k ErrorKind
	if err := k.UnmarshalText([]byte("exploded")); err == nil {
		t.Error("expected error for unknown kind")
	}
}
