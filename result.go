package elempdf

// Result is the outcome of one conversion. Exactly one of OutputPath and
// Error is set: OutputPath when Success is true, Error otherwise.
//
// A Result carries the original cause so that [Result.Err] can be inspected
// with errors.Is and errors.As. The cause is not serialized.
type Result struct {
	Success    bool      `json:"success"`
	OutputPath string    `json:"outputPath,omitempty"`
	Error      string    `json:"error,omitempty"`
	Kind       ErrorKind `json:"kind,omitempty"`

	cause error
}

func succeeded(path string) Result {
	return Result{Success: true, OutputPath: path}
}

// failed builds a failed Result whose message is the cause's text.
func failed(kind ErrorKind, cause error) Result {
	return Result{Error: cause.Error(), Kind: kind, cause: cause}
}

// failedWith builds a failed Result with a message that differs from the
// cause's text.
func failedWith(kind ErrorKind, msg string, cause error) Result {
	return Result{Error: msg, Kind: kind, cause: cause}
}

// Err returns nil for a successful Result and a [*ConversionError]
// otherwise.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return &ConversionError{Kind: r.Kind, Msg: r.Error, Err: r.cause}
}
