package audio

import (
	"errors"
	"fmt"
)

// Dispatch and decode errors
var (
	// ErrNoExtension is returned when opening a path that has no file extension.
	ErrNoExtension = errors.New("file has no extension")

	// ErrUnknownFormat is returned when content sniffing matched no backend.
	ErrUnknownFormat = errors.New("could not identify audio format")

	// ErrIncompleteData is returned when a sample or frame was cut short,
	// usually by an unexpected EOF in the middle of a sample.
	ErrIncompleteData = errors.New("incomplete sample data")

	// ErrDecoderConsumed is returned when a decoder is used after its byte
	// source has been handed to a sample iterator.
	ErrDecoderConsumed = errors.New("decoder already consumed by Samples")
)

// UnsupportedExtensionError indicates the file extension maps to no known backend.
type UnsupportedExtensionError struct {
	Extension string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("extension %q is not supported", e.Extension)
}

// DisabledExtensionError indicates the extension is recognized but its
// backend was not compiled into this build.
type DisabledExtensionError struct {
	Extension string
	Feature   string
}

func (e *DisabledExtensionError) Error() string {
	return fmt.Sprintf("feature %q is required to read %q files, but is not enabled", e.Feature, e.Extension)
}

// FormatError indicates the input is invalid or unsupported for a specific
// backend. During content sniffing it is the only error class treated as a
// negative identification; every other error aborts the sniff.
type FormatError struct {
	Format string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// newFormatError builds a FormatError for the named backend.
func newFormatError(format, reason string, err error) *FormatError {
	return &FormatError{Format: format, Reason: reason, Err: err}
}

// isFormatError reports whether err is (or wraps) a FormatError.
func isFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
