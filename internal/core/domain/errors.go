package domain

import (
	"errors"
	"fmt"
)

// Stable machine-readable error codes surfaced at the API boundary.
const (
	CodeInvalidInput       = "invalid_input"
	CodeCatalogUnavailable = "catalog_unavailable"
	CodeNoSignal           = "no_signal"
	CodeCacheCorrupt       = "cache_corrupt"
	CodeInternal           = "internal"
)

// DiagError carries a stable code alongside a human-readable message.
type DiagError struct {
	Code    string
	Message string
	err     error
}

func (e *DiagError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DiagError) Unwrap() error { return e.err }

// NewDiagError wraps err with a stable code and message.
func NewDiagError(code, message string, err error) *DiagError {
	return &DiagError{Code: code, Message: message, err: err}
}

// ErrInvalidInput rejects malformed requests before any computation.
func ErrInvalidInput(message string) *DiagError {
	return &DiagError{Code: CodeInvalidInput, Message: message}
}

// ErrNoSignal marks a recovered user-agent extraction miss. It is logged but
// never propagated as a request failure.
var ErrNoSignal = &DiagError{Code: CodeNoSignal, Message: "no device signal in user agent"}

// ErrCatalogUnavailable is returned when no usable snapshot exists and the
// grace window has elapsed.
var ErrCatalogUnavailable = &DiagError{Code: CodeCatalogUnavailable, Message: "device catalog unavailable"}

// CodeOf extracts the stable code from an error chain, defaulting to internal.
func CodeOf(err error) string {
	var de *DiagError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
