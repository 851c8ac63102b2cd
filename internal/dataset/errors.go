package dataset

import (
	"errors"
	"fmt"
)

// Domain errors for dataset loading.
var (
	// ErrDataFormat indicates the wire payload is structurally unusable.
	ErrDataFormat = errors.New("dataset: invalid data format")

	// ErrSourceUnavailable indicates the source could not be fetched at all.
	ErrSourceUnavailable = errors.New("dataset: source unavailable")
)

// FormatError wraps ErrDataFormat with the offending field.
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("dataset: invalid data format: %s: %s", e.Field, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrDataFormat
}
