package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceDocument indicates the source PDF could not be read.
	// Fatal for the render request it occurred in; never retried.
	ErrSourceDocument = errors.New("source document unreadable")

	// ErrPersistence indicates the store is unavailable.
	// Distinct from validation failures in the caller-facing contract.
	ErrPersistence = errors.New("persistence unavailable")
)

// ValidationReason classifies why a create request was rejected.
type ValidationReason string

const (
	// InvalidType means the redaction type was not "text" or "area".
	InvalidType ValidationReason = "invalid_type"

	// MissingPage means the page number was absent or not a positive integer.
	MissingPage ValidationReason = "missing_page"

	// InvalidField means a rectangle field did not parse to a finite float,
	// or violated a rectangle invariant.
	InvalidField ValidationReason = "invalid_field"

	// EmptyBoxes means no rectangle survived validation.
	EmptyBoxes ValidationReason = "empty_boxes"

	// PageOutOfRange means the page number exceeds the document's page count.
	PageOutOfRange ValidationReason = "page_out_of_range"
)

// ValidationError reports a rejected create request with field-level detail.
// It unwraps to ErrInvalidInput so callers can classify with errors.Is.
type ValidationError struct {
	Reason ValidationReason
	Field  string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s (field %q)", e.Reason, e.Field)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
