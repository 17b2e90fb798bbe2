package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrDatasetNotFound = fmt.Errorf("%w: dataset", ErrNotFound)
	ErrMissingColumn   = fmt.Errorf("%w: column", ErrNotFound)

	// Analysis input errors
	ErrEmptyTable       = errors.New("table has no rows")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrDegenerateSample = errors.New("degenerate sample: no spread to measure")
	ErrNotNumeric       = errors.New("column is not numeric")
	ErrLengthMismatch   = errors.New("column lengths differ")

	// Loading errors
	ErrMissingHeader    = errors.New("flat file has no header row")
	ErrUnsupportedDtype = errors.New("unsupported column dtype")
)

// Error constructors with context
func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w %q", ErrMissingColumn, column)
}

func NewDatasetNotFoundError(name string) error {
	return fmt.Errorf("%w %q", ErrDatasetNotFound, name)
}

func NewInsufficientDataError(need, got int) error {
	return fmt.Errorf("%w: need at least %d observations, got %d", ErrInsufficientData, need, got)
}

func NewNotNumericError(column string) error {
	return fmt.Errorf("%w: %q", ErrNotNumeric, column)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAnalysisInputError reports whether an error is an analysis-configuration
// mistake a notebook caller should report rather than crash on.
func IsAnalysisInputError(err error) bool {
	return errors.Is(err, ErrEmptyTable) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDegenerateSample) ||
		errors.Is(err, ErrNotNumeric) ||
		errors.Is(err, ErrMissingColumn)
}
