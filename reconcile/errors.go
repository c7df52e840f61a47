/*
errors.go - Error types for the reconciliation engine

ERROR CATEGORIES:
  1. Input errors - unknown category, invalid list values, totals that
     overflow float64 (client errors)
  2. Storage errors - the KV store is missing or failing
  3. Record errors - a persisted record could not be decoded

Invalid list entries typed by a person never reach this file: the editor
rejects them silently. These errors surface only for programmatic callers
(API list replacement, scenario loading) and for diagnostics.
*/
package reconcile

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownCategory is returned for a category outside the four lists.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrInvalidValue is returned when a list holds a negative or non-finite value.
	ErrInvalidValue = errors.New("invalid value")

	// ErrTotalOverflow is returned when a change would push a total past the
	// largest representable amount.
	ErrTotalOverflow = errors.New("total out of range")

	// ErrStorageUnavailable signals the KV store does not exist in this
	// environment. The orchestrator falls back to memory-only operation.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrCorruptRecord is returned by Decode when the stored record is unusable.
	ErrCorruptRecord = errors.New("corrupt record")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// CategoryError names the category that was not recognised.
type CategoryError struct {
	Name string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Name)
}

func (e *CategoryError) Unwrap() error {
	return ErrUnknownCategory
}

// InvalidValueError points at the offending entry.
type InvalidValueError struct {
	Category Category
	Index    int
	Value    float64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %v at %s[%d]", e.Value, e.Category, e.Index)
}

func (e *InvalidValueError) Unwrap() error {
	return ErrInvalidValue
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrTotalOverflow)
}
