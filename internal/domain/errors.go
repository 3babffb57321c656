package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedField marks a single record field that could not be coerced.
	ErrMalformedField = errors.New("malformed field")
	// ErrInvalidParameter marks a caller-supplied parameter outside its range.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrAggregationFailed marks an aggregator that failed as a whole.
	ErrAggregationFailed = errors.New("aggregation failed")
)

// FieldError describes one unusable field on one record.
type FieldError struct {
	ItemID string
	Field  string
	Value  any
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("item %q field %s: %v (value %v)", e.ItemID, e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() []error {
	return []error{ErrMalformedField, e.Err}
}

// InvalidParameter builds an ErrInvalidParameter error for name.
func InvalidParameter(name string, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameter, name, fmt.Sprintf(format, args...))
}
