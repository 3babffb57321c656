package analytics

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

// AggregationError reports an aggregator that failed as a whole and was
// replaced by its fallback value.
type AggregationError struct {
	Aggregator string
	Cause      error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Aggregator, e.Cause)
}

func (e *AggregationError) Unwrap() []error {
	return []error{domain.ErrAggregationFailed, e.Cause}
}

// Guard runs fn and converts a panic or an unexpected error into fallback
// plus an *AggregationError. Invalid-parameter errors are returned as they
// are, with fallback, because they are the caller's to handle.
func Guard[T any](name string, fallback T, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			result = fallback
			err = &AggregationError{Aggregator: name, Cause: pkgerrors.WithStack(cause)}
		}
	}()

	result, err = fn()
	if err == nil {
		return result, nil
	}
	if errors.Is(err, domain.ErrInvalidParameter) {
		return fallback, err
	}
	return fallback, &AggregationError{Aggregator: name, Cause: pkgerrors.WithStack(err)}
}
