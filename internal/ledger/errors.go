package ledger

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the requested ledger entry does not exist.
var ErrNotFound = errors.New("ledger entry not found")

// ValidationError reports malformed or out-of-domain input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
