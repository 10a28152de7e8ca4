package transaction

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested transaction does not exist.
	ErrNotFound = errors.New("transaction not found")

	// ErrAgreementNotFound is returned when a rental transaction has no agreement attached.
	ErrAgreementNotFound = errors.New("rental agreement not found")

	// ErrPropertyNotFound is returned when the referenced property does not resolve.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrClientNotFound is returned when the referenced client does not resolve.
	ErrClientNotFound = errors.New("client not found")

	// ErrUserNotFound is returned when the handling user does not resolve.
	ErrUserNotFound = errors.New("user not found")

	// ErrTransactionCompleted is returned when deleting a completed transaction.
	ErrTransactionCompleted = errors.New("cannot delete a completed transaction")
)

// ValidationError reports malformed or out-of-domain input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
