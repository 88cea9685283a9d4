package ride

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation   = errors.New("invalid booking")
	ErrInvalidState = errors.New("invalid state transition")
	ErrNoRide       = errors.New("no current ride")
	ErrNotFound     = errors.New("ride record not found")
	ErrPersistence  = errors.New("ride persistence failed")
)

// CancellationWarning is shown to the rider on cancel. No fee is computed.
const CancellationWarning = "Cancellation fees may apply."

// ValidationError lists the booking fields that were missing or unusable.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
