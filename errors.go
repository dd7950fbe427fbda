package hashedwheel

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCapacity  = errors.New("hashedwheel: capacity must be at least 1")
	ErrMissingMovement  = errors.New("hashedwheel: movement source is required")
	ErrInvalidInterval  = errors.New("hashedwheel: movement interval must be positive")
	ErrNilTask          = errors.New("hashedwheel: nil task")
	ErrAlreadyScheduled = errors.New("hashedwheel: task already scheduled")
	ErrDelayOutOfRange  = errors.New("hashedwheel: delay out of range")
	ErrPeriodOutOfRange = errors.New("hashedwheel: period out of range")
	ErrDriverStopped    = errors.New("hashedwheel: driver is not running")
)

// PanicError wraps a value recovered from a panicking task handler.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("hashedwheel: task panicked: %v", e.Value)
}

// Unwrap returns the panic value if it is an error, so that errors.Is and
// errors.As see through the panic.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
