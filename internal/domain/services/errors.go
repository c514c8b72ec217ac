package services

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistenceFailed marks a storage failure after classification succeeded.
	// Callers may retry the save with the same verdict.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrInvalidReport is returned when a report fails validation before storage
	ErrInvalidReport = errors.New("invalid report")
)

// PersistenceError wraps a store failure. It matches ErrPersistenceFailed with errors.Is
// and unwraps to the underlying store error.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrPersistenceFailed, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistenceFailed }

// Retryable reports whether repeating the operation may succeed
func (e *PersistenceError) Retryable() bool { return true }

func invalidReport(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidReport, fmt.Sprintf(format, args...))
}
