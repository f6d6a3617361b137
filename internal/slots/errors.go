package slots

import (
	"errors"
	"fmt"
)

// invariantViolationError signals a refused removal of the primary or sole slot.
type invariantViolationError struct {
	index  int
	length int
}

func (e invariantViolationError) Error() string {
	if e.index == 0 {
		return "invariant violation: primary slot cannot be removed"
	}
	return fmt.Sprintf("invariant violation: cannot remove slot %d of %d", e.index, e.length)
}

// IsInvariantViolation reports whether err is a refused removal.
func IsInvariantViolation(err error) bool {
	var e invariantViolationError
	return errors.As(err, &e)
}

// outOfRangeError signals an index outside the current store bounds.
type outOfRangeError struct {
	index  int
	length int
}

func (e outOfRangeError) Error() string {
	return fmt.Sprintf("slot index %d out of range [0,%d)", e.index, e.length)
}

// ErrOutOfRange returns the error used for indexes outside [0,length).
func ErrOutOfRange(index, length int) error { return outOfRangeError{index: index, length: length} }

// IsOutOfRange reports whether err indicates an out-of-bounds slot index.
func IsOutOfRange(err error) bool {
	var e outOfRangeError
	return errors.As(err, &e)
}
