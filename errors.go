package fixedarray

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned for an index outside the valid range of an operation.
	ErrOutOfBounds = errors.New("fixedarray: index out of bounds")
	// ErrFull is returned when a write would extend an array past its capacity.
	ErrFull = fmt.Errorf("%w: capacity exhausted", ErrOutOfBounds)
	// ErrEmpty is returned when contracting an array that holds no elements.
	ErrEmpty = errors.New("fixedarray: array is empty")
	// ErrInvalidSize is returned for a non-positive width, a negative capacity,
	// or a width*capacity product that overflows.
	ErrInvalidSize = errors.New("fixedarray: invalid element width or capacity")
	// ErrAllocation is returned when the backing storage cannot be obtained.
	ErrAllocation = errors.New("fixedarray: allocation failed")
	// ErrElementSize is returned when a source or destination buffer is shorter
	// than the element width.
	ErrElementSize = errors.New("fixedarray: buffer shorter than element width")
	// ErrReleased is returned for any operation on a destroyed array.
	ErrReleased = errors.New("fixedarray: use after Destroy")
	// ErrNilTracker is returned when an operation receives a nil *Performance.
	ErrNilTracker = errors.New("fixedarray: nil performance tracker")
)

// ViolationError describes a precondition violation detected by an array
// operation. The default API panics with a *ViolationError after releasing
// the array; the Try* variants return it.
//
// The sentinel describing the violation can be matched with errors.Is.
// Index is -1 for operations that do not address an element.
type ViolationError struct {
	Op    string
	Index int
	Len   int
	Cap   int
	Err   error
}

func (e *ViolationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v (nel %d, capacity %d)", e.Op, e.Err, e.Len, e.Cap)
	}
	return fmt.Sprintf("%s: %v (index %d, nel %d, capacity %d)", e.Op, e.Err, e.Index, e.Len, e.Cap)
}

func (e *ViolationError) Unwrap() error { return e.Err }

// IsViolation reports whether err carries a *ViolationError.
func IsViolation(err error) bool {
	var v *ViolationError
	return errors.As(err, &v)
}

// AsViolation converts a value obtained from recover() into a
// *ViolationError. It reports false for any other panic value, which the
// caller should re-panic.
func AsViolation(recovered any) (*ViolationError, bool) {
	err, ok := recovered.(error)
	if !ok {
		return nil, false
	}
	var v *ViolationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
