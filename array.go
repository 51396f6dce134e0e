package fixedarray

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// NotFound is returned by the search operations when no element matches.
const NotFound = -1

// Array is a fixed-capacity sequence of width-byte elements stored back to
// back in one contiguous buffer. Element i lives at offset i*width.
//
// Only the primitives (Read, Write, Contract, Destroy) touch the buffer;
// every other operation is composed from them, so all element accesses are
// bounds-checked and counted in one place. Not goroutine-safe.
type Array struct {
	width    int
	capacity int
	nel      int
	data     []byte
	storage  Storage
	log      *slog.Logger
	released bool
}

// New creates an empty array able to hold capacity elements of width bytes
// and records one allocation on p. It panics with a *ViolationError if the
// size is invalid or the storage cannot be obtained.
func New(p *Performance, width, capacity int, opts ...Option) *Array {
	a, err := TryNew(p, width, capacity, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// TryNew is like New but returns the violation instead of panicking.
func TryNew(p *Performance, width, capacity int, opts ...Option) (*Array, error) {
	o := buildOptions(opts)
	v := func(err error) error {
		o.logger.Error("array create failed",
			"width", width,
			"capacity", capacity,
			"storage", o.storage.Name(),
			"error", err,
		)
		return &ViolationError{Op: "create", Index: -1, Cap: capacity, Err: err}
	}

	if p == nil {
		return nil, v(ErrNilTracker)
	}
	if width <= 0 || capacity < 0 || (capacity > 0 && width > math.MaxInt/capacity) {
		return nil, v(ErrInvalidSize)
	}

	size := width * capacity
	data, err := o.storage.Allocate(size)
	if err != nil {
		return nil, v(fmt.Errorf("%w: %s: %w", ErrAllocation, o.storage.Name(), err))
	}
	if len(data) != size {
		return nil, v(fmt.Errorf("%w: %s returned %d bytes, want %d", ErrAllocation, o.storage.Name(), len(data), size))
	}

	p.countAlloc()
	o.logger.Debug("array created",
		"width", width,
		"capacity", capacity,
		"storage", o.storage.Name(),
	)
	return &Array{
		width:    width,
		capacity: capacity,
		data:     data,
		storage:  o.storage,
		log:      o.logger,
	}, nil
}

// Width returns the element size in bytes.
func (a *Array) Width() int { return a.width }

// Cap returns the maximum number of elements.
func (a *Array) Cap() int { return a.capacity }

// Len returns the current number of elements (nel).
func (a *Array) Len() int { return a.nel }

// Released reports whether the array has been destroyed.
func (a *Array) Released() bool { return a.released }

// Read copies element index into dst, which must be at least Width bytes.
// It panics with a *ViolationError, after destroying the array, unless
// 0 <= index < Len.
func (a *Array) Read(p *Performance, index int, dst []byte) {
	if err := a.read(p, index, dst); err != nil {
		a.fail(p, err)
	}
}

// TryRead is like Read but returns the violation and leaves the array intact.
func (a *Array) TryRead(p *Performance, index int, dst []byte) error {
	return a.read(p, index, dst)
}

// Write copies the first Width bytes of src into slot index. Writing at
// index Len extends the array by one element. It panics with a
// *ViolationError, after destroying the array, unless
// 0 <= index <= Len and index < Cap.
func (a *Array) Write(p *Performance, index int, src []byte) {
	if err := a.write(p, index, src); err != nil {
		a.fail(p, err)
	}
}

// TryWrite is like Write but returns the violation and leaves the array intact.
func (a *Array) TryWrite(p *Performance, index int, src []byte) error {
	return a.write(p, index, src)
}

// Contract drops the last element. It panics with a *ViolationError,
// after destroying the array, if the array is empty.
func (a *Array) Contract(p *Performance) {
	if err := a.contract(p); err != nil {
		a.fail(p, err)
	}
}

// TryContract is like Contract but returns the violation.
func (a *Array) TryContract(p *Performance) error {
	return a.contract(p)
}

// Destroy returns the backing buffer to its storage and records one
// deallocation. Destroying an array twice panics.
func (a *Array) Destroy(p *Performance) {
	if err := a.destroy(p); err != nil {
		a.fail(p, err)
	}
}

// TryDestroy is like Destroy but returns the violation.
func (a *Array) TryDestroy(p *Performance) error {
	return a.destroy(p)
}

func (a *Array) read(p *Performance, index int, dst []byte) error {
	if err := a.usable(p, "read", index); err != nil {
		return err
	}
	if index < 0 || index >= a.nel {
		return a.violation("read", index, ErrOutOfBounds)
	}
	if len(dst) < a.width {
		return a.violation("read", index, ErrElementSize)
	}
	off := index * a.width
	copy(dst[:a.width], a.data[off:off+a.width])
	p.countRead()
	return nil
}

func (a *Array) write(p *Performance, index int, src []byte) error {
	if err := a.usable(p, "write", index); err != nil {
		return err
	}
	if index < 0 || index > a.nel {
		return a.violation("write", index, ErrOutOfBounds)
	}
	// index <= nel <= capacity, so this only trips at nel == capacity.
	if index >= a.capacity {
		return a.violation("write", index, ErrFull)
	}
	if len(src) < a.width {
		return a.violation("write", index, ErrElementSize)
	}
	off := index * a.width
	copy(a.data[off:off+a.width], src[:a.width])
	if index == a.nel {
		a.nel++
	}
	p.countWrite()
	return nil
}

func (a *Array) contract(p *Performance) error {
	if err := a.usable(p, "contract", -1); err != nil {
		return err
	}
	if a.nel == 0 {
		return a.violation("contract", -1, ErrEmpty)
	}
	a.nel--
	return nil
}

func (a *Array) destroy(p *Performance) error {
	if err := a.usable(p, "destroy", -1); err != nil {
		return err
	}
	a.release(p)
	return nil
}

// release frees the buffer exactly once. p may be nil on the fatal path of
// an operation that was handed a nil tracker.
func (a *Array) release(p *Performance) {
	data := a.data
	a.data = nil
	a.released = true
	if p != nil {
		p.countDealloc()
	}
	if err := a.storage.Free(data); err != nil {
		a.log.Warn("array storage free failed",
			"storage", a.storage.Name(),
			"error", err,
		)
	}
	a.log.Debug("array destroyed",
		"width", a.width,
		"capacity", a.capacity,
		"nel", a.nel,
		"storage", a.storage.Name(),
	)
}

func (a *Array) usable(p *Performance, op string, index int) error {
	if a.released {
		return a.violation(op, index, ErrReleased)
	}
	if p == nil {
		return a.violation(op, index, ErrNilTracker)
	}
	return nil
}

func (a *Array) violation(op string, index int, err error) error {
	return &ViolationError{Op: op, Index: index, Len: a.nel, Cap: a.capacity, Err: err}
}

// fail implements the fatal-on-violation contract: log, release the array,
// then panic with the violation for the top-level caller to handle.
func (a *Array) fail(p *Performance, err error) {
	var v *ViolationError
	if errors.As(err, &v) {
		a.log.Error("array violation",
			"op", v.Op,
			"index", v.Index,
			"nel", v.Len,
			"capacity", v.Cap,
			"error", v.Err,
		)
	}
	if !a.released {
		a.release(p)
	}
	panic(err)
}
