package fixedarray

import "unsafe"

// Typed is an Array whose elements are values of type T, stored as their
// in-memory representation (unsafe.Sizeof(T) bytes each). It adds type
// safety on top of the byte container without changing how elements are
// stored or counted.
//
// T must not contain pointers, slices, maps, strings or interfaces: the
// garbage collector does not see values held in the byte buffer.
type Typed[T any] struct {
	arr *Array
}

// NewTyped creates an empty Typed array of the given capacity. It panics
// with a *ViolationError when the array cannot be created.
func NewTyped[T any](p *Performance, capacity int, opts ...Option) *Typed[T] {
	t, err := TryNewTyped[T](p, capacity, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// TryNewTyped is like NewTyped but returns the violation. Zero-size types
// are rejected with ErrInvalidSize.
func TryNewTyped[T any](p *Performance, capacity int, opts ...Option) (*Typed[T], error) {
	var zero T
	arr, err := TryNew(p, int(unsafe.Sizeof(zero)), capacity, opts...)
	if err != nil {
		return nil, err
	}
	return &Typed[T]{arr: arr}, nil
}

// bytesOf views the memory of *v as a byte slice.
func bytesOf[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// compareFunc adapts a typed comparator to the byte container. Elements are
// copied out so the comparator never sees unaligned memory.
func compareFunc[T any](compare func(a, b T) int) Compare {
	return func(element, target []byte) int {
		var x, y T
		copy(bytesOf(&x), element)
		copy(bytesOf(&y), target)
		return compare(x, y)
	}
}

// Array returns the underlying byte container.
func (t *Typed[T]) Array() *Array { return t.arr }

// Len returns the current number of elements.
func (t *Typed[T]) Len() int { return t.arr.Len() }

// Cap returns the maximum number of elements.
func (t *Typed[T]) Cap() int { return t.arr.Cap() }

// Released reports whether the array has been destroyed.
func (t *Typed[T]) Released() bool { return t.arr.Released() }

// Read returns element index; see Array.Read.
func (t *Typed[T]) Read(p *Performance, index int) T {
	var v T
	t.arr.Read(p, index, bytesOf(&v))
	return v
}

// TryRead returns element index or the violation.
func (t *Typed[T]) TryRead(p *Performance, index int) (T, error) {
	var v T
	err := t.arr.TryRead(p, index, bytesOf(&v))
	return v, err
}

// Write stores v at index; see Array.Write.
func (t *Typed[T]) Write(p *Performance, index int, v T) {
	t.arr.Write(p, index, bytesOf(&v))
}

// TryWrite stores v at index or returns the violation.
func (t *Typed[T]) TryWrite(p *Performance, index int, v T) error {
	return t.arr.TryWrite(p, index, bytesOf(&v))
}

// Contract drops the last element; see Array.Contract.
func (t *Typed[T]) Contract(p *Performance) { t.arr.Contract(p) }

// TryContract drops the last element or returns the violation.
func (t *Typed[T]) TryContract(p *Performance) error { return t.arr.TryContract(p) }

// Destroy releases the array; see Array.Destroy.
func (t *Typed[T]) Destroy(p *Performance) { t.arr.Destroy(p) }

// TryDestroy releases the array or returns the violation.
func (t *Typed[T]) TryDestroy(p *Performance) error { return t.arr.TryDestroy(p) }

// Append stores v after the last element.
func (t *Typed[T]) Append(p *Performance, v T) {
	t.arr.Append(p, bytesOf(&v))
}

// TryAppend stores v after the last element or returns the violation.
func (t *Typed[T]) TryAppend(p *Performance, v T) error {
	return t.arr.TryAppend(p, bytesOf(&v))
}

// Insert places v at index, shifting later elements up.
func (t *Typed[T]) Insert(p *Performance, index int, v T) {
	t.arr.Insert(p, index, bytesOf(&v))
}

// TryInsert places v at index or returns the violation.
func (t *Typed[T]) TryInsert(p *Performance, index int, v T) error {
	return t.arr.TryInsert(p, index, bytesOf(&v))
}

// Prepend places v at index 0.
func (t *Typed[T]) Prepend(p *Performance, v T) {
	t.arr.Prepend(p, bytesOf(&v))
}

// TryPrepend places v at index 0 or returns the violation.
func (t *Typed[T]) TryPrepend(p *Performance, v T) error {
	return t.arr.TryPrepend(p, bytesOf(&v))
}

// Delete removes element index, shifting later elements down.
func (t *Typed[T]) Delete(p *Performance, index int) { t.arr.Delete(p, index) }

// TryDelete removes element index or returns the violation.
func (t *Typed[T]) TryDelete(p *Performance, index int) error { return t.arr.TryDelete(p, index) }

// FindLinear returns the first index equal to target under compare, or NotFound.
// Any cmp.Compare instantiation can serve as compare for ordered types.
func (t *Typed[T]) FindLinear(p *Performance, compare func(a, b T) int, target T) int {
	return t.arr.FindLinear(p, compareFunc(compare), bytesOf(&target))
}

// TryFindLinear is like FindLinear but returns the violation.
func (t *Typed[T]) TryFindLinear(p *Performance, compare func(a, b T) int, target T) (int, error) {
	return t.arr.TryFindLinear(p, compareFunc(compare), bytesOf(&target))
}

// FindBinary searches a sorted array for target, returning its index or NotFound.
func (t *Typed[T]) FindBinary(p *Performance, compare func(a, b T) int, target T) int {
	return t.arr.FindBinary(p, compareFunc(compare), bytesOf(&target))
}

// TryFindBinary is like FindBinary but returns the violation.
func (t *Typed[T]) TryFindBinary(p *Performance, compare func(a, b T) int, target T) (int, error) {
	return t.arr.TryFindBinary(p, compareFunc(compare), bytesOf(&target))
}

// Values reads every element in order. Each element costs one read on p.
func (t *Typed[T]) Values(p *Performance) []T {
	out := make([]T, t.arr.Len())
	for i := range out {
		out[i] = t.Read(p, i)
	}
	return out
}
