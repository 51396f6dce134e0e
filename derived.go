package fixedarray

// Compare orders an element against a target. It returns a negative value
// when element sorts before target, zero when they are equal and a positive
// value when element sorts after target (the sign of element - target).
type Compare func(element, target []byte) int

// Append writes src at index Len. It panics with a *ViolationError, after
// destroying the array, when the array is full.
func (a *Array) Append(p *Performance, src []byte) {
	if err := a.append(p, src); err != nil {
		a.fail(p, err)
	}
}

// TryAppend is like Append but returns the violation.
func (a *Array) TryAppend(p *Performance, src []byte) error {
	return a.append(p, src)
}

// Insert places src at index, moving elements [index, Len) one slot toward
// the end. It costs Len-index reads and Len-index+1 writes. It panics with
// a *ViolationError, after destroying the array, when the array is full or
// index is outside [0, Len].
func (a *Array) Insert(p *Performance, index int, src []byte) {
	if err := a.insert(p, "insert", index, src); err != nil {
		a.fail(p, err)
	}
}

// TryInsert is like Insert but returns the violation. The array is left
// untouched when a precondition fails.
func (a *Array) TryInsert(p *Performance, index int, src []byte) error {
	return a.insert(p, "insert", index, src)
}

// Prepend inserts src at index 0.
func (a *Array) Prepend(p *Performance, src []byte) {
	if err := a.insert(p, "prepend", 0, src); err != nil {
		a.fail(p, err)
	}
}

// TryPrepend is like Prepend but returns the violation.
func (a *Array) TryPrepend(p *Performance, src []byte) error {
	return a.insert(p, "prepend", 0, src)
}

// Delete removes the element at index, moving elements (index, Len) one
// slot toward the start. It costs Len-index reads and Len-index-1 writes.
// It panics with a *ViolationError, after destroying the array, unless
// 0 <= index < Len.
func (a *Array) Delete(p *Performance, index int) {
	if err := a.delete(p, index); err != nil {
		a.fail(p, err)
	}
}

// TryDelete is like Delete but returns the violation. The array is left
// untouched when a precondition fails.
func (a *Array) TryDelete(p *Performance, index int) error {
	return a.delete(p, index)
}

// FindLinear returns the first index whose element compares equal to
// target, or NotFound.
func (a *Array) FindLinear(p *Performance, compare Compare, target []byte) int {
	i, err := a.findLinear(p, compare, target)
	if err != nil {
		a.fail(p, err)
	}
	return i
}

// TryFindLinear is like FindLinear but returns the violation.
func (a *Array) TryFindLinear(p *Performance, compare Compare, target []byte) (int, error) {
	return a.findLinear(p, compare, target)
}

// FindBinary searches an array sorted by compare and returns the index of
// an element equal to target, or NotFound. The result is unspecified if the
// array is not sorted.
func (a *Array) FindBinary(p *Performance, compare Compare, target []byte) int {
	i, err := a.findBinary(p, compare, target)
	if err != nil {
		a.fail(p, err)
	}
	return i
}

// TryFindBinary is like FindBinary but returns the violation.
func (a *Array) TryFindBinary(p *Performance, compare Compare, target []byte) (int, error) {
	return a.findBinary(p, compare, target)
}

func (a *Array) append(p *Performance, src []byte) error {
	return a.write(p, a.nel, src)
}

func (a *Array) insert(p *Performance, op string, index int, src []byte) error {
	if err := a.usable(p, op, index); err != nil {
		return err
	}
	if index < 0 || index > a.nel {
		return a.violation(op, index, ErrOutOfBounds)
	}
	if a.nel >= a.capacity {
		return a.violation(op, index, ErrFull)
	}
	if len(src) < a.width {
		return a.violation(op, index, ErrElementSize)
	}

	// carry holds the value destined for slot i; the value displaced from
	// slot i becomes the next carry.
	carry := make([]byte, a.width)
	next := make([]byte, a.width)
	copy(carry, src)
	end := a.nel
	for i := index; i < end; i++ {
		if err := a.read(p, i, next); err != nil {
			return err
		}
		if err := a.write(p, i, carry); err != nil {
			return err
		}
		carry, next = next, carry
	}
	return a.write(p, end, carry)
}

func (a *Array) delete(p *Performance, index int) error {
	if err := a.usable(p, "delete", index); err != nil {
		return err
	}
	if a.nel == 0 {
		return a.violation("delete", index, ErrEmpty)
	}
	if index < 0 || index >= a.nel {
		return a.violation("delete", index, ErrOutOfBounds)
	}

	// Walk down from the last element: carry holds the value destined for
	// slot i-1, the value it displaces becomes the next carry.
	carry := make([]byte, a.width)
	next := make([]byte, a.width)
	if err := a.read(p, a.nel-1, carry); err != nil {
		return err
	}
	for i := a.nel - 1; i > index; i-- {
		if err := a.read(p, i-1, next); err != nil {
			return err
		}
		if err := a.write(p, i-1, carry); err != nil {
			return err
		}
		carry, next = next, carry
	}
	return a.contract(p)
}

func (a *Array) findLinear(p *Performance, compare Compare, target []byte) (int, error) {
	if err := a.usable(p, "find-linear", -1); err != nil {
		return NotFound, err
	}
	buf := make([]byte, a.width)
	for i := 0; i < a.nel; i++ {
		if err := a.read(p, i, buf); err != nil {
			return NotFound, err
		}
		if compare(buf, target) == 0 {
			return i, nil
		}
	}
	return NotFound, nil
}

func (a *Array) findBinary(p *Performance, compare Compare, target []byte) (int, error) {
	if err := a.usable(p, "find-binary", -1); err != nil {
		return NotFound, err
	}
	buf := make([]byte, a.width)
	return a.searchRange(p, compare, target, buf, 0, a.nel-1)
}

// searchRange looks for target in the inclusive range [start, end]. The
// midpoint is (start + (end-1)) / 2, which leans toward start; the read
// sequence of a search depends on it.
func (a *Array) searchRange(p *Performance, compare Compare, target, buf []byte, start, end int) (int, error) {
	if start > end {
		return NotFound, nil
	}
	if start == end {
		if err := a.read(p, start, buf); err != nil {
			return NotFound, err
		}
		if compare(buf, target) == 0 {
			return start, nil
		}
		return NotFound, nil
	}

	mid := (start + (end - 1)) / 2
	if err := a.read(p, mid, buf); err != nil {
		return NotFound, err
	}
	switch c := compare(buf, target); {
	case c > 0:
		return a.searchRange(p, compare, target, buf, start, mid-1)
	case c < 0:
		return a.searchRange(p, compare, target, buf, mid+1, end)
	default:
		return mid, nil
	}
}
