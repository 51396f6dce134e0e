// Package fixedarray implements a fixed-capacity array of fixed-width
// elements stored in one contiguous byte buffer, together with a
// Performance tracker that counts the reads, writes, allocations and
// deallocations performed through it.
//
// # Overview
//
// An Array holds at most Cap elements of Width bytes each. Element i lives
// at byte offset i*Width. Four primitives touch the buffer:
//
//   - Read copies element i out (0 <= i < Len)
//   - Write copies an element in (0 <= i <= Len, i < Cap); writing at Len
//     grows the array by one
//   - Contract drops the last element
//   - Destroy returns the buffer to its Storage
//
// Every other operation (Append, Insert, Prepend, Delete, FindLinear,
// FindBinary) is built from these primitives only, so each element access is
// bounds-checked and counted exactly once.
//
// # Basic Usage
//
//	p := fixedarray.NewPerformance()
//	arr := fixedarray.NewTyped[int32](p, 5)
//	defer arr.Destroy(p)
//
//	arr.Append(p, 10)
//	arr.Append(p, 30)
//	arr.Insert(p, 1, 20)                          // [10 20 30]
//	i := arr.FindBinary(p, cmp.Compare[int32], 20) // 1
//
//	fmt.Println(p.Metrics()) // reads=3 writes=4 allocations=1 deallocations=0
//
// Typed[T] stores values of a pointer-free type T by their in-memory
// representation. The byte-level Array takes element bytes and a Compare
// function directly, for callers that only know the element width.
//
// # Violations
//
// A precondition violation (index out of range, contracting an empty array,
// writing past capacity, using a destroyed array) is treated as a program
// defect. The default methods release the array, counting the deallocation,
// and then panic with a *ViolationError. The caller at the top of the stack
// decides whether to terminate; AsViolation recovers the error value.
//
// Each method has a Try variant that returns the *ViolationError instead and
// leaves the array unchanged:
//
//	if err := arr.TryDelete(p, 7); errors.Is(err, fixedarray.ErrOutOfBounds) {
//		// handle
//	}
//
// # Storage
//
// The backing buffer comes from a Storage chosen with WithStorage:
//
//   - HeapStorage (default): zeroed Go heap memory
//   - Arena: a chunked bump allocator shared by many arrays; released in
//     bulk once every array allocated from it is destroyed
//   - MappedStorage: anonymous memory mappings outside the Go heap,
//     unmapped on Destroy
//
// # Thread Safety
//
// Arrays, trackers and arenas are not goroutine-safe. Use one
// Array+Performance pair per goroutine, or guard the pair with a mutex.
package fixedarray
