package fixedarray

import (
	"errors"
	"unsafe"
)

// DefaultChunkSize is the default chunk size for new arenas (64 KiB).
const DefaultChunkSize = 1 << 16

var (
	// ErrArenaInUse is returned when releasing or resetting an arena that
	// still backs live arrays.
	ErrArenaInUse = errors.New("fixedarray: arena still backs live arrays")
	// ErrArenaUnbalanced is returned by Free when the arena has no live
	// buffer to give back.
	ErrArenaUnbalanced = errors.New("fixedarray: arena free without a live buffer")
)

// chunk represents a single memory chunk within an arena.
type chunk struct {
	buf    []byte  // backing memory
	offset uintptr // allocation offset within buf
}

// Arena is a chunked bump allocator that can back many arrays at once.
// Individual frees only bookkeep; once every array allocated from the arena
// has been destroyed the offsets rewind and the chunks are reused.
// Not goroutine-safe.
type Arena struct {
	chunks    []chunk
	chunkSize int
	current   int // index of the chunk bumped last
	live      int // buffers handed out and not yet freed
	released  bool
}

var _ Storage = (*Arena)(nil)

// NewArena creates a new Arena with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewArena(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &Arena{chunkSize: chunkSize}
	a.grow(chunkSize)
	return a
}

// Allocate returns a zeroed, pointer-aligned buffer of size bytes carved out
// of the current chunk, growing the arena when it does not fit.
func (a *Arena) Allocate(size int) ([]byte, error) {
	if a.released {
		return nil, ErrReleased
	}
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		a.live++
		return nil, nil
	}

	c := &a.chunks[a.current]
	off := alignPtr(c.offset)
	if off+uintptr(size) > uintptr(len(c.buf)) {
		a.grow(size)
		c = &a.chunks[a.current]
		off = 0
	}

	start := int(off)
	c.offset = off + uintptr(size)
	b := c.buf[start : start+size : start+size]
	// Chunks are reused after a rewind.
	clear(b)
	a.live++
	return b, nil
}

// Free returns a buffer to the arena. Memory is reclaimed in bulk when the
// last live buffer is freed.
func (a *Arena) Free([]byte) error {
	if a.released {
		return ErrReleased
	}
	if a.live == 0 {
		return ErrArenaUnbalanced
	}
	a.live--
	if a.live == 0 {
		a.rewind()
	}
	return nil
}

// Name implements Storage.
func (a *Arena) Name() string { return "arena" }

// Reset rewinds every chunk for reuse. It fails while arrays allocated from
// the arena are still alive.
func (a *Arena) Reset() error {
	if a.released {
		return ErrReleased
	}
	if a.live > 0 {
		return ErrArenaInUse
	}
	a.rewind()
	return nil
}

// Release drops all chunks and makes the arena unusable. It fails while
// arrays allocated from the arena are still alive.
func (a *Arena) Release() error {
	if a.released {
		return nil
	}
	if a.live > 0 {
		return ErrArenaInUse
	}
	a.chunks = nil
	a.current = 0
	a.released = true
	return nil
}

func (a *Arena) rewind() {
	for i := range a.chunks {
		a.chunks[i].offset = 0
	}
	a.current = 0
}

// grow makes room for at least min bytes, preferring an already allocated
// chunk that follows the current one.
func (a *Arena) grow(min int) {
	for i := a.current + 1; i < len(a.chunks); i++ {
		if len(a.chunks[i].buf) >= min && a.chunks[i].offset == 0 {
			a.current = i
			return
		}
	}
	size := a.chunkSize
	if min > size {
		size = min
	}
	a.chunks = append(a.chunks, chunk{buf: make([]byte, size)})
	a.current = len(a.chunks) - 1
}

// alignPtr aligns the offset up to pointer size alignment.
func alignPtr(off uintptr) uintptr {
	const align = unsafe.Sizeof(uintptr(0))
	mask := align - 1
	return (off + mask) & ^mask
}

// Live returns the number of buffers handed out and not yet freed.
func (a *Arena) Live() int { return a.live }

// SizeInUse returns the number of bytes currently carved out of the chunks,
// including alignment padding.
func (a *Arena) SizeInUse() int {
	sum := 0
	for _, c := range a.chunks {
		sum += int(c.offset)
	}
	return sum
}

// NumChunks returns the number of chunks held by the arena.
func (a *Arena) NumChunks() int { return len(a.chunks) }

// Capacity returns the total capacity (in bytes) of all chunks.
func (a *Arena) Capacity() int {
	sum := 0
	for _, c := range a.chunks {
		sum += len(c.buf)
	}
	return sum
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		NumChunks:   a.NumChunks(),
		ChunkSize:   a.chunkSize,
		Live:        a.live,
		Utilization: a.Utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse   int     `json:"size_in_use" yaml:"size_in_use"`
	Capacity    int     `json:"capacity" yaml:"capacity"`
	NumChunks   int     `json:"num_chunks" yaml:"num_chunks"`
	ChunkSize   int     `json:"chunk_size" yaml:"chunk_size"`
	Live        int     `json:"live" yaml:"live"`
	Utilization float64 `json:"utilization" yaml:"utilization"`
}
