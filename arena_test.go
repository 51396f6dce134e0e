package fixedarray

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArena(t *testing.T) {
	tests := []struct {
		size     int
		expected int
	}{
		{0, DefaultChunkSize},
		{-1, DefaultChunkSize},
		{1024, 1024},
	}
	for _, tt := range tests {
		a := NewArena(tt.size)
		assert.Equal(t, tt.expected, a.Metrics().ChunkSize, "NewArena(%d)", tt.size)
		assert.Equal(t, 1, a.NumChunks())
		assert.Equal(t, tt.expected, a.Capacity())
		require.NoError(t, a.Release())
	}
}

func TestArenaAllocate(t *testing.T) {
	a := NewArena(1024)

	b1, err := a.Allocate(100)
	require.NoError(t, err)
	assert.Len(t, b1, 100)
	assert.Equal(t, 100, cap(b1), "buffers must not overlap their neighbours")

	b2, err := a.Allocate(50)
	require.NoError(t, err)
	assert.Len(t, b2, 50)

	// Aligned, disjoint, zeroed.
	ptrSize := unsafe.Sizeof(uintptr(0))
	assert.Zero(t, uintptr(unsafe.Pointer(&b2[0]))%ptrSize)
	for i := range b1 {
		b1[i] = 0xff
	}
	for _, b := range b2 {
		assert.Zero(t, b)
	}
	assert.Equal(t, 2, a.Live())

	_, err = a.Allocate(-1)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestArenaGrowth(t *testing.T) {
	a := NewArena(1024)

	_, err := a.Allocate(1024)
	require.NoError(t, err)
	_, err = a.Allocate(1)
	require.NoError(t, err)
	assert.Equal(t, 2, a.NumChunks())

	// Larger than a chunk.
	big, err := a.Allocate(4096)
	require.NoError(t, err)
	assert.Len(t, big, 4096)
	assert.Equal(t, 3, a.NumChunks())
	assert.Greater(t, a.Capacity(), 4096)
}

func TestArenaRewindsWhenEmpty(t *testing.T) {
	a := NewArena(1024)

	b1, _ := a.Allocate(64)
	b2, _ := a.Allocate(64)
	assert.NotZero(t, a.SizeInUse())

	require.NoError(t, a.Free(b1))
	assert.NotZero(t, a.SizeInUse(), "memory is reclaimed only in bulk")
	require.NoError(t, a.Free(b2))
	assert.Zero(t, a.SizeInUse())
	assert.Zero(t, a.Utilization())

	err := a.Free(nil)
	require.ErrorIs(t, err, ErrArenaUnbalanced, "free without a live buffer")
	assert.NotErrorIs(t, err, ErrOutOfBounds)

	// Reused memory comes back zeroed.
	b1[0] = 7
	b3, _ := a.Allocate(64)
	assert.Zero(t, b3[0])
}

func TestArenaResetAndRelease(t *testing.T) {
	a := NewArena(1024)
	b, _ := a.Allocate(10)

	require.ErrorIs(t, a.Reset(), ErrArenaInUse)
	require.ErrorIs(t, a.Release(), ErrArenaInUse)

	require.NoError(t, a.Free(b))
	require.NoError(t, a.Reset())
	require.NoError(t, a.Release())
	require.NoError(t, a.Release(), "multiple releases are safe")

	_, err := a.Allocate(10)
	require.ErrorIs(t, err, ErrReleased)
	require.ErrorIs(t, a.Reset(), ErrReleased)
	require.ErrorIs(t, a.Free(nil), ErrReleased)
	assert.Zero(t, a.NumChunks())
	assert.Zero(t, a.Capacity())
}

func TestArenaBacksArrays(t *testing.T) {
	ar := NewArena(256)
	p := NewPerformance()

	arrays := make([]*Typed[int64], 10)
	for i := range arrays {
		arrays[i] = NewTyped[int64](p, 8, WithStorage(ar))
		for j := 0; j < 8; j++ {
			arrays[i].Append(p, int64(i*100+j))
		}
	}
	assert.Equal(t, 10, ar.Live())
	assert.Greater(t, ar.NumChunks(), 1)

	// Neighbouring arrays do not corrupt each other.
	for i, arr := range arrays {
		for j, v := range arr.Values(p) {
			require.Equal(t, int64(i*100+j), v)
		}
	}

	require.ErrorIs(t, ar.Release(), ErrArenaInUse)
	for _, arr := range arrays {
		arr.Destroy(p)
	}
	assert.Zero(t, ar.Live())
	assert.Zero(t, ar.SizeInUse())
	require.NoError(t, ar.Release())

	_, err := TryNew(p, 8, 1, WithStorage(ar))
	require.ErrorIs(t, err, ErrAllocation)
	require.ErrorIs(t, err, ErrReleased)
}

func TestArenaMetrics(t *testing.T) {
	a := NewArena(1024)
	_, _ = a.Allocate(100)
	_, _ = a.Allocate(200)

	m := a.Metrics()
	assert.Equal(t, a.SizeInUse(), m.SizeInUse)
	assert.Equal(t, 1024, m.Capacity)
	assert.Equal(t, 1, m.NumChunks)
	assert.Equal(t, 2, m.Live)
	// 100 rounds up to the next pointer-aligned offset.
	assert.Equal(t, int(alignPtr(100))+200, m.SizeInUse)
	assert.InDelta(t, float64(m.SizeInUse)/1024, m.Utilization, 1e-9)
}

func TestAlignPtr(t *testing.T) {
	ptrSize := unsafe.Sizeof(uintptr(0))

	tests := []struct {
		input    uintptr
		expected uintptr
	}{
		{0, 0},
		{1, ptrSize},
		{ptrSize, ptrSize},
		{ptrSize + 1, ptrSize * 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, alignPtr(tt.input), "alignPtr(%d)", tt.input)
	}
}

func BenchmarkArenaAllocate(b *testing.B) {
	a := NewArena(1024 * 1024)
	sizes := []int{8, 64, 256, 1024}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("size-%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				buf, _ := a.Allocate(size)
				_ = a.Free(buf)
			}
		})
	}
}
