package fixedarray

import (
	"cmp"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int32
}

func comparePoint(a, b point) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Y, b.Y)
}

func TestTypedWidth(t *testing.T) {
	p := NewPerformance()

	ints := NewTyped[int64](p, 3)
	defer ints.Destroy(p)
	assert.Equal(t, 8, ints.Array().Width())

	points := NewTyped[point](p, 3)
	defer points.Destroy(p)
	assert.Equal(t, int(unsafe.Sizeof(point{})), points.Array().Width())
	assert.Equal(t, 3, points.Cap())
}

func TestTypedZeroSize(t *testing.T) {
	p := NewPerformance()
	_, err := TryNewTyped[struct{}](p, 4)
	require.ErrorIs(t, err, ErrInvalidSize)
	requireFatal(t, ErrInvalidSize, func() { NewTyped[struct{}](p, 4) })
}

func TestTypedOperations(t *testing.T) {
	p := NewPerformance()
	arr := NewTyped[point](p, 5)
	defer arr.Destroy(p)

	arr.Append(p, point{1, 1})
	arr.Append(p, point{3, 3})
	arr.Insert(p, 1, point{2, 2})
	arr.Prepend(p, point{0, 0})
	arr.Write(p, 3, point{3, 4})

	assert.Equal(t, 4, arr.Len())
	assert.Equal(t, point{2, 2}, arr.Read(p, 2))

	before := p.Metrics()
	values := arr.Values(p)
	assert.Equal(t, []point{{0, 0}, {1, 1}, {2, 2}, {3, 4}}, values)
	assert.Equal(t, uint64(4), p.Metrics().Sub(before).Reads)

	assert.Equal(t, 2, arr.FindBinary(p, comparePoint, point{2, 2}))
	assert.Equal(t, 3, arr.FindLinear(p, comparePoint, point{3, 4}))
	assert.Equal(t, NotFound, arr.FindBinary(p, comparePoint, point{3, 3}))

	arr.Delete(p, 0)
	arr.Contract(p)
	assert.Equal(t, []point{{1, 1}, {2, 2}}, arr.Values(p))
}

func TestTypedTryVariants(t *testing.T) {
	p := NewPerformance()
	arr := NewTyped[float64](p, 2)

	require.NoError(t, arr.TryAppend(p, 1.5))
	require.NoError(t, arr.TryPrepend(p, 0.5))
	require.ErrorIs(t, arr.TryAppend(p, 2.5), ErrFull)
	require.ErrorIs(t, arr.TryInsert(p, 0, 2.5), ErrFull)
	require.ErrorIs(t, arr.TryWrite(p, 3, 2.5), ErrOutOfBounds)

	v, err := arr.TryRead(p, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)
	_, err = arr.TryRead(p, 2)
	require.ErrorIs(t, err, ErrOutOfBounds)

	i, err := arr.TryFindBinary(p, cmp.Compare[float64], 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	i, err = arr.TryFindLinear(p, cmp.Compare[float64], 9)
	require.NoError(t, err)
	assert.Equal(t, NotFound, i)

	require.NoError(t, arr.TryDelete(p, 0))
	require.NoError(t, arr.TryContract(p))
	require.ErrorIs(t, arr.TryContract(p), ErrEmpty)
	require.ErrorIs(t, arr.TryDelete(p, 0), ErrEmpty)

	require.NoError(t, arr.TryDestroy(p))
	assert.True(t, arr.Released())
	require.ErrorIs(t, arr.TryDestroy(p), ErrReleased)
}

func TestTypedFatalRead(t *testing.T) {
	p := NewPerformance()
	arr := NewTyped[int32](p, 5)
	arr.Append(p, 10)

	requireFatal(t, ErrOutOfBounds, func() { arr.Read(p, 1) })
	assert.True(t, arr.Released())
	assert.Zero(t, p.Live())
}

func TestTypedMatchesByteEncoding(t *testing.T) {
	p := NewPerformance()
	arr := NewTyped[int32](p, 2)
	defer arr.Destroy(p)

	arr.Append(p, -42)
	dst := make([]byte, 4)
	arr.Array().Read(p, 0, dst)
	assert.Equal(t, EncodeInt32(-42), dst)
	assert.Equal(t, 0, arr.Array().FindBinary(p, CompareInt32, EncodeInt32(-42)))
}
