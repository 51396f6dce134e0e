package fixedarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorages(t *testing.T) {
	storages := []Storage{HeapStorage{}, MappedStorage{}, NewArena(512)}

	for _, s := range storages {
		t.Run(s.Name(), func(t *testing.T) {
			buf, err := s.Allocate(64)
			require.NoError(t, err)
			require.Len(t, buf, 64)
			for _, b := range buf {
				require.Zero(t, b)
			}
			buf[63] = 1
			require.NoError(t, s.Free(buf))

			empty, err := s.Allocate(0)
			require.NoError(t, err)
			assert.Empty(t, empty)
			require.NoError(t, s.Free(empty))
		})
	}
}

func TestArrayOnEveryStorage(t *testing.T) {
	storages := []Storage{HeapStorage{}, MappedStorage{}, NewArena(0)}

	for _, s := range storages {
		t.Run(s.Name(), func(t *testing.T) {
			p := NewPerformance()
			arr := NewTyped[uint64](p, 1024, WithStorage(s))
			for i := uint64(0); i < 1024; i++ {
				arr.Append(p, i*i)
			}
			assert.Equal(t, 500, arr.FindBinary(p, func(a, b uint64) int {
				switch {
				case a < b:
					return -1
				case a > b:
					return 1
				}
				return 0
			}, 500*500))
			arr.Destroy(p)
			assert.Zero(t, p.Live())
		})
	}
}

func TestWithStorageNil(t *testing.T) {
	o := buildOptions([]Option{WithStorage(nil), WithLogger(nil)})
	assert.Equal(t, "heap", o.storage.Name())
	assert.NotNil(t, o.logger)
}
