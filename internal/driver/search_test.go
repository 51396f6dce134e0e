package driver

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareSearch(t *testing.T) {
	for _, storage := range []string{"heap", "arena", "mmap"} {
		t.Run(storage, func(t *testing.T) {
			env := Env{Storage: storage, ChunkSize: 128}
			report, err := CompareSearch(context.Background(), env, SearchOptions{Size: 64, Trials: 4, Seed: 7})
			require.NoError(t, err)

			assert.Equal(t, storage, report.Storage)
			require.Len(t, report.Trials, 4)

			var lookups int
			for i, tr := range report.Trials {
				assert.Equal(t, i, tr.Trial)
				assert.Equal(t, 64, tr.Present)
				assert.GreaterOrEqual(t, tr.Absent, 2)
				// One array per trial, destroyed before the report.
				assert.Equal(t, uint64(1), tr.Metrics.Allocations)
				assert.Equal(t, uint64(1), tr.Metrics.Deallocations)
				assert.Equal(t, uint64(64), tr.Metrics.Writes)
				assert.Equal(t, tr.LinearReads+tr.BinaryReads, tr.Metrics.Reads)
				lookups += tr.Present + tr.Absent
			}
			assert.Equal(t, lookups, report.Lookups)
			assert.Less(t, report.BinaryPerLookup, report.LinearPerLookup)
		})
	}
}

func TestCompareSearchDeterministic(t *testing.T) {
	opts := SearchOptions{Size: 32, Trials: 3, Seed: 42}
	a, err := CompareSearch(context.Background(), Env{}, opts)
	require.NoError(t, err)
	b, err := CompareSearch(context.Background(), Env{}, opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "heap", a.Storage)
}

func TestCompareSearchEmpty(t *testing.T) {
	report, err := CompareSearch(context.Background(), Env{}, SearchOptions{Size: 0, Trials: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Lookups)
	assert.Zero(t, report.LinearReads)
	assert.Zero(t, report.BinaryReads)
}

func TestCompareSearchOptions(t *testing.T) {
	_, err := CompareSearch(context.Background(), Env{}, SearchOptions{Size: -1, Trials: 1})
	require.ErrorContains(t, err, "size -1")

	_, err = CompareSearch(context.Background(), Env{}, SearchOptions{Size: 4})
	require.ErrorContains(t, err, "trials 0")

	_, err = CompareSearch(context.Background(), Env{Storage: "tape"}, SearchOptions{Size: 4, Trials: 1})
	require.ErrorContains(t, err, `unknown storage "tape"`)
}

func TestCompareSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CompareSearch(ctx, Env{}, SearchOptions{Size: 8, Trials: 2})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSortedValues(t *testing.T) {
	values := sortedValues(rand.New(rand.NewPCG(1, 2)), 100)
	require.Len(t, values, 100)
	for i := 1; i < len(values); i++ {
		gap := values[i] - values[i-1]
		assert.True(t, gap >= 1 && gap <= 3, "gap %d at %d", gap, i)
	}
}

func TestAbsentValues(t *testing.T) {
	assert.Equal(t, []int32{0}, absentValues(nil))
	assert.Equal(t, []int32{4, 6}, absentValues([]int32{5}))
	assert.Equal(t, []int32{4, 7, 9}, absentValues([]int32{5, 6, 8}))
}
