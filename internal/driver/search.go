package driver

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pavanmanishd/fixedarray"
)

// SearchOptions configures CompareSearch.
type SearchOptions struct {
	Size   int
	Trials int
	Seed   uint64
}

// TrialResult holds the read counts of one trial.
type TrialResult struct {
	Trial       int                           `json:"trial" yaml:"trial"`
	Present     int                           `json:"present" yaml:"present"`
	Absent      int                           `json:"absent" yaml:"absent"`
	LinearReads uint64                        `json:"linear_reads" yaml:"linear_reads"`
	BinaryReads uint64                        `json:"binary_reads" yaml:"binary_reads"`
	Metrics     fixedarray.PerformanceMetrics `json:"metrics" yaml:"metrics"`
}

// SearchReport aggregates the trials of CompareSearch.
type SearchReport struct {
	Size            int           `json:"size" yaml:"size"`
	Storage         string        `json:"storage" yaml:"storage"`
	Lookups         int           `json:"lookups" yaml:"lookups"`
	LinearReads     uint64        `json:"linear_reads" yaml:"linear_reads"`
	BinaryReads     uint64        `json:"binary_reads" yaml:"binary_reads"`
	LinearPerLookup float64       `json:"linear_per_lookup" yaml:"linear_per_lookup"`
	BinaryPerLookup float64       `json:"binary_per_lookup" yaml:"binary_per_lookup"`
	Trials          []TrialResult `json:"trials" yaml:"trials"`
}

// CompareSearch fills a sorted int32 array per trial and looks up every
// element plus values known to be absent, once with FindLinear and once
// with FindBinary, counting the reads each method costs. Trials run
// concurrently; each owns its tracker, storage and array.
func CompareSearch(ctx context.Context, env Env, opts SearchOptions) (*SearchReport, error) {
	if opts.Size < 0 {
		return nil, fmt.Errorf("size %d: must not be negative", opts.Size)
	}
	if opts.Trials <= 0 {
		return nil, fmt.Errorf("trials %d: must be positive", opts.Trials)
	}

	results := make([]TrialResult, opts.Trials)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range results {
		g.Go(func() error {
			r, err := runTrial(ctx, env, opts, i)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &SearchReport{Size: opts.Size, Storage: env.Storage, Trials: results}
	if report.Storage == "" {
		report.Storage = "heap"
	}
	for _, r := range results {
		report.Lookups += r.Present + r.Absent
		report.LinearReads += r.LinearReads
		report.BinaryReads += r.BinaryReads
	}
	if report.Lookups > 0 {
		report.LinearPerLookup = float64(report.LinearReads) / float64(report.Lookups)
		report.BinaryPerLookup = float64(report.BinaryReads) / float64(report.Lookups)
	}
	env.logger().Info("search comparison completed",
		"size", opts.Size,
		"trials", opts.Trials,
		"lookups", report.Lookups,
	)
	return report, nil
}

// runTrial uses the Try* API: a violation here is a bug in the driver and is
// returned as an error rather than terminating the run.
func runTrial(ctx context.Context, env Env, opts SearchOptions, trial int) (res TrialResult, err error) {
	storage, closeStorage, err := env.openStorage()
	if err != nil {
		return res, err
	}
	defer func() { err = errors.Join(err, closeStorage()) }()

	p := fixedarray.NewPerformance()
	values := sortedValues(rand.New(rand.NewPCG(opts.Seed, uint64(trial))), opts.Size)

	arr, err := fixedarray.TryNewTyped[int32](p, len(values), env.options(storage)...)
	if err != nil {
		return res, err
	}
	defer func() {
		err = errors.Join(err, arr.TryDestroy(p))
		res.Metrics = p.Metrics()
	}()

	for _, v := range values {
		if err := arr.TryAppend(p, v); err != nil {
			return res, err
		}
	}

	res.Trial = trial
	lookup := func(target int32, want int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		before := p.Reads()
		li, err := arr.TryFindLinear(p, cmp.Compare[int32], target)
		if err != nil {
			return err
		}
		mid := p.Reads()
		bi, err := arr.TryFindBinary(p, cmp.Compare[int32], target)
		if err != nil {
			return err
		}
		res.LinearReads += mid - before
		res.BinaryReads += p.Reads() - mid
		if li != want || bi != want {
			return fmt.Errorf("target %d: linear=%d binary=%d, want %d", target, li, bi, want)
		}
		return nil
	}

	for i, v := range values {
		if err := lookup(v, i); err != nil {
			return res, err
		}
		res.Present++
	}
	for _, v := range absentValues(values) {
		if err := lookup(v, fixedarray.NotFound); err != nil {
			return res, err
		}
		res.Absent++
	}
	return res, nil
}

// sortedValues returns n strictly increasing values with random gaps of
// one to three, so absent values exist between some neighbours.
func sortedValues(rng *rand.Rand, n int) []int32 {
	values := make([]int32, n)
	v := int32(rng.IntN(100)) - 50
	for i := range values {
		v += int32(1 + rng.IntN(3))
		values[i] = v
	}
	return values
}

// absentValues returns values that do not occur in the sorted slice: one
// below the minimum, one above the maximum, and one inside every gap.
func absentValues(values []int32) []int32 {
	if len(values) == 0 {
		return []int32{0}
	}
	out := []int32{values[0] - 1}
	for i := 1; i < len(values); i++ {
		if values[i]-values[i-1] > 1 {
			out = append(out, values[i-1]+1)
		}
	}
	return append(out, values[len(values)-1]+1)
}
