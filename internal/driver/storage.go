// Package driver runs arraybench workloads against fixedarray arrays and
// formats their reports. Every element access goes through the public
// fixedarray API so the reported counters are the library's own.
package driver

import (
	"fmt"
	"log/slog"

	"github.com/pavanmanishd/fixedarray"
)

// Env carries what every workload needs to create arrays.
type Env struct {
	// Storage names the allocator: "heap", "arena" or "mmap".
	Storage   string
	ChunkSize int
	Logger    *slog.Logger
}

// openStorage returns a fresh allocator and the function that releases it.
// Arenas are not goroutine-safe, so each workload opens its own.
func (e Env) openStorage() (fixedarray.Storage, func() error, error) {
	switch e.Storage {
	case "", "heap":
		return fixedarray.HeapStorage{}, func() error { return nil }, nil
	case "arena":
		a := fixedarray.NewArena(e.ChunkSize)
		return a, a.Release, nil
	case "mmap":
		return fixedarray.MappedStorage{}, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage %q", e.Storage)
	}
}

func (e Env) options(s fixedarray.Storage) []fixedarray.Option {
	return []fixedarray.Option{
		fixedarray.WithStorage(s),
		fixedarray.WithLogger(e.logger()),
	}
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// guard runs fn and converts a fatal array violation raised inside it into
// a returned *fixedarray.ViolationError. Other panics propagate.
func guard(fn func()) (violation *fixedarray.ViolationError) {
	defer func() {
		if r := recover(); r != nil {
			v, ok := fixedarray.AsViolation(r)
			if !ok {
				panic(r)
			}
			violation = v
		}
	}()
	fn()
	return nil
}
