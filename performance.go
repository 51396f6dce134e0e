package fixedarray

import "fmt"

// Performance counts the memory events performed through the Array API.
// A single tracker may observe any number of arrays. Counters only move as a
// side effect of array operations; callers can read them but not set them.
type Performance struct {
	reads         uint64
	writes        uint64
	allocations   uint64
	deallocations uint64
}

// NewPerformance returns a tracker with every counter at zero.
func NewPerformance() *Performance {
	return &Performance{}
}

// Reads returns the number of successful element reads.
func (p *Performance) Reads() uint64 { return p.reads }

// Writes returns the number of successful element writes.
func (p *Performance) Writes() uint64 { return p.writes }

// Allocations returns the number of arrays created.
func (p *Performance) Allocations() uint64 { return p.allocations }

// Deallocations returns the number of arrays destroyed.
func (p *Performance) Deallocations() uint64 { return p.deallocations }

// Metrics returns a snapshot of the counters.
func (p *Performance) Metrics() PerformanceMetrics {
	return PerformanceMetrics{
		Reads:         p.reads,
		Writes:        p.writes,
		Allocations:   p.allocations,
		Deallocations: p.deallocations,
	}
}

// Live returns the number of arrays created but not yet destroyed.
func (p *Performance) Live() uint64 {
	return p.allocations - p.deallocations
}

func (p *Performance) countRead() { p.reads++ }
func (p *Performance) countWrite() { p.writes++ }
func (p *Performance) countAlloc() { p.allocations++ }
func (p *Performance) countDealloc() { p.deallocations++ }

// PerformanceMetrics is a point-in-time copy of a Performance tracker.
type PerformanceMetrics struct {
	Reads         uint64 `json:"reads" yaml:"reads"`
	Writes        uint64 `json:"writes" yaml:"writes"`
	Allocations   uint64 `json:"allocations" yaml:"allocations"`
	Deallocations uint64 `json:"deallocations" yaml:"deallocations"`
}

// Sub returns the counter deltas between m and an earlier snapshot.
//
//	before := p.Metrics()
//	arr.Insert(p, 0, v)
//	cost := p.Metrics().Sub(before)
func (m PerformanceMetrics) Sub(earlier PerformanceMetrics) PerformanceMetrics {
	return PerformanceMetrics{
		Reads:         m.Reads - earlier.Reads,
		Writes:        m.Writes - earlier.Writes,
		Allocations:   m.Allocations - earlier.Allocations,
		Deallocations: m.Deallocations - earlier.Deallocations,
	}
}

// Accesses returns reads plus writes.
func (m PerformanceMetrics) Accesses() uint64 {
	return m.Reads + m.Writes
}

func (m PerformanceMetrics) String() string {
	return fmt.Sprintf("reads=%d writes=%d allocations=%d deallocations=%d",
		m.Reads, m.Writes, m.Allocations, m.Deallocations)
}
