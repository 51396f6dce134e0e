package driver

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/eapache/queue"
	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/fixedarray"
)

// Script operations.
const (
	OpAppend     = "append"
	OpInsert     = "insert"
	OpPrepend    = "prepend"
	OpDelete     = "delete"
	OpRead       = "read"
	OpWrite      = "write"
	OpContract   = "contract"
	OpFindLinear = "find-linear"
	OpFindBinary = "find-binary"
)

// Script is a sequence of operations on one int32 array.
type Script struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
	Steps    []Step `yaml:"steps"`
}

// Step is one array operation. Index and Value are used as the operation
// requires.
type Step struct {
	Op    string `yaml:"op"`
	Index int    `yaml:"index,omitempty"`
	Value int32  `yaml:"value,omitempty"`
}

func (s Step) String() string {
	switch s.Op {
	case OpAppend, OpPrepend, OpFindLinear, OpFindBinary:
		return fmt.Sprintf("%s(%d)", s.Op, s.Value)
	case OpInsert, OpWrite:
		return fmt.Sprintf("%s(%d, %d)", s.Op, s.Index, s.Value)
	case OpDelete, OpRead:
		return fmt.Sprintf("%s(%d)", s.Op, s.Index)
	default:
		return s.Op + "()"
	}
}

// DefaultScenario is the reference walk-through: three appends, an insert,
// a delete, a binary search, and finally a read past the end, which is a
// fatal violation.
func DefaultScenario() *Script {
	return &Script{
		Name:     "reference",
		Capacity: 5,
		Steps: []Step{
			{Op: OpAppend, Value: 10},
			{Op: OpAppend, Value: 20},
			{Op: OpAppend, Value: 30},
			{Op: OpInsert, Index: 1, Value: 15},
			{Op: OpDelete, Index: 0},
			{Op: OpFindBinary, Value: 20},
			{Op: OpRead, Index: 5},
		},
	}
}

// LoadScript decodes and validates a YAML script.
func LoadScript(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects unknown operations and a negative capacity. Index
// ranges are deliberately not checked: out-of-range steps exercise the
// array's own violation handling.
func (s *Script) Validate() error {
	var errs []error
	if s.Capacity < 0 {
		errs = append(errs, fmt.Errorf("capacity %d: must not be negative", s.Capacity))
	}
	for i, st := range s.Steps {
		switch st.Op {
		case OpAppend, OpInsert, OpPrepend, OpDelete, OpRead, OpWrite, OpContract, OpFindLinear, OpFindBinary:
		default:
			errs = append(errs, fmt.Errorf("step %d: unknown op %q", i, st.Op))
		}
	}
	return errors.Join(errs...)
}

// StepResult records the array after one step.
type StepResult struct {
	Step      string                        `json:"step" yaml:"step"`
	Result    *int64                        `json:"result,omitempty" yaml:"result,omitempty"`
	Values    []int32                       `json:"values" yaml:"values"`
	Len       int                           `json:"nel" yaml:"nel"`
	Cost      fixedarray.PerformanceMetrics `json:"cost" yaml:"cost"`
	Metrics   fixedarray.PerformanceMetrics `json:"metrics" yaml:"metrics"`
	Violation string                        `json:"violation,omitempty" yaml:"violation,omitempty"`
}

// ScriptReport is the outcome of RunScript.
type ScriptReport struct {
	Name     string       `json:"name" yaml:"name"`
	Storage  string       `json:"storage" yaml:"storage"`
	Capacity int          `json:"capacity" yaml:"capacity"`
	Steps    []StepResult `json:"steps" yaml:"steps"`
	// Skipped counts the steps left unexecuted after a violation.
	Skipped   int                           `json:"skipped" yaml:"skipped"`
	Violation string                        `json:"violation,omitempty" yaml:"violation,omitempty"`
	Final     fixedarray.PerformanceMetrics `json:"final" yaml:"final"`
	Live      uint64                        `json:"live" yaml:"live"`
}

// RunScript executes s on a fresh int32 array using the fatal API. A
// violation stops the script: the array has already been released by the
// library, the report records the violation, and RunScript still returns a
// nil error. Element values shown in the report are read through a
// separate tracker so they do not inflate the counters.
func RunScript(ctx context.Context, env Env, s *Script) (report *ScriptReport, err error) {
	storage, closeStorage, err := env.openStorage()
	if err != nil {
		return nil, err
	}

	p := fixedarray.NewPerformance()
	display := fixedarray.NewPerformance()
	report = &ScriptReport{Name: s.Name, Storage: storage.Name(), Capacity: s.Capacity}

	var arr *fixedarray.Typed[int32]
	defer func() {
		if arr != nil && !arr.Released() {
			err = errors.Join(err, arr.TryDestroy(p))
		}
		err = errors.Join(err, closeStorage())
		if err == nil {
			report.Final = p.Metrics()
			report.Live = p.Live()
		}
	}()

	if v := guard(func() { arr = fixedarray.NewTyped[int32](p, s.Capacity, env.options(storage)...) }); v != nil {
		report.Violation = v.Error()
		report.Skipped = len(s.Steps)
		return report, nil
	}

	pending := queue.New()
	for _, st := range s.Steps {
		pending.Add(st)
	}

	for pending.Length() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st := pending.Remove().(Step)

		before := p.Metrics()
		var result *int64
		v := guard(func() { result = apply(p, arr, st) })
		res := StepResult{
			Step:    st.String(),
			Result:  result,
			Cost:    p.Metrics().Sub(before),
			Metrics: p.Metrics(),
		}
		if v != nil {
			res.Violation = v.Error()
			report.Steps = append(report.Steps, res)
			report.Violation = v.Error()
			report.Skipped = pending.Length()
			env.logger().Warn("script stopped on violation", "script", s.Name, "step", res.Step, "error", v)
			return report, nil
		}
		res.Len = arr.Len()
		res.Values = arr.Values(display)
		report.Steps = append(report.Steps, res)
	}
	return report, nil
}

// apply performs one step; read and find steps return their result.
func apply(p *fixedarray.Performance, arr *fixedarray.Typed[int32], st Step) *int64 {
	var r int64
	switch st.Op {
	case OpAppend:
		arr.Append(p, st.Value)
	case OpInsert:
		arr.Insert(p, st.Index, st.Value)
	case OpPrepend:
		arr.Prepend(p, st.Value)
	case OpDelete:
		arr.Delete(p, st.Index)
	case OpWrite:
		arr.Write(p, st.Index, st.Value)
	case OpContract:
		arr.Contract(p)
	case OpRead:
		r = int64(arr.Read(p, st.Index))
		return &r
	case OpFindLinear:
		r = int64(arr.FindLinear(p, cmp.Compare[int32], st.Value))
		return &r
	case OpFindBinary:
		r = int64(arr.FindBinary(p, cmp.Compare[int32], st.Value))
		return &r
	}
	return nil
}
