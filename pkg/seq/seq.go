// Package seq implements the fixed-step time sequence model (component C1):
// construction, alignment, NaN-aware arithmetic, and window restriction.
package seq

import (
	"math"

	"github.com/tsplot/tsplot/pkg/tserr"
)

// Seq is an immutable fixed-step time sequence: values[i] is the sample at
// Start + i*Step. Missing samples are NaN.
type Seq struct {
	Start  int64 // milliseconds
	Step   int64 // milliseconds, > 0
	Values []float64
}

// New validates and constructs a Seq. Start must be aligned to step.
func New(start, step int64, values []float64) (Seq, error) {
	if step <= 0 {
		return Seq{}, tserr.Newf(tserr.Eval, "InvalidSeqSpec", "step must be positive, got %d", step)
	}
	if start%step != 0 {
		return Seq{}, tserr.Newf(tserr.Eval, "InvalidSeqSpec", "start %d is not aligned to step %d", start, step)
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	return Seq{Start: start, Step: step, Values: cp}, nil
}

// AlignedStart returns floor(t/step)*step, the alignment rule applied
// whenever a raw timestamp is snapped onto a step grid.
func AlignedStart(t, step int64) int64 {
	if t >= 0 {
		return (t / step) * step
	}
	// floor division for negative t
	q := t / step
	if t%step != 0 {
		q--
	}
	return q * step
}

// Len returns the number of samples.
func (s Seq) Len() int { return len(s.Values) }

// End returns the exclusive end time of the sequence's domain.
func (s Seq) End() int64 { return s.Start + s.Step*int64(len(s.Values)) }

// At returns the value at sample index i.
func (s Seq) At(i int) float64 {
	if i < 0 || i >= len(s.Values) {
		return math.NaN()
	}
	return s.Values[i]
}

// ValueAt returns the value at time t, or NaN if t falls outside the domain
// or is not on the step grid.
func (s Seq) ValueAt(t int64) float64 {
	if t < s.Start || t >= s.End() {
		return math.NaN()
	}
	if (t-s.Start)%s.Step != 0 {
		return math.NaN()
	}
	return s.Values[(t-s.Start)/s.Step]
}

// Bounded returns a sequence covering exactly [start, end) at s.Step,
// truncating or extending with NaN to match the requested span.
func (s Seq) Bounded(start, end int64) (Seq, error) {
	if end <= start {
		return Seq{}, tserr.Newf(tserr.Data, "InvalidContext", "end %d must be greater than start %d", end, start)
	}
	step := s.Step
	n := int((end - start) / step)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		t := start + int64(i)*step
		out[i] = s.ValueAt(t)
	}
	return Seq{Start: start, Step: step, Values: out}, nil
}

// Point is a single (time, value) pair.
type Point struct {
	Time  int64
	Value float64
}

// Points returns the sequence as a slice of (time, value) pairs.
func (s Seq) Points() []Point {
	pts := make([]Point, len(s.Values))
	for i, v := range s.Values {
		pts[i] = Point{Time: s.Start + int64(i)*s.Step, Value: v}
	}
	return pts
}

// BinOp is an elementwise binary operator used by Combine.
type BinOp func(a, b float64) float64

// Combine applies op elementwise across a and b, aligning both to a common
// [start,end) domain at step. Both inputs must already be at step (callers
// unify step via the evaluation context); a step mismatch fails with
// InvalidSeqSpec. NaN propagates through op as per the op's own definition —
// standard arithmetic ops below already satisfy "NaN in -> NaN out".
func Combine(a, b Seq, start, end, step int64, op BinOp) (Seq, error) {
	ab, err := a.Bounded(start, end)
	if err != nil {
		return Seq{}, err
	}
	bb, err := b.Bounded(start, end)
	if err != nil {
		return Seq{}, err
	}
	if ab.Step != step || bb.Step != step {
		// re-bucket is not needed in this evaluator: all series are produced
		// at the evaluation context's step already (see pkg/tagindex).
		return Seq{}, tserr.New(tserr.Eval, "InvalidSeqSpec", "step mismatch in Combine")
	}
	out := make([]float64, len(ab.Values))
	for i := range out {
		out[i] = op(ab.Values[i], bb.Values[i])
	}
	return Seq{Start: start, Step: step, Values: out}, nil
}

// Add, Sub, Mul, Div implement NaN-propagating arithmetic: NaN op x = NaN,
// 0/0 = NaN, x/0 = +-Inf preserved.
func Add(a, b float64) float64 { return a + b }
func Sub(a, b float64) float64 { return a - b }
func Mul(a, b float64) float64 { return a * b }

func Div(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	if b == 0 {
		if a == 0 {
			return math.NaN()
		}
		return a / b // +-Inf, preserved by IEEE 754 division
	}
	return a / b
}

// Gt, Ge, Lt, Le, Eq implement the per-sample comparison operators:
// 1.0/0.0 results, NaN stays NaN.
func cmp(a, b float64, f func(a, b float64) bool) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	if f(a, b) {
		return 1.0
	}
	return 0.0
}

func Gt(a, b float64) float64 { return cmp(a, b, func(a, b float64) bool { return a > b }) }
func Ge(a, b float64) float64 { return cmp(a, b, func(a, b float64) bool { return a >= b }) }
func Lt(a, b float64) float64 { return cmp(a, b, func(a, b float64) bool { return a < b }) }
func Le(a, b float64) float64 { return cmp(a, b, func(a, b float64) bool { return a <= b }) }
func Eq(a, b float64) float64 { return cmp(a, b, func(a, b float64) bool { return a == b }) }

// Const returns a constant sequence of value c over [start,end) at step,
// always materialized at the given step regardless of any series that
// originated it.
func Const(c float64, start, end, step int64) (Seq, error) {
	if step <= 0 || end <= start {
		return Seq{}, tserr.New(tserr.Data, "InvalidContext", "invalid const window")
	}
	if start%step != 0 {
		return Seq{}, tserr.Newf(tserr.Data, "InvalidContext", "start %d is not aligned to step %d", start, step)
	}
	n := int((end - start) / step)
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = c
	}
	return Seq{Start: start, Step: step, Values: vals}, nil
}
