package sql

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/tsplot/tsplot/pkg/evalctx"
	"github.com/tsplot/tsplot/pkg/seq"
	"github.com/tsplot/tsplot/pkg/series"
	"github.com/tsplot/tsplot/pkg/tagindex"
	"github.com/tsplot/tsplot/pkg/tserr"
)

// Evaluator interprets a Program against an operand stack (C4). Each
// operator pops a fixed arity, typechecks, and pushes a result. The
// evaluator resolves DataExprs eagerly against the supplied TagIndex and
// Context rather than deferring to a separate tree-walk phase.
type Evaluator struct {
	Index tagindex.TagIndex
	Ctx   evalctx.Context

	stack []Value
}

// NewEvaluator constructs an Evaluator bound to a tag index and context.
func NewEvaluator(index tagindex.TagIndex, ctx evalctx.Context) *Evaluator {
	return &Evaluator{Index: index, Ctx: ctx}
}

// Run executes prog and returns the final stack's Presentations: any
// DataExpr/TimeSeriesExpr/GroupedSet left on the stack is implicitly
// wrapped in a default Presentation.
func (e *Evaluator) Run(prog Program) ([]Presentation, error) {
	e.stack = nil
	for _, tok := range prog {
		if err := e.step(tok); err != nil {
			return nil, err
		}
	}
	out := make([]Presentation, 0, len(e.stack))
	for _, v := range e.stack {
		p, err := e.toPresentation(v)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (e *Evaluator) push(v Value) { e.stack = append(e.stack, v) }

func (e *Evaluator) pop(opName string) (Value, error) {
	if len(e.stack) == 0 {
		return Value{}, tserr.Newf(tserr.Eval, "StackUnderflow", "operator %q: stack is empty", opName)
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v, nil
}

func (e *Evaluator) step(tok Token) error {
	switch tok.Kind {
	case TokString:
		e.push(Value{Kind: VString, Str: tok.Str})
		return nil
	case TokNumber:
		e.push(Value{Kind: VNumber, Num: tok.Num})
		return nil
	case TokWordList:
		e.push(Value{Kind: VWordList, Words: tok.Words})
		return nil
	case TokOperator:
		return e.apply(tok.Str)
	default:
		return tserr.Newf(tserr.Eval, "UnknownOperator", "unrecognised token kind at offset %d", tok.Offset)
	}
}

func typeMismatch(op string, want string, got Value) error {
	return tserr.Newf(tserr.Eval, "TypeMismatch", "operator %q expected %s, got %s", op, want, got.Kind).
		WithField("operator", op).WithField("observed", got.Kind.String())
}

func (e *Evaluator) apply(op string) error {
	switch op {
	// --- predicate constructors ---
	case "eq":
		return e.opEq()
	case "re":
		return e.opRe()
	case "has":
		return e.opHas()
	case "and":
		return e.opBoolBinary(op, func(l, r tagindex.Query) tagindex.Query { return tagindex.And{Left: l, Right: r} })
	case "or":
		return e.opBoolBinary(op, func(l, r tagindex.Query) tagindex.Query { return tagindex.Or{Left: l, Right: r} })
	case "not":
		return e.opNot()
	case "true":
		e.push(Value{Kind: VQuery, Query: tagindex.True})
		return nil
	case "false":
		e.push(Value{Kind: VQuery, Query: tagindex.False})
		return nil

	// --- data-expression constructors ---
	case "by":
		return e.opBy()
	case "sum":
		return e.opAggregate(op, tagindex.Sum)
	case "count":
		return e.opAggregate(op, tagindex.Count)
	case "min":
		return e.opAggregate(op, tagindex.Min)
	case "max":
		return e.opAggregate(op, tagindex.Max)
	case "avg":
		return e.opAggregate(op, tagindex.Avg)

	// --- arithmetic ---
	case "add":
		return e.opArith(op, seq.Add)
	case "sub":
		return e.opArith(op, seq.Sub)
	case "mul":
		return e.opArith(op, seq.Mul)
	case "div":
		return e.opArith(op, seq.Div)
	case "gt":
		return e.opArith(op, seq.Gt)
	case "ge":
		return e.opArith(op, seq.Ge)
	case "lt":
		return e.opArith(op, seq.Lt)
	case "le":
		return e.opArith(op, seq.Le)

	// --- stack manipulation ---
	case "dup":
		return e.opDup()
	case "2over":
		return e.op2Over()
	case "swap":
		return e.opSwap()
	case "drop":
		return e.opDrop()
	case "rot":
		return e.opRot()

	// --- constants ---
	case "const":
		return e.opConst()

	// --- visual decorators ---
	case "line":
		return e.opSetStyle(op, StyleLine)
	case "area":
		return e.opSetStyle(op, StyleArea)
	case "stack":
		return e.opSetStyle(op, StyleStack)
	case "color":
		return e.opColor()
	case "lw":
		return e.opLineWidth()
	case "alpha":
		return e.opAlpha()
	case "legend":
		return e.opLegend()
	case "axis":
		return e.opAxis()
	case "vspan":
		return e.opVSpan()

	default:
		return tserr.Newf(tserr.Eval, "UnknownOperator", "unknown operator %q", op)
	}
}

// --- predicates ---

func (e *Evaluator) opEq() error {
	right, err := e.pop("eq")
	if err != nil {
		return err
	}
	left, err := e.pop("eq")
	if err != nil {
		return err
	}
	if left.Kind == VString && right.Kind == VString {
		e.push(Value{Kind: VQuery, Query: tagindex.Equal{Key: left.Str, Value: right.Str}})
		return nil
	}
	// numeric :eq, contextually selected based on operand kind.
	return e.arithBinary("eq", left, right, seq.Eq)
}

func (e *Evaluator) opRe() error {
	right, err := e.pop("re")
	if err != nil {
		return err
	}
	left, err := e.pop("re")
	if err != nil {
		return err
	}
	if left.Kind != VString || right.Kind != VString {
		return typeMismatch("re", "String,String", right)
	}
	q, err := tagindex.NewRe(left.Str, right.Str)
	if err != nil {
		return tserr.Wrap(err, tserr.Eval, "TypeMismatch", "invalid regex in :re")
	}
	e.push(Value{Kind: VQuery, Query: q})
	return nil
}

func (e *Evaluator) opHas() error {
	v, err := e.pop("has")
	if err != nil {
		return err
	}
	if v.Kind != VString {
		return typeMismatch("has", "String", v)
	}
	e.push(Value{Kind: VQuery, Query: tagindex.HasKey{Key: v.Str}})
	return nil
}

func (e *Evaluator) opBoolBinary(op string, ctor func(l, r tagindex.Query) tagindex.Query) error {
	right, err := e.pop(op)
	if err != nil {
		return err
	}
	left, err := e.pop(op)
	if err != nil {
		return err
	}
	if left.Kind != VQuery || right.Kind != VQuery {
		return typeMismatch(op, "Query,Query", right)
	}
	e.push(Value{Kind: VQuery, Query: ctor(left.Query, right.Query)})
	return nil
}

func (e *Evaluator) opNot() error {
	v, err := e.pop("not")
	if err != nil {
		return err
	}
	if v.Kind != VQuery {
		return typeMismatch("not", "Query", v)
	}
	e.push(Value{Kind: VQuery, Query: tagindex.Not{Inner: v.Query}})
	return nil
}

// --- data expressions ---

func (e *Evaluator) opBy() error {
	keys, err := e.pop("by")
	if err != nil {
		return err
	}
	if keys.Kind != VWordList {
		return typeMismatch("by", "WordList", keys)
	}
	q, err := e.pop("by")
	if err != nil {
		return err
	}
	if q.Kind != VQuery {
		return typeMismatch("by", "Query", q)
	}
	matched, err := e.Index.Find(q.Query, e.Ctx.Start, e.Ctx.End)
	if err != nil {
		return tserr.Wrap(err, tserr.IO, "", "tag index Find failed in :by")
	}
	buckets := partitionBuckets(matched, keys.Words)
	e.push(Value{Kind: VGroupedSet, Grouped: GroupedSet{Keys: keys.Words, Buckets: buckets}})
	return nil
}

func partitionBuckets(list []series.TimeSeries, keys []string) []Bucket {
	index := make(map[string]int)
	var order []string
	buckets := make([]Bucket, 0)
	for _, s := range list {
		gk := s.GroupKey(keys)
		if i, ok := index[gk]; ok {
			buckets[i].Members = append(buckets[i].Members, s)
			continue
		}
		index[gk] = len(buckets)
		order = append(order, gk)
		buckets = append(buckets, Bucket{Tags: s.Tags.Project(keys), Members: []series.TimeSeries{s}})
	}
	_ = order
	return buckets
}

// aggregateBuckets reduces each bucket to a single series and sorts the
// result lexicographically by group-key tuple.
func aggregateBuckets(g GroupedSet, reducer tagindex.Reducer, ctx evalctx.Context) ([]series.TimeSeries, error) {
	out := make([]series.TimeSeries, 0, len(g.Buckets))
	for _, b := range g.Buckets {
		reduced, err := tagindex.GroupBy(b.Members, g.Keys, reducer, ctx.Start, ctx.End, ctx.Step)
		if err != nil {
			return nil, err
		}
		out = append(out, reduced...)
	}
	series.SortByGroupKey(out, g.Keys)
	return out, nil
}

// defaultGroupReducer: a :by group promoted to a Presentation without an
// explicit aggregator is reduced with :sum, yielding one series per
// group-by tuple.
const defaultGroupReducer = tagindex.Sum

func (e *Evaluator) opAggregate(op string, reducer tagindex.Reducer) error {
	v, err := e.pop(op)
	if err != nil {
		return err
	}
	switch v.Kind {
	case VGroupedSet:
		list, err := aggregateBuckets(v.Grouped, reducer, e.Ctx)
		if err != nil {
			return err
		}
		e.push(Value{Kind: VSeriesSet, Set: list})
		return nil
	case VQuery:
		matched, err := e.Index.Find(v.Query, e.Ctx.Start, e.Ctx.End)
		if err != nil {
			return tserr.Wrap(err, tserr.IO, "", fmt.Sprintf("tag index Find failed in :%s", op))
		}
		reduced, err := tagindex.GroupBy(matched, nil, reducer, e.Ctx.Start, e.Ctx.End, e.Ctx.Step)
		if err != nil {
			return err
		}
		e.push(Value{Kind: VSeriesSet, Set: reduced})
		return nil
	default:
		return typeMismatch(op, "Query or DataExpr", v)
	}
}

// --- arithmetic ---

func (e *Evaluator) resolveSet(v Value) ([]series.TimeSeries, error) {
	switch v.Kind {
	case VSeriesSet:
		return v.Set, nil
	case VGroupedSet:
		return aggregateBuckets(v.Grouped, defaultGroupReducer, e.Ctx)
	default:
		return nil, nil
	}
}

func (e *Evaluator) opArith(op string, f seq.BinOp) error {
	right, err := e.pop(op)
	if err != nil {
		return err
	}
	left, err := e.pop(op)
	if err != nil {
		return err
	}
	return e.arithBinary(op, left, right, f)
}

func (e *Evaluator) arithBinary(op string, left, right Value, f seq.BinOp) error {
	if left.Kind == VNumber && right.Kind == VNumber {
		e.push(Value{Kind: VNumber, Num: f(left.Num, right.Num)})
		return nil
	}

	leftSet, err := e.resolveSet(left)
	if err != nil {
		return err
	}
	rightSet, err := e.resolveSet(right)
	if err != nil {
		return err
	}

	switch {
	case leftSet != nil && right.Kind == VNumber:
		out, err := mapConstant(leftSet, right.Num, f, e.Ctx, false)
		if err != nil {
			return err
		}
		e.push(Value{Kind: VSeriesSet, Set: out})
		return nil
	case rightSet != nil && left.Kind == VNumber:
		out, err := mapConstant(rightSet, left.Num, f, e.Ctx, true)
		if err != nil {
			return err
		}
		e.push(Value{Kind: VSeriesSet, Set: out})
		return nil
	case leftSet != nil && rightSet != nil:
		out, err := zipSets(leftSet, rightSet, f, e.Ctx)
		if err != nil {
			return err
		}
		e.push(Value{Kind: VSeriesSet, Set: out})
		return nil
	default:
		return typeMismatch(op, "DataExpr/Number", right)
	}
}

// mapConstant applies f(value, constant) elementwise to every member of
// set (or f(constant, value) when constantFirst, to respect non-commutative
// ops like :div and comparisons).
func mapConstant(set []series.TimeSeries, constant float64, f seq.BinOp, ctx evalctx.Context, constantFirst bool) ([]series.TimeSeries, error) {
	out := make([]series.TimeSeries, 0, len(set))
	for _, s := range set {
		bounded, err := s.Seq.Bounded(ctx.Start, ctx.End)
		if err != nil {
			return nil, err
		}
		vals := make([]float64, len(bounded.Values))
		for i, v := range bounded.Values {
			if constantFirst {
				vals[i] = f(constant, v)
			} else {
				vals[i] = f(v, constant)
			}
		}
		newSeq, err := seq.New(ctx.Start, ctx.Step, vals)
		if err != nil {
			return nil, err
		}
		out = append(out, series.TimeSeries{Tags: s.Tags, Label: s.Label, Seq: newSeq})
	}
	return out, nil
}

// zipSets combines two series lists positionally (both are already sorted
// by group-key tuple, so position i in each corresponds to the same
// group when both sides share the same group-by keys). Members beyond the
// length of the shorter list are dropped.
func zipSets(left, right []series.TimeSeries, f seq.BinOp, ctx evalctx.Context) ([]series.TimeSeries, error) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	out := make([]series.TimeSeries, 0, n)
	for i := 0; i < n; i++ {
		combined, err := seq.Combine(left[i].Seq, right[i].Seq, ctx.Start, ctx.End, ctx.Step, f)
		if err != nil {
			return nil, err
		}
		out = append(out, series.TimeSeries{Tags: left[i].Tags, Label: left[i].Label, Seq: combined})
	}
	return out, nil
}

// --- stack manipulation ---

func (e *Evaluator) opDup() error {
	v, err := e.pop("dup")
	if err != nil {
		return err
	}
	e.push(v)
	e.push(v)
	return nil
}

// op2Over copies the element two below the top (stack depth 2, 0-indexed
// from the top) onto the top.
func (e *Evaluator) op2Over() error {
	if len(e.stack) < 3 {
		return tserr.New(tserr.Eval, "StackUnderflow", "2over requires at least 3 elements")
	}
	v := e.stack[len(e.stack)-3]
	e.push(v)
	return nil
}

func (e *Evaluator) opSwap() error {
	a, err := e.pop("swap")
	if err != nil {
		return err
	}
	b, err := e.pop("swap")
	if err != nil {
		return err
	}
	e.push(a)
	e.push(b)
	return nil
}

func (e *Evaluator) opDrop() error {
	_, err := e.pop("drop")
	return err
}

func (e *Evaluator) opRot() error {
	if len(e.stack) < 3 {
		return tserr.New(tserr.Eval, "StackUnderflow", "rot requires at least 3 elements")
	}
	n := len(e.stack)
	a, b, c := e.stack[n-3], e.stack[n-2], e.stack[n-1]
	e.stack[n-3], e.stack[n-2], e.stack[n-1] = b, c, a
	return nil
}

// --- constants ---

func (e *Evaluator) opConst() error {
	label, err := e.pop("const")
	if err != nil {
		return err
	}
	if label.Kind != VString {
		return typeMismatch("const", "String", label)
	}
	num, err := e.pop("const")
	if err != nil {
		return err
	}
	if num.Kind != VNumber {
		return typeMismatch("const", "Number", num)
	}
	// always materialize at the context's step.
	s, err := seq.Const(num.Num, e.Ctx.Start, e.Ctx.End, e.Ctx.Step)
	if err != nil {
		return err
	}
	e.push(Value{Kind: VSeriesSet, Set: []series.TimeSeries{{
		Tags:  series.Tags{},
		Label: label.Str,
		Seq:   s,
	}}})
	return nil
}

// --- visual decorators ---

func (e *Evaluator) toPresentation(v Value) (Presentation, error) {
	switch v.Kind {
	case VPresentation:
		return v.Pres, nil
	case VSeriesSet:
		return DefaultPresentation(v.Set), nil
	case VGroupedSet:
		list, err := aggregateBuckets(v.Grouped, defaultGroupReducer, e.Ctx)
		if err != nil {
			return Presentation{}, err
		}
		return DefaultPresentation(list), nil
	default:
		return Presentation{}, typeMismatch("(implicit Presentation)", "DataExpr/TimeSeriesExpr", v)
	}
}

func (e *Evaluator) opSetStyle(op string, style Style) error {
	v, err := e.pop(op)
	if err != nil {
		return err
	}
	p, err := e.toPresentation(v)
	if err != nil {
		return err
	}
	p.Style = style
	e.push(Value{Kind: VPresentation, Pres: p})
	return nil
}

func (e *Evaluator) opColor() error {
	c, err := e.pop("color")
	if err != nil {
		return err
	}
	if c.Kind != VString {
		return typeMismatch("color", "String", c)
	}
	v, err := e.pop("color")
	if err != nil {
		return err
	}
	p, err := e.toPresentation(v)
	if err != nil {
		return err
	}
	p.Color = c.Str
	e.push(Value{Kind: VPresentation, Pres: p})
	return nil
}

func (e *Evaluator) opLineWidth() error {
	n, err := e.pop("lw")
	if err != nil {
		return err
	}
	if n.Kind != VNumber {
		return typeMismatch("lw", "Number", n)
	}
	v, err := e.pop("lw")
	if err != nil {
		return err
	}
	p, err := e.toPresentation(v)
	if err != nil {
		return err
	}
	p.LineWidth = int(n.Num)
	e.push(Value{Kind: VPresentation, Pres: p})
	return nil
}

func (e *Evaluator) opAlpha() error {
	n, err := e.pop("alpha")
	if err != nil {
		return err
	}
	if n.Kind != VNumber {
		return typeMismatch("alpha", "Number", n)
	}
	if n.Num < 0 || n.Num > 100 {
		return tserr.Newf(tserr.Eval, "TypeMismatch", ":alpha must be 0-100, got %v", n.Num)
	}
	v, err := e.pop("alpha")
	if err != nil {
		return err
	}
	p, err := e.toPresentation(v)
	if err != nil {
		return err
	}
	p.Alpha = int(n.Num)
	p.AlphaSet = true
	e.push(Value{Kind: VPresentation, Pres: p})
	return nil
}

func (e *Evaluator) opLegend() error {
	s, err := e.pop("legend")
	if err != nil {
		return err
	}
	if s.Kind != VString {
		return typeMismatch("legend", "String", s)
	}
	v, err := e.pop("legend")
	if err != nil {
		return err
	}
	p, err := e.toPresentation(v)
	if err != nil {
		return err
	}
	p.Label = s.Str
	p.LabelSet = true
	e.push(Value{Kind: VPresentation, Pres: p})
	return nil
}

func (e *Evaluator) opAxis() error {
	n, err := e.pop("axis")
	if err != nil {
		return err
	}
	if n.Kind != VNumber {
		return typeMismatch("axis", "Number", n)
	}
	axis := int(n.Num)
	if axis != 0 && axis != 1 {
		return tserr.Newf(tserr.Eval, "TypeMismatch", ":axis must be 0 or 1, got %v", n.Num)
	}
	v, err := e.pop("axis")
	if err != nil {
		return err
	}
	p, err := e.toPresentation(v)
	if err != nil {
		return err
	}
	p.Axis = axis
	e.push(Value{Kind: VPresentation, Pres: p})
	return nil
}

// opVSpan converts a boolean-ish series into vertical spans: scan each
// member series from low to high; a band opens at the first sample that
// is a non-zero, non-NaN number and closes (exclusive) at the first
// subsequent zero-or-NaN sample. Adjacent bands are never merged. When
// the Presentation has more than one member (e.g. a group-by piped
// straight into :vspan), each member's bands are scanned independently
// and then merged into one list ordered by start time; bands from
// different members are not merged and may overlap.
func (e *Evaluator) opVSpan() error {
	v, err := e.pop("vspan")
	if err != nil {
		return err
	}
	p, err := e.toPresentation(v)
	if err != nil {
		return err
	}
	var spans []VSpanInterval
	for _, m := range p.Members {
		bounded, berr := m.Seq.Bounded(e.Ctx.Start, e.Ctx.End)
		if berr != nil {
			return berr
		}
		spans = append(spans, scanVSpans(bounded)...)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	out := Presentation{
		Members:  p.Members,
		IsVSpan:  true,
		VSpans:   spans,
		Color:    p.Color,
		Alpha:    p.Alpha,
		AlphaSet: p.AlphaSet,
		Label:    p.Label,
		LabelSet: p.LabelSet,
	}
	e.push(Value{Kind: VPresentation, Pres: out})
	return nil
}

func scanVSpans(s seq.Seq) []VSpanInterval {
	var out []VSpanInterval
	open := false
	var start int64
	for i, v := range s.Values {
		t := s.Start + int64(i)*s.Step
		nonZero := !math.IsNaN(v) && v != 0
		if nonZero && !open {
			open = true
			start = t
		} else if !nonZero && open {
			open = false
			out = append(out, VSpanInterval{Start: start, End: t})
		}
	}
	if open {
		out = append(out, VSpanInterval{Start: start, End: s.End()})
	}
	return out
}

// ParseNum is a small helper exposed for adapters that need to coerce a
// raw CLI-supplied number string into a float, reusing the same parser
// the tokeniser uses.
func ParseNum(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
