package sql

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsplot/tsplot/pkg/evalctx"
	"github.com/tsplot/tsplot/pkg/seq"
	"github.com/tsplot/tsplot/pkg/series"
	"github.com/tsplot/tsplot/pkg/tagindex"
)

func mustSeq(t *testing.T, start, step int64, values []float64) seq.Seq {
	t.Helper()
	s, err := seq.New(start, step, values)
	require.NoError(t, err)
	return s
}

func fixtureIndex(t *testing.T) tagindex.TagIndex {
	t.Helper()
	return tagindex.NewStaticIndex([]series.TimeSeries{
		{Tags: series.Tags{"name": "requests", "region": "us-east"}, Seq: mustSeq(t, 0, 1000, []float64{1, 2, 3})},
		{Tags: series.Tags{"name": "requests", "region": "eu-west"}, Seq: mustSeq(t, 0, 1000, []float64{4, 5, 6})},
	})
}

func fixtureCtx(t *testing.T) evalctx.Context {
	t.Helper()
	ctx, err := evalctx.New(0, 3000, 1000, "UTC")
	require.NoError(t, err)
	return ctx
}

func run(t *testing.T, query string) []Presentation {
	t.Helper()
	prog, err := Parse(query)
	require.NoError(t, err)
	ev := NewEvaluator(fixtureIndex(t), fixtureCtx(t))
	out, err := ev.Run(prog)
	require.NoError(t, err)
	return out
}

func TestSimpleQuerySumsAllMatches(t *testing.T) {
	pres := run(t, "name,requests,:eq,:sum")
	require.Len(t, pres, 1)
	require.Equal(t, []float64{5, 7, 9}, pres[0].Members[0].Seq.Values)
}

func TestGroupByProducesOneMemberPerTuple(t *testing.T) {
	pres := run(t, "name,requests,:eq,(,region,),:by")
	require.Len(t, pres, 1)
	require.Len(t, pres[0].Members, 2)
	require.Equal(t, "eu-west", pres[0].Members[0].Tags["region"])
	require.Equal(t, "us-east", pres[0].Members[1].Tags["region"])
}

func TestArithmeticSeriesByConstant(t *testing.T) {
	pres := run(t, "name,requests,:eq,:sum,2,:mul")
	require.Equal(t, []float64{10, 14, 18}, pres[0].Members[0].Seq.Values)
}

func TestNumericEqualityIsNotAPredicate(t *testing.T) {
	pres := run(t, "name,requests,:eq,:sum,5,:eq")
	require.Equal(t, []float64{1, 0, 0}, pres[0].Members[0].Seq.Values)
}

func TestStackUnderflow(t *testing.T) {
	_, err := NewEvaluator(fixtureIndex(t), fixtureCtx(t)).Run(Program{{Kind: TokOperator, Str: "sum"}})
	require.Error(t, err)
}

func TestUnknownOperator(t *testing.T) {
	_, err := NewEvaluator(fixtureIndex(t), fixtureCtx(t)).Run(Program{{Kind: TokOperator, Str: "bogus"}})
	require.Error(t, err)
}

func TestTypeMismatch(t *testing.T) {
	prog, err := Parse("foo,bar,:and")
	require.NoError(t, err)
	_, err = NewEvaluator(fixtureIndex(t), fixtureCtx(t)).Run(prog)
	require.Error(t, err)
}

func TestVSpanMonotonicity(t *testing.T) {
	idx := tagindex.NewStaticIndex([]series.TimeSeries{
		{Tags: series.Tags{"name": "alerts"}, Seq: mustSeq(t, 0, 1000, []float64{0, 1, 1, 0, 0, 1, 0})},
	})
	ctx, err := evalctx.New(0, 7000, 1000, "UTC")
	require.NoError(t, err)
	prog, err := Parse("name,alerts,:eq,:sum,:vspan")
	require.NoError(t, err)
	pres, err := NewEvaluator(idx, ctx).Run(prog)
	require.NoError(t, err)
	require.True(t, pres[0].IsVSpan)
	require.Equal(t, []VSpanInterval{{Start: 1000, End: 3000}, {Start: 5000, End: 6000}}, pres[0].VSpans)
	for i := 1; i < len(pres[0].VSpans); i++ {
		require.Less(t, pres[0].VSpans[i-1].End, pres[0].VSpans[i].Start)
	}
}

func TestConstMaterializesAtContextStep(t *testing.T) {
	prog, err := Parse("1,baseline,:const")
	require.NoError(t, err)
	pres, err := NewEvaluator(fixtureIndex(t), fixtureCtx(t)).Run(prog)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, 1}, pres[0].Members[0].Seq.Values)
	require.Equal(t, "baseline", pres[0].Members[0].Label)
}

func Test2OverCopiesThirdFromTop(t *testing.T) {
	ev := NewEvaluator(fixtureIndex(t), fixtureCtx(t))
	ev.push(Value{Kind: VNumber, Num: 1})
	ev.push(Value{Kind: VNumber, Num: 2})
	ev.push(Value{Kind: VNumber, Num: 3})
	require.NoError(t, ev.op2Over())
	require.Equal(t, 1.0, ev.stack[len(ev.stack)-1].Num)
}

func TestVisualDecoratorsChain(t *testing.T) {
	pres := run(t, "name,requests,:eq,:sum,line-color,:color,:area")
	require.Equal(t, StyleArea, pres[0].Style)
	require.Equal(t, "line-color", pres[0].Color)
}

func TestAlphaOutOfRangeIsTypeMismatch(t *testing.T) {
	prog, err := Parse("name,requests,:eq,:sum,150,:alpha")
	require.NoError(t, err)
	_, err = NewEvaluator(fixtureIndex(t), fixtureCtx(t)).Run(prog)
	require.Error(t, err)
}

func TestDivByZeroRules(t *testing.T) {
	require.True(t, math.IsNaN(seq.Div(0, 0)))
}
