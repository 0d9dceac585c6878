package sql

import (
	"github.com/tsplot/tsplot/pkg/series"
	"github.com/tsplot/tsplot/pkg/tagindex"
)

// ValueKind discriminates the tagged operand stack entries: String,
// Number, Query, DataExpr/TimeSeriesExpr (collapsed here into
// SeriesSet/GroupedSet since this evaluator resolves eagerly against the
// tag index rather than building a deferred expression tree), and
// Presentation.
type ValueKind int

const (
	VString ValueKind = iota
	VNumber
	VWordList
	VQuery
	VSeriesSet   // a resolved DataExpr/TimeSeriesExpr: a list of independent lines
	VGroupedSet  // a :by result pending aggregation (defaults to :sum)
	VPresentation
)

func (k ValueKind) String() string {
	switch k {
	case VString:
		return "String"
	case VNumber:
		return "Number"
	case VWordList:
		return "WordList"
	case VQuery:
		return "Query"
	case VSeriesSet:
		return "DataExpr"
	case VGroupedSet:
		return "DataExpr"
	case VPresentation:
		return "Presentation"
	default:
		return "Unknown"
	}
}

// Bucket is one group-by partition awaiting aggregation.
type Bucket struct {
	Tags    series.Tags
	Members []series.TimeSeries
}

// GroupedSet is the operand produced by :by before an aggregator resolves
// it into a group-by data expression.
type GroupedSet struct {
	Keys    []string
	Buckets []Bucket
}

// Value is one entry of the operand stack.
type Value struct {
	Kind ValueKind

	Str   string
	Num   float64
	Words []string
	Query tagindex.Query

	Set     []series.TimeSeries
	Grouped GroupedSet

	Pres Presentation
}
