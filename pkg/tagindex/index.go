package tagindex

import (
	"github.com/tsplot/tsplot/pkg/series"
)

// TagIndex is the abstract, read-only, thread-safe data source the
// evaluator consumes without ever touching I/O itself.
type TagIndex interface {
	// Find returns the series whose tags satisfy query and whose time
	// domain intersects [start,end).
	Find(query Query, start, end int64) ([]series.TimeSeries, error)
	// AllTagKeys returns every tag key known to the index, for validation
	// and autocompletion (not required by the rendering hot path).
	AllTagKeys() []string
}

// StaticIndex is a trivial in-process TagIndex backed by a fixed slice of
// series. It is the implementation used by the CLI's demo mode and by
// tests.
//
// The match-then-filter loop below tests the cheap tag predicate first and
// only then considers the time window.
type StaticIndex struct {
	series []series.TimeSeries
}

// NewStaticIndex builds an index over the given series. The slice is not
// retained by reference; callers may reuse it afterward.
func NewStaticIndex(list []series.TimeSeries) *StaticIndex {
	cp := make([]series.TimeSeries, len(list))
	copy(cp, list)
	return &StaticIndex{series: cp}
}

func (idx *StaticIndex) Find(q Query, start, end int64) ([]series.TimeSeries, error) {
	out := make([]series.TimeSeries, 0)
	for _, s := range idx.series {
		if !q.Match(s.Tags) {
			continue
		}
		if s.Seq.End() <= start || s.Seq.Start >= end {
			continue // no intersection with the requested window
		}
		out = append(out, s)
	}
	return out, nil
}

func (idx *StaticIndex) AllTagKeys() []string {
	seen := make(map[string]struct{})
	for _, s := range idx.series {
		for k := range s.Tags {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	return keys
}
