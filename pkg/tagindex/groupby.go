package tagindex

import (
	"math"

	"github.com/tsplot/tsplot/pkg/seq"
	"github.com/tsplot/tsplot/pkg/series"
)

// Reducer names an aggregation function applied across the members of a
// group-by bucket.
type Reducer string

const (
	Sum   Reducer = "sum"
	Count Reducer = "count"
	Min   Reducer = "min"
	Max   Reducer = "max"
	Avg   Reducer = "avg"
)

// GroupBy partitions list by the unique tuples of values over keys and
// reduces each partition with reducer, producing exactly one series per
// unique tuple. Tags on the output are exactly the group-by keys; non-key
// tags are dropped. Reduction is NaN-skipping: NaN contributes zero count;
// if every input at a step is NaN, the result is NaN.
//
// Output order is the lexicographic order of the group-key tuple,
// established by series.SortByGroupKey.
func GroupBy(list []series.TimeSeries, keys []string, reducer Reducer, start, end, step int64) ([]series.TimeSeries, error) {
	type bucket struct {
		tags    series.Tags
		members []series.TimeSeries
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0)
	for _, s := range list {
		gk := s.GroupKey(keys)
		b, ok := buckets[gk]
		if !ok {
			b = &bucket{tags: s.Tags.Project(keys)}
			buckets[gk] = b
			order = append(order, gk)
		}
		b.members = append(b.members, s)
	}

	out := make([]series.TimeSeries, 0, len(buckets))
	for _, gk := range order {
		b := buckets[gk]
		reduced, err := reduce(b.members, reducer, start, end, step)
		if err != nil {
			return nil, err
		}
		out = append(out, series.TimeSeries{
			Tags:  b.tags,
			Label: b.tags.DefaultLabel(keys),
			Seq:   reduced,
		})
	}
	series.SortByGroupKey(out, keys)
	return out, nil
}

func reduce(members []series.TimeSeries, reducer Reducer, start, end, step int64) (seq.Seq, error) {
	n := int((end - start) / step)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		t := start + int64(i)*step
		vals := make([]float64, 0, len(members))
		for _, m := range members {
			v := m.Seq.ValueAt(t)
			if !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		out[i] = applyReducer(reducer, vals)
	}
	return seq.New(start, step, out)
}

func applyReducer(reducer Reducer, vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	switch reducer {
	case Sum:
		var s float64
		for _, v := range vals {
			s += v
		}
		return s
	case Count:
		return float64(len(vals))
	case Min:
		m := vals[0]
		for _, v := range vals[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case Max:
		m := vals[0]
		for _, v := range vals[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case Avg:
		var s float64
		for _, v := range vals {
			s += v
		}
		return s / float64(len(vals))
	default:
		return math.NaN()
	}
}
