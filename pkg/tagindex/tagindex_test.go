package tagindex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsplot/tsplot/pkg/seq"
	"github.com/tsplot/tsplot/pkg/series"
)

func mustSeq(t *testing.T, start, step int64, values []float64) seq.Seq {
	t.Helper()
	s, err := seq.New(start, step, values)
	require.NoError(t, err)
	return s
}

func TestQueryComposition(t *testing.T) {
	tags := series.Tags{"name": "requests", "region": "us-east"}

	require.True(t, Equal{Key: "name", Value: "requests"}.Match(tags))
	require.False(t, Equal{Key: "name", Value: "latency"}.Match(tags))

	re, err := NewRe("region", "^us-")
	require.NoError(t, err)
	require.True(t, re.Match(tags))

	require.True(t, HasKey{Key: "region"}.Match(tags))
	require.False(t, HasKey{Key: "az"}.Match(tags))

	require.True(t, And{Left: True, Right: re}.Match(tags))
	require.False(t, And{Left: False, Right: re}.Match(tags))
	require.True(t, Or{Left: False, Right: re}.Match(tags))
	require.True(t, Not{Inner: False}.Match(tags))
}

func TestStaticIndexFindFiltersByQueryAndWindow(t *testing.T) {
	idx := NewStaticIndex([]series.TimeSeries{
		{Tags: series.Tags{"name": "requests", "region": "us-east"}, Seq: mustSeq(t, 0, 1000, []float64{1, 2, 3})},
		{Tags: series.Tags{"name": "requests", "region": "eu-west"}, Seq: mustSeq(t, 0, 1000, []float64{4, 5, 6})},
		{Tags: series.Tags{"name": "latency", "region": "us-east"}, Seq: mustSeq(t, 5000, 1000, []float64{7, 8})},
	})

	out, err := idx.Find(Equal{Key: "name", Value: "requests"}, 0, 3000)
	require.NoError(t, err)
	require.Len(t, out, 2)

	out, err = idx.Find(True, 0, 3000)
	require.NoError(t, err)
	require.Len(t, out, 2) // the third series' domain [5000,7000) doesn't intersect

	keys := idx.AllTagKeys()
	require.ElementsMatch(t, []string{"name", "region"}, keys)
}

func TestGroupByOneSeriesPerTuple(t *testing.T) {
	list := []series.TimeSeries{
		{Tags: series.Tags{"region": "us-east", "az": "1a"}, Seq: mustSeq(t, 0, 1000, []float64{1, 2})},
		{Tags: series.Tags{"region": "us-east", "az": "1b"}, Seq: mustSeq(t, 0, 1000, []float64{3, 4})},
		{Tags: series.Tags{"region": "eu-west", "az": "1a"}, Seq: mustSeq(t, 0, 1000, []float64{10, math.NaN()})},
	}

	out, err := GroupBy(list, []string{"region"}, Sum, 0, 2000, 1000)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, series.Tags{"region": "eu-west"}, out[0].Tags)
	require.Equal(t, float64(10), out[0].Seq.Values[0])
	require.True(t, math.IsNaN(out[0].Seq.Values[1]))
	require.Equal(t, []float64{4, 6}, out[1].Seq.Values)
}

func TestGroupByAllNaNStaysNaN(t *testing.T) {
	list := []series.TimeSeries{
		{Tags: series.Tags{"region": "us-east"}, Seq: mustSeq(t, 0, 1000, []float64{math.NaN()})},
	}
	out, err := GroupBy(list, []string{"region"}, Avg, 0, 1000, 1000)
	require.NoError(t, err)
	require.True(t, math.IsNaN(out[0].Seq.Values[0]))
}
