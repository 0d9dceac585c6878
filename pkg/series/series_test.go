package series

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsplot/tsplot/pkg/seq"
)

func TestDefaultLabelOrdering(t *testing.T) {
	tags := Tags{"name": "requests", "region": "us-east", "az": "1a"}
	require.Equal(t, "az=1a,name=requests,region=us-east", tags.DefaultLabel(nil))
	require.Equal(t, "region=us-east,az=1a", tags.DefaultLabel([]string{"region", "az"}))
}

func TestProjectKeepsOnlyRequestedKeys(t *testing.T) {
	tags := Tags{"name": "requests", "region": "us-east", "az": "1a"}
	p := tags.Project([]string{"region"})
	require.Equal(t, Tags{"region": "us-east"}, p)
}

func TestGroupKeyAndSort(t *testing.T) {
	s, _ := seq.New(0, 1000, []float64{1})
	a := TimeSeries{Tags: Tags{"region": "b"}, Seq: s}
	b := TimeSeries{Tags: Tags{"region": "a"}, Seq: s}
	list := []TimeSeries{a, b}
	SortByGroupKey(list, []string{"region"})
	require.Equal(t, "a", list[0].Tags["region"])
	require.Equal(t, "b", list[1].Tags["region"])
}
