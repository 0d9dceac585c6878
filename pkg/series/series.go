// Package series holds the tag-map and time-series data model.
package series

import (
	"sort"
	"strings"

	"github.com/tsplot/tsplot/pkg/seq"
)

// Tags is an immutable tag-name -> tag-value mapping. Keys and values are
// always non-empty strings; the reserved key "name" holds the metric
// identifier.
type Tags map[string]string

// Get returns the value for key and whether it is present.
func (t Tags) Get(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

// Clone returns a deep copy.
func (t Tags) Clone() Tags {
	cp := make(Tags, len(t))
	for k, v := range t {
		cp[k] = v
	}
	return cp
}

// Project returns a new Tags containing only the given keys, in the order
// they were supplied for label derivation via DefaultLabel.
func (t Tags) Project(keys []string) Tags {
	cp := make(Tags, len(keys))
	for _, k := range keys {
		if v, ok := t[k]; ok {
			cp[k] = v
		}
	}
	return cp
}

// DefaultLabel renders tags as "k1=v1,k2=v2,..." in key order. When
// keyOrder is non-nil it is used verbatim (group-by key order); otherwise
// keys are sorted lexicographically.
func (t Tags) DefaultLabel(keyOrder []string) string {
	keys := keyOrder
	if keys == nil {
		keys = make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if v, ok := t[k]; ok {
			parts = append(parts, k+"="+v)
		}
	}
	return strings.Join(parts, ",")
}

// TimeSeries is (tags, label, sequence).
type TimeSeries struct {
	Tags  Tags
	Label string
	Seq   seq.Seq
}

// WithLabel returns a copy of ts with the label overridden, used by
// evaluator decorators such as :legend.
func (ts TimeSeries) WithLabel(label string) TimeSeries {
	ts.Label = label
	return ts
}

// GroupKey returns the concatenation of tag values in key order, used for
// the lexicographic ordering applied to group-by output.
func (ts TimeSeries) GroupKey(keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = ts.Tags[k]
	}
	return strings.Join(parts, "\x00")
}

// SortByGroupKey sorts series lexicographically by the concatenation of
// group-by values in key order.
func SortByGroupKey(list []TimeSeries, keys []string) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].GroupKey(keys) < list[j].GroupKey(keys)
	})
}
