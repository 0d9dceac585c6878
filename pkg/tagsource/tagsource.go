// Package tagsource provides a static, YAML-configured TagIndex fixture: a
// trivial in-process index backed by a fixed in-memory set of series,
// decoded with yaml.v2 struct tags.
package tagsource

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/tsplot/tsplot/pkg/seq"
	"github.com/tsplot/tsplot/pkg/series"
	"github.com/tsplot/tsplot/pkg/tagindex"
	"github.com/tsplot/tsplot/pkg/tserr"
)

// Document is the YAML shape loaded by Load: a flat list of series, each
// with its tags and a fixed-step value list.
type Document struct {
	Series []SeriesSpec `yaml:"series"`
}

// SeriesSpec describes one time series in the fixture file.
type SeriesSpec struct {
	Tags   map[string]string `yaml:"tags"`
	Start  int64             `yaml:"start"`
	Step   int64             `yaml:"step"`
	Values []float64         `yaml:"values"`
}

// Load parses a YAML document into a *tagindex.StaticIndex.
func Load(data []byte) (*tagindex.StaticIndex, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, tserr.Wrap(err, tserr.IO, "", "decoding tag fixture YAML")
	}
	list := make([]series.TimeSeries, 0, len(doc.Series))
	for _, spec := range doc.Series {
		s, err := seq.New(spec.Start, spec.Step, spec.Values)
		if err != nil {
			return nil, err
		}
		tags := series.Tags(spec.Tags)
		list = append(list, series.TimeSeries{
			Tags:  tags,
			Label: tags.DefaultLabel(nil),
			Seq:   s,
		})
	}
	return tagindex.NewStaticIndex(list), nil
}

// LoadFile reads and parses a YAML fixture file from disk.
func LoadFile(path string) (*tagindex.StaticIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tserr.Wrap(err, tserr.IO, "", "reading tag fixture file "+path)
	}
	return Load(data)
}
