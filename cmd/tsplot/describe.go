package main

import (
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/tsplot/tsplot/pkg/tagindex"
	"github.com/tsplot/tsplot/pkg/tagsource"
)

// resolveIndex loads the YAML tag-index fixture named by --fixture;
// pkg/tagsource is the in-process TagIndex implementation backing it.
func resolveIndex(fixturePath string) (tagindex.TagIndex, error) {
	idx, err := tagsource.LoadFile(fixturePath)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// describeIndex prints the tag index's known tag keys as a table, for
// validation and autocompletion.
func describeIndex(index tagindex.TagIndex) error {
	keys := index.AllTagKeys()
	sort.Strings(keys)

	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader([]string{"tag key"})
	for _, k := range keys {
		w.Append([]string{k})
	}
	w.Render()
	return nil
}
