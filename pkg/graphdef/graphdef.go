// Package graphdef implements the GraphDef builder: binding the
// evaluator's Presentations into a self-describing render plan that the
// rasterizer can consume without touching the evaluator again.
package graphdef

import (
	"github.com/tsplot/tsplot/pkg/seq"
	"github.com/tsplot/tsplot/pkg/tserr"
)

// Style mirrors sql.Style as GraphDef's own type, so a GraphDef value holds
// no evaluator types and stays a standalone, re-renderable value: no
// re-evaluation is needed to rasterise it.
type Style string

const (
	StyleLine  Style = "line"
	StyleArea  Style = "area"
	StyleStack Style = "stack"
)

// Line is one rendered series: data, style, color, lineWidth, alpha,
// label, and axis.
type Line struct {
	Data      seq.Seq
	Style     Style
	Color     string
	LineWidth int
	Alpha     int
	Label     string
	Axis      int
}

// VSpan is a vertical colored band.
type VSpan struct {
	Start int64
	End   int64
	Color string
	Alpha int
	Label string
}

// Plot is one axis worth of lines and vspans sharing an axis label.
type Plot struct {
	AxisLabel string
	Lines     []Line
	VSpans    []VSpan
}

// GraphDef is the final, self-describing render plan.
type GraphDef struct {
	StartTime int64
	EndTime   int64
	Step      int64
	Timezone  string
	Width     int
	Height    int
	Theme     string
	Layout    string
	Plots     []Plot
}

// Validate checks the alignment invariant: every line shares
// start/end/step with the GraphDef.
func (g GraphDef) Validate() error {
	if g.EndTime <= g.StartTime {
		return tserr.New(tserr.Data, "InvalidContext", "GraphDef end must be after start")
	}
	if (g.EndTime-g.StartTime)%g.Step != 0 {
		return tserr.New(tserr.Data, "InvalidContext", "GraphDef window is not a multiple of step")
	}
	for _, plot := range g.Plots {
		for _, line := range plot.Lines {
			if line.Data.Start != g.StartTime || line.Data.Step != g.Step || line.Data.End() != g.EndTime {
				return tserr.Newf(tserr.Data, "InvalidContext",
					"line %q is not aligned to GraphDef window [%d,%d) step %d", line.Label, g.StartTime, g.EndTime, g.Step)
			}
		}
	}
	return nil
}
