package graphdef

import (
	"math"

	"github.com/tsplot/tsplot/pkg/evalctx"
	"github.com/tsplot/tsplot/pkg/seq"
	"github.com/tsplot/tsplot/pkg/sql"
	"github.com/tsplot/tsplot/pkg/tserr"
)

// Layout names.
const (
	LayoutSingle = "single"
	LayoutAxes   = "axes"
)

// OmitAllNaNStackMembers controls whether a :stack member whose values are
// entirely NaN across the evaluation window contributes a layer and legend
// entry. Set true, such members are omitted entirely.
const OmitAllNaNStackMembers = true

// BuildOptions carries the presentation configuration relevant to GraphDef
// construction: canvas size and theme are carried through verbatim since
// GraphDef is self-describing, while layout and palette affect how
// Presentations are partitioned and colored.
type BuildOptions struct {
	Width   int
	Height  int
	Theme   string
	Layout  string
	Palette string
}

// Build maps evaluator output into a GraphDef.
func Build(pres []sql.Presentation, ctx evalctx.Context, opts BuildOptions) (GraphDef, error) {
	if opts.Width < 80 || opts.Height < 40 {
		return GraphDef{}, tserr.Newf(tserr.Render, "InvalidCanvas", "canvas %dx%d below minimum 80x40", opts.Width, opts.Height)
	}

	colors, err := Palette(opts.Palette, opts.Theme)
	if err != nil {
		return GraphDef{}, err
	}

	explicit := make([]string, 0)
	for _, p := range pres {
		if p.Color != "" {
			explicit = append(explicit, p.Color)
		}
	}

	switch opts.Layout {
	case "", LayoutSingle:
		plot, err := buildPlot(pres, ctx, NewPaletteAssigner(colors, explicit))
		if err != nil {
			return GraphDef{}, err
		}
		return finish(ctx, opts, []Plot{plot})
	case LayoutAxes:
		var left, right []sql.Presentation
		for _, p := range pres {
			if p.Axis == 1 {
				right = append(right, p)
			} else {
				left = append(left, p)
			}
		}
		assigner := NewPaletteAssigner(colors, explicit)
		leftPlot, err := buildPlot(left, ctx, assigner)
		if err != nil {
			return GraphDef{}, err
		}
		rightPlot, err := buildPlot(right, ctx, assigner)
		if err != nil {
			return GraphDef{}, err
		}
		return finish(ctx, opts, []Plot{leftPlot, rightPlot})
	default:
		return GraphDef{}, tserr.Newf(tserr.Usage, "", "unknown layout %q", opts.Layout)
	}
}

func finish(ctx evalctx.Context, opts BuildOptions, plots []Plot) (GraphDef, error) {
	g := GraphDef{
		StartTime: ctx.Start,
		EndTime:   ctx.End,
		Step:      ctx.Step,
		Timezone:  ctx.Timezone,
		Width:     opts.Width,
		Height:    opts.Height,
		Theme:     opts.Theme,
		Layout:    opts.Layout,
		Plots:     plots,
	}
	if err := g.Validate(); err != nil {
		return GraphDef{}, err
	}
	return g, nil
}

func buildPlot(pres []sql.Presentation, ctx evalctx.Context, assigner *PaletteAssigner) (Plot, error) {
	plot := Plot{Lines: []Line{}, VSpans: []VSpan{}}

	// stacked baselines are tracked across all :stack Presentations on this
	// plot, in insertion order: a stack group renders its members
	// top-to-bottom in the order they were added.
	posBaseline := make([]float64, ctx.Samples())
	negBaseline := make([]float64, ctx.Samples())

	for _, p := range pres {
		color := p.Color
		if color == "" {
			color = assigner.Next()
		}
		isStack := p.Style == sql.StyleStack

		if p.IsVSpan {
			for _, vs := range p.VSpans {
				plot.VSpans = append(plot.VSpans, VSpan{
					Start: vs.Start, End: vs.End,
					Color: color, Alpha: p.EffectiveAlpha(), Label: p.MemberLabel(0),
				})
			}
			continue
		}

		for i, member := range p.Members {
			bounded, err := member.Seq.Bounded(ctx.Start, ctx.End)
			if err != nil {
				return Plot{}, err
			}
			if isStack && OmitAllNaNStackMembers && allNaN(bounded.Values) {
				continue
			}
			data := bounded
			if isStack {
				data = stackLayer(bounded, posBaseline, negBaseline)
			}
			plot.Lines = append(plot.Lines, Line{
				Data:      data,
				Style:     Style(p.Style),
				Color:     color,
				LineWidth: p.EffectiveLineWidth(),
				Alpha:     p.EffectiveAlpha(),
				Label:     p.MemberLabel(i),
				Axis:      p.Axis,
			})
		}
	}
	return plot, nil
}

func allNaN(vals []float64) bool {
	for _, v := range vals {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

// stackLayer advances the running positive/negative baselines by the
// member's value at each sample and returns a sequence of the *cumulative*
// value (baseline+value). Positive and negative values stack on their own
// side of zero independently.
func stackLayer(s seq.Seq, pos, neg []float64) seq.Seq {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		if v >= 0 {
			pos[i] += v
			out[i] = pos[i]
		} else {
			neg[i] += v
			out[i] = neg[i]
		}
	}
	cp, _ := seq.New(s.Start, s.Step, out)
	return cp
}

// AxisBounds computes a plot's y-range as the min/max over all finite
// values of its member lines (vspans do not influence the range). An
// empty plot defaults to [0,1].
func AxisBounds(plot Plot) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	found := false
	for _, line := range plot.Lines {
		for _, v := range line.Data.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			found = true
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if !found {
		return 0, 1
	}
	if min == max {
		// a flat line still needs a non-degenerate range to render ticks.
		if min == 0 {
			return -1, 1
		}
		return min - math.Abs(min)*0.1, max + math.Abs(max)*0.1
	}
	return min, max
}
