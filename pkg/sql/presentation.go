package sql

import "github.com/tsplot/tsplot/pkg/series"

// Style is the rendered line style of a Presentation.
type Style string

const (
	StyleLine  Style = "line"
	StyleArea  Style = "area"
	StyleStack Style = "stack"
)

// VSpanInterval is a contiguous [Start, End) band produced by :vspan.
// Within one member's scan, End of one interval never exceeds Start of
// the next.
type VSpanInterval struct {
	Start int64
	End   int64
}

// Presentation is a TimeSeriesExpr (or DataExpr) annotated with visual
// attributes. Members holds the resolved lines (more than one when derived
// from a :by group); IsVSpan switches the Presentation from rendering
// lines to rendering vertical spans.
type Presentation struct {
	Members []series.TimeSeries

	IsVSpan  bool
	VSpans   []VSpanInterval

	Style     Style
	Color     string // "" = unset, auto-assigned by the GraphDef builder
	LineWidth int    // 0 = unset, builder applies a default
	Alpha     int    // 0-100; 0 treated as "unset -> 100" unless AlphaSet
	AlphaSet  bool
	Axis      int // 0 (left) or 1 (right)
	Label     string
	LabelSet  bool
}

// DefaultPresentation wraps a resolved series list with the default
// presentation attributes: style=line, alpha=100, axis=left, color unset
// (assigned later), label auto-derived per member.
func DefaultPresentation(members []series.TimeSeries) Presentation {
	return Presentation{
		Members: members,
		Style:   StyleLine,
		Alpha:   100,
		AlphaSet: true,
		Axis:    0,
	}
}

// EffectiveAlpha returns the alpha to render with.
func (p Presentation) EffectiveAlpha() int {
	if !p.AlphaSet {
		return 100
	}
	return p.Alpha
}

// EffectiveLineWidth returns the line width to render with (default 1).
func (p Presentation) EffectiveLineWidth() int {
	if p.LineWidth <= 0 {
		return 1
	}
	return p.LineWidth
}

// MemberLabel returns the label to use for a given member index, honoring
// a :legend override.
func (p Presentation) MemberLabel(i int) string {
	if p.LabelSet {
		return p.Label
	}
	if i >= 0 && i < len(p.Members) {
		return p.Members[i].Label
	}
	return ""
}
