package rasterize

// Margins are the outer canvas margins, default 10/10/40/60 px N/E/S/W.
type Margins struct {
	North, East, South, West int
}

// DefaultMargins returns the default margins.
func DefaultMargins() Margins {
	return Margins{North: 10, East: 10, South: 40, West: 60}
}

const (
	titleBandHeight  = 20
	legendRowHeight  = 18
	legendSwatchSize = 10
)

// Layout describes the pixel rectangles of a canvas: title band, legend
// band, and the remaining plot area.
type Layout struct {
	Width, Height int
	Margins       Margins

	HasTitle  bool
	HasLegend bool
	LegendRows int

	PlotLeft, PlotTop, PlotRight, PlotBottom int
}

// NewLayout computes the canvas layout for the given canvas size, whether
// a title is present, and how many legend rows are needed.
func NewLayout(width, height int, hasTitle bool, legendRows int) Layout {
	m := DefaultMargins()
	l := Layout{Width: width, Height: height, Margins: m, HasTitle: hasTitle, LegendRows: legendRows, HasLegend: legendRows > 0}

	top := m.North
	if hasTitle {
		top += titleBandHeight
	}
	bottom := height - m.South
	if legendRows > 0 {
		bottom -= legendRows * legendRowHeight
	}
	l.PlotLeft = m.West
	l.PlotRight = width - m.East
	l.PlotTop = top
	l.PlotBottom = bottom
	return l
}

// PlotWidth and PlotHeight are the pixel dimensions of the plot area.
func (l Layout) PlotWidth() int  { return l.PlotRight - l.PlotLeft }
func (l Layout) PlotHeight() int { return l.PlotBottom - l.PlotTop }
