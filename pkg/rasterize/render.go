package rasterize

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsplot/tsplot/pkg/graphdef"
	"github.com/tsplot/tsplot/pkg/tserr"
)

// Render rasterises a GraphDef into deterministic PNG bytes. Canvas size
// below the 80x40 minimum is rejected by graphdef.Build before this is
// ever reached; Render re-checks defensively so it never emits a partial
// image.
func Render(g graphdef.GraphDef, legend bool) ([]byte, error) {
	if g.Width < 80 || g.Height < 40 {
		return nil, tserr.Newf(tserr.Render, "InvalidCanvas", "canvas %dx%d below minimum 80x40", g.Width, g.Height)
	}
	theme, ok := ThemeByName(g.Theme)
	if !ok {
		return nil, tserr.Newf(tserr.Render, "", "unknown theme %q", g.Theme)
	}

	legendEntries := countLegendEntries(g)
	legendRows := 0
	if legend && legendEntries > 0 {
		legendRows = legendRowCount(legendEntries, g.Width)
	}
	layout := NewLayout(g.Width, g.Height, false, legendRows)

	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: theme.Background}, image.Point{}, draw.Src)

	plotHeight := layout.PlotHeight() / maxInt(len(g.Plots), 1)
	top := layout.PlotTop
	for _, plot := range g.Plots {
		sub := Layout{
			Width: layout.Width, Height: layout.Height, Margins: layout.Margins,
			PlotLeft: layout.PlotLeft, PlotRight: layout.PlotRight,
			PlotTop: top, PlotBottom: top + plotHeight,
		}
		if err := renderPlot(img, g, plot, sub, theme); err != nil {
			return nil, err
		}
		top += plotHeight
	}

	if legend && legendEntries > 0 {
		renderLegend(img, g, layout, theme)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, tserr.Wrap(err, tserr.Render, "", "encoding PNG")
	}
	return buf.Bytes(), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func countLegendEntries(g graphdef.GraphDef) int {
	n := 0
	for _, plot := range g.Plots {
		n += len(plot.Lines) + len(plot.VSpans)
	}
	return n
}

func legendRowCount(entries, width int) int {
	perRow := maxInt(width/140, 1)
	rows := (entries + perRow - 1) / perRow
	if rows < 1 {
		rows = 1
	}
	return rows
}

func renderPlot(img *image.RGBA, g graphdef.GraphDef, plot graphdef.Plot, l Layout, theme Theme) error {
	ymin, ymax := graphdef.AxisBounds(plot)

	xAt := func(t int64) int {
		frac := float64(t-g.StartTime) / float64(g.EndTime-g.StartTime)
		return l.PlotLeft + int(frac*float64(l.PlotWidth()))
	}
	yAt := func(v float64) int {
		frac := (v - ymin) / (ymax - ymin)
		return l.PlotBottom - int(frac*float64(l.PlotHeight()))
	}

	// vspans render first so lines draw on top.
	for _, vs := range plot.VSpans {
		x0, x1 := xAt(vs.Start), xAt(vs.End)
		fillRect(img, x0, l.PlotTop, x1, l.PlotBottom, withAlpha(parseColor(vs.Color), vs.Alpha))
	}

	drawAxes(img, l, theme)
	drawYTicks(img, l, ymin, ymax, theme)
	drawXTicks(img, l, g.StartTime, g.EndTime, locationOf(g.Timezone), theme)

	// posBaseline and negBaseline track the running cumulative value of
	// stacked lines on this plot, one entry per sample index, positive and
	// negative sides independent. A stacked line fills between its own
	// values (already cumulative, see graphdef.Build) and whatever these
	// baselines held before it ran, then advances them.
	nSamples := 0
	if g.Step > 0 {
		nSamples = int((g.EndTime - g.StartTime) / g.Step)
	}
	posBaseline := make([]float64, nSamples)
	negBaseline := make([]float64, nSamples)

	for _, line := range plot.Lines {
		c := withAlpha(parseColor(line.Color), line.Alpha)
		isStack := line.Style == graphdef.StyleStack
		pts := make([]image.Point, 0, line.Data.Len())
		var basePts []image.Point
		if isStack {
			basePts = make([]image.Point, 0, line.Data.Len())
		}
		baseline := yAt(0)
		fill := func() {
			switch line.Style {
			case graphdef.StyleArea:
				fillToBaseline(img, pts, baseline, c)
			case graphdef.StyleStack:
				fillBetweenPolylines(img, pts, basePts, c)
			}
		}
		for i, v := range line.Data.Values {
			if math.IsNaN(v) {
				if len(pts) > 1 {
					strokePolyline(img, pts, c, line.LineWidth)
					fill()
				}
				pts = pts[:0]
				if isStack {
					basePts = basePts[:0]
				}
				continue
			}
			t := line.Data.Start + int64(i)*line.Data.Step
			pts = append(pts, image.Point{X: xAt(t), Y: yAt(v)})
			if isStack && i < nSamples {
				var prev float64
				if v >= 0 {
					prev = posBaseline[i]
					posBaseline[i] = v
				} else {
					prev = negBaseline[i]
					negBaseline[i] = v
				}
				basePts = append(basePts, image.Point{X: xAt(t), Y: yAt(prev)})
			}
		}
		if len(pts) == 1 {
			fillCircle(img, pts[0], maxInt(line.LineWidth, 1), c)
		} else if len(pts) > 1 {
			strokePolyline(img, pts, c, line.LineWidth)
			fill()
		}
	}
	return nil
}

func drawAxes(img *image.RGBA, l Layout, theme Theme) {
	for x := l.PlotLeft; x <= l.PlotRight; x++ {
		img.Set(x, l.PlotBottom, theme.Axis)
	}
	for y := l.PlotTop; y <= l.PlotBottom; y++ {
		img.Set(l.PlotLeft, y, theme.Axis)
	}
}

func drawYTicks(img *image.RGBA, l Layout, ymin, ymax float64, theme Theme) {
	ticks := YTicks(ymin, ymax, l.PlotHeight())
	for _, v := range ticks {
		frac := (v - ymin) / (ymax - ymin)
		y := l.PlotBottom - int(frac*float64(l.PlotHeight()))
		if y < l.PlotTop || y > l.PlotBottom {
			continue
		}
		for x := l.PlotLeft - 4; x < l.PlotLeft; x++ {
			img.Set(x, y, theme.Axis)
		}
		drawText(img, l.PlotLeft-formatWidth(v), y-4, formatTickValue(v), theme.Text)
	}
}

func drawXTicks(img *image.RGBA, l Layout, start, end int64, loc *time.Location, theme Theme) {
	for _, tk := range XTicks(start, end, loc) {
		frac := float64(tk.TimeMillis-start) / float64(end-start)
		x := l.PlotLeft + int(frac*float64(l.PlotWidth()))
		for y := l.PlotBottom; y < l.PlotBottom+4; y++ {
			img.Set(x, y, theme.Axis)
		}
		drawText(img, x-len(tk.Label)*3, l.PlotBottom+6, tk.Label, theme.Text)
	}
}

func renderLegend(img *image.RGBA, g graphdef.GraphDef, l Layout, theme Theme) {
	x, y := l.Margins.West, l.PlotBottom+20
	perRow := maxInt(l.Width/140, 1)
	col := 0
	place := func(c color.RGBA, label string) {
		fillRect(img, x, y, x+legendSwatchSize, y+legendSwatchSize, c)
		drawText(img, x+legendSwatchSize+4, y+8, label, theme.Text)
		col++
		if col >= perRow {
			col = 0
			x = l.Margins.West
			y += legendRowHeight
		} else {
			x += 140
		}
	}
	for _, plot := range g.Plots {
		for _, line := range plot.Lines {
			place(withAlpha(parseColor(line.Color), line.Alpha), line.Label)
		}
		for _, vs := range plot.VSpans {
			place(withAlpha(parseColor(vs.Color), vs.Alpha), vs.Label)
		}
	}
}

func formatWidth(v float64) int {
	s := formatTickValue(v)
	return len(s)*6 + 6
}

// basicFontFace is the shipped, fixed-size bitmap font used for all text,
// keeping glyph rasterisation identical across runs and platforms.
var basicFontFace = basicfont.Face7x13

func drawText(img *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicFontFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
