package rasterize

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
	"time"
)

// locationOf resolves a GraphDef's stored timezone name back to a
// *time.Location for tick-label rendering; labels render using the
// context timezone. GraphDef carries the timezone as a name rather than a
// *time.Location so it stays a plain, JSON-codec-friendly value.
func locationOf(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// namedColors covers the small set of CSS-style color names the evaluator
// accepts for :color in addition to hex strings.
var namedColors = map[string]color.RGBA{
	"red":    {R: 0xff, A: 0xff},
	"green":  {G: 0x80, A: 0xff},
	"blue":   {B: 0xff, A: 0xff},
	"black":  {A: 0xff},
	"white":  {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	"orange": {R: 0xff, G: 0xa5, A: 0xff},
	"purple": {R: 0x80, B: 0x80, A: 0xff},
	"grey":   {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"gray":   {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
}

func parseColor(s string) color.RGBA {
	if s == "" {
		return color.RGBA{A: 0xff}
	}
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
		g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
		b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
		if err1 == nil && err2 == nil && err3 == nil {
			return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
		}
	}
	return color.RGBA{A: 0xff}
}

func withAlpha(c color.RGBA, alphaPct int) color.RGBA {
	if alphaPct <= 0 {
		alphaPct = 100
	}
	if alphaPct > 100 {
		alphaPct = 100
	}
	a := uint8(float64(0xff) * float64(alphaPct) / 100.0)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

func blend(dst color.RGBA, src color.RGBA) color.RGBA {
	if src.A == 0xff {
		return src
	}
	af := float64(src.A) / 255.0
	r := uint8(float64(src.R)*af + float64(dst.R)*(1-af))
	g := uint8(float64(src.G)*af + float64(dst.G)*(1-af))
	b := uint8(float64(src.B)*af + float64(dst.B)*(1-af))
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func setBlended(img *image.RGBA, x, y int, c color.RGBA) {
	if x < img.Bounds().Min.X || x >= img.Bounds().Max.X || y < img.Bounds().Min.Y || y >= img.Bounds().Max.Y {
		return
	}
	existing := img.RGBAAt(x, y)
	img.SetRGBA(x, y, blend(existing, c))
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			setBlended(img, x, y, c)
		}
	}
}

func fillCircle(img *image.RGBA, center image.Point, radius int, c color.RGBA) {
	if radius < 1 {
		radius = 1
	}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				setBlended(img, center.X+dx, center.Y+dy, c)
			}
		}
	}
}

// strokeLine draws a line segment with a thickness of width pixels and
// round joins (approximated by stamping a disc at every plotted point).
func strokeLine(img *image.RGBA, p0, p1 image.Point, c color.RGBA, width int) {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	steps := maxInt(absInt(dx), absInt(dy))
	if steps == 0 {
		fillCircle(img, p0, width/2, c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := p0.X + int(math.Round(float64(dx)*t))
		y := p0.Y + int(math.Round(float64(dy)*t))
		fillCircle(img, image.Point{X: x, Y: y}, maxInt(width/2, 0), c)
	}
}

// strokePolyline connects consecutive points, breaking on NaN gaps is the
// caller's responsibility (pts passed here is already one contiguous run).
func strokePolyline(img *image.RGBA, pts []image.Point, c color.RGBA, width int) {
	for i := 0; i+1 < len(pts); i++ {
		strokeLine(img, pts[i], pts[i+1], c, width)
	}
}

// fillToBaseline fills the polygon bounded by pts and the horizontal
// baseline y: for each x column spanned by consecutive points, fill
// between the interpolated line value and the baseline.
func fillToBaseline(img *image.RGBA, pts []image.Point, baseline int, c color.RGBA) {
	for i := 0; i+1 < len(pts); i++ {
		x0, x1 := pts[i].X, pts[i+1].X
		y0, y1 := pts[i].Y, pts[i+1].Y
		if x1 == x0 {
			fillRect(img, x0, minInt(y0, baseline), x1, maxInt(y0, baseline), c)
			continue
		}
		for x := x0; x <= x1; x++ {
			t := float64(x-x0) / float64(x1-x0)
			y := int(math.Round(float64(y0) + t*float64(y1-y0)))
			fillRect(img, x, minInt(y, baseline), x, maxInt(y, baseline), c)
		}
	}
}

// fillBetweenPolylines fills the region between two index-aligned
// polylines sharing the same x coordinates, used for a stacked line whose
// baseline is the previous layer's cumulative value at each sample rather
// than a single fixed y. Assumes len(basePts) == len(pts).
func fillBetweenPolylines(img *image.RGBA, pts, basePts []image.Point, c color.RGBA) {
	n := len(pts)
	if len(basePts) < n {
		n = len(basePts)
	}
	for i := 0; i+1 < n; i++ {
		x0, x1 := pts[i].X, pts[i+1].X
		y0, y1 := pts[i].Y, pts[i+1].Y
		b0, b1 := basePts[i].Y, basePts[i+1].Y
		if x1 == x0 {
			fillRect(img, x0, minInt(y0, b0), x1, maxInt(y0, b0), c)
			continue
		}
		for x := x0; x <= x1; x++ {
			t := float64(x-x0) / float64(x1-x0)
			y := int(math.Round(float64(y0) + t*float64(y1-y0)))
			b := int(math.Round(float64(b0) + t*float64(b1-b0)))
			fillRect(img, x, minInt(y, b), x, maxInt(y, b), c)
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func formatTickValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return fmt.Sprintf("%.3g", v)
}
