package rasterize

import (
	"math"
	"time"
)

// YTicks chooses the tick step as the smallest value of {1,2,5}*10^k such
// that the plot area fits between 3 and 8 ticks.
func YTicks(ymin, ymax float64, plotHeightPx int) []float64 {
	if ymax <= ymin {
		ymax = ymin + 1
	}
	span := ymax - ymin
	step := niceStep(span, 3, 8)

	start := math.Floor(ymin/step) * step
	var out []float64
	for v := start; v <= ymax+step*0.5; v += step {
		if v >= ymin-step*0.5 {
			out = append(out, v)
		}
	}
	return out
}

// niceStep returns the smallest {1,2,5}*10^k such that span/step falls in
// [minTicks, maxTicks].
func niceStep(span float64, minTicks, maxTicks int) float64 {
	if span <= 0 {
		span = 1
	}
	candidates := []float64{1, 2, 5}
	exp := math.Floor(math.Log10(span / float64(maxTicks)))
	for e := exp - 1; e <= exp+8; e++ {
		for _, c := range candidates {
			step := c * math.Pow(10, e)
			n := span / step
			if n >= float64(minTicks) && n <= float64(maxTicks) {
				return step
			}
		}
	}
	// fall back to the largest sensible step if nothing in range was found
	return span / float64(minTicks)
}

// xTickUnit is one of the fixed time-axis granularities.
type xTickUnit struct {
	name string
	ms   int64
}

var xTickUnits = []xTickUnit{
	{"10s", 10 * 1000},
	{"1m", 60 * 1000},
	{"5m", 5 * 60 * 1000},
	{"15m", 15 * 60 * 1000},
	{"1h", 60 * 60 * 1000},
	{"6h", 6 * 60 * 60 * 1000},
	{"1d", 24 * 60 * 60 * 1000},
	{"7d", 7 * 24 * 60 * 60 * 1000},
}

// XTick is one labeled tick on the time axis.
type XTick struct {
	TimeMillis int64
	Label      string
}

// XTicks picks the finest of the fixed granularities that puts at most 10
// labels in the [start,end) span, and renders labels in loc. When that
// granularity yields fewer than 5 labels (for a 1h span, 15m gives 4),
// fewer than 5 are drawn.
func XTicks(start, end int64, loc *time.Location) []XTick {
	span := end - start
	unit := xTickUnits[len(xTickUnits)-1]
	for _, u := range xTickUnits {
		if span/u.ms >= 5 && span/u.ms <= 10 {
			unit = u
			break
		}
		unit = u // last viable fallback: smallest unit whose count <= 10
		if span/u.ms <= 10 {
			break
		}
	}

	alignedStart := (start / unit.ms) * unit.ms
	if alignedStart < start {
		alignedStart += unit.ms
	}

	var out []XTick
	for t := alignedStart; t < end; t += unit.ms {
		out = append(out, XTick{TimeMillis: t, Label: formatTickLabel(t, unit, loc)})
	}
	return out
}

func formatTickLabel(t int64, unit xTickUnit, loc *time.Location) string {
	tm := time.UnixMilli(t).In(loc)
	switch {
	case unit.ms < 60*60*1000:
		return tm.Format("15:04")
	case unit.ms < 24*60*60*1000:
		return tm.Format("Jan 02 15:04")
	default:
		return tm.Format("Jan 02")
	}
}
