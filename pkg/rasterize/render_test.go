package rasterize

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tsplot/tsplot/pkg/graphdef"
	"github.com/tsplot/tsplot/pkg/seq"
)

func fixtureGraphDef(t *testing.T) graphdef.GraphDef {
	t.Helper()
	s, err := seq.New(0, 1000, []float64{1, 2, 3, 2, 1})
	require.NoError(t, err)
	return graphdef.GraphDef{
		StartTime: 0, EndTime: 5000, Step: 1000, Timezone: "UTC",
		Width: 200, Height: 120, Theme: "light", Layout: graphdef.LayoutSingle,
		Plots: []graphdef.Plot{{
			Lines: []graphdef.Line{{Data: s, Style: graphdef.StyleLine, Color: "#1f77b4", LineWidth: 1, Alpha: 100, Label: "requests"}},
		}},
	}
}

func TestRenderProducesValidPNGOfRequestedSize(t *testing.T) {
	gd := fixtureGraphDef(t)
	out, err := Render(gd, true)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, gd.Width, img.Bounds().Dx())
	require.Equal(t, gd.Height, img.Bounds().Dy())
}

func TestRenderIsDeterministic(t *testing.T) {
	gd := fixtureGraphDef(t)
	a, err := Render(gd, true)
	require.NoError(t, err)
	b, err := Render(gd, true)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestRenderRejectsUndersizedCanvas(t *testing.T) {
	gd := fixtureGraphDef(t)
	gd.Width = 10
	_, err := Render(gd, true)
	require.Error(t, err)
}

func TestRenderRejectsUnknownTheme(t *testing.T) {
	gd := fixtureGraphDef(t)
	gd.Theme = "neon"
	_, err := Render(gd, true)
	require.Error(t, err)
}

func TestParseColorHandlesHexAndNamed(t *testing.T) {
	c := parseColor("#ff0000")
	require.Equal(t, uint8(0xff), c.R)
	require.Equal(t, uint8(0), c.G)

	c = parseColor("blue")
	require.Equal(t, uint8(0xff), c.B)
}

func TestWithAlphaScalesAlphaChannel(t *testing.T) {
	c := withAlpha(parseColor("#000000"), 50)
	require.InDelta(t, 127, int(c.A), 2)
}

func TestYTicksStayWithinRange(t *testing.T) {
	ticks := YTicks(0, 100, 300)
	require.NotEmpty(t, ticks)
	for _, v := range ticks {
		require.GreaterOrEqual(t, v, -1.0)
	}
}

func TestXTicksChoosesAReasonableCount(t *testing.T) {
	ticks := XTicks(0, 3600*1000, time.UTC)
	require.True(t, len(ticks) >= 3 && len(ticks) <= 15)
}
