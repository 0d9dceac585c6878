package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsplot/tsplot/pkg/graphdef"
	"github.com/tsplot/tsplot/pkg/seq"
)

func fixtureGraphDef(t *testing.T) graphdef.GraphDef {
	t.Helper()
	s, err := seq.New(0, 1000, []float64{1, 2, 3})
	require.NoError(t, err)
	return graphdef.GraphDef{
		StartTime: 0, EndTime: 3000, Step: 1000, Timezone: "UTC",
		Width: 800, Height: 400, Theme: "light", Layout: graphdef.LayoutSingle,
		Plots: []graphdef.Plot{{
			AxisLabel: "requests",
			Lines: []graphdef.Line{{Data: s, Style: graphdef.StyleLine, Color: "#1f77b4", LineWidth: 1, Alpha: 100, Label: "requests"}},
			VSpans: []graphdef.VSpan{{Start: 1000, End: 2000, Color: "red", Alpha: 30, Label: "incident"}},
		}},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	gd := fixtureGraphDef(t)
	data, err := Encode(gd, false)
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, gd, out)
}

func TestEncodeDecodeRoundTripGzipped(t *testing.T) {
	gd := fixtureGraphDef(t)
	data, err := Encode(gd, true)
	require.NoError(t, err)
	require.Equal(t, byte(0x1f), data[0])
	require.Equal(t, byte(0x8b), data[1])

	out, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, gd, out)
}

func TestEncodeIsDeterministic(t *testing.T) {
	gd := fixtureGraphDef(t)
	a, err := Encode(gd, false)
	require.NoError(t, err)
	b, err := Encode(gd, false)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	_, err := Decode([]byte(`{"version":99,"startTime":0,"endTime":1000,"step":1000}`))
	require.Error(t, err)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	require.Error(t, err)
}
