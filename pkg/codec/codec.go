// Package codec implements the GraphDef V2 JSON codec: a stable,
// full-precision serialization of graphdef.GraphDef, with transparent gzip
// support for the .gz suffix.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	jsoniter "github.com/json-iterator/go"

	"github.com/tsplot/tsplot/pkg/graphdef"
	"github.com/tsplot/tsplot/pkg/seq"
	"github.com/tsplot/tsplot/pkg/tserr"
)

// Version is the GraphDef wire format version this codec emits.
const Version = 2

// json is configured to preserve map key order deterministically is not
// possible with encoding/json-compatible semantics (Go maps have no
// order); GraphDef carries no maps in its wire shape, so the stock
// jsoniter config already produces stable field order matching struct
// declaration order, so encoding the same value twice yields identical
// bytes.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

type wireSeq struct {
	Start  int64     `json:"start"`
	Step   int64     `json:"step"`
	Values []float64 `json:"values"`
}

type wireLine struct {
	Data      wireSeq `json:"data"`
	Style     string  `json:"style"`
	Color     string  `json:"color"`
	LineWidth int     `json:"lineWidth"`
	Alpha     int     `json:"alpha"`
	Label     string  `json:"label"`
	Axis      int     `json:"axis"`
}

type wireVSpan struct {
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Color string `json:"color"`
	Alpha int    `json:"alpha"`
	Label string `json:"label"`
}

type wirePlot struct {
	AxisLabel string      `json:"axisLabel"`
	Lines     []wireLine  `json:"lines"`
	VSpans    []wireVSpan `json:"vspans"`
}

type wireGraphDef struct {
	Version   int        `json:"version"`
	StartTime int64      `json:"startTime"`
	EndTime   int64      `json:"endTime"`
	Step      int64      `json:"step"`
	Timezone  string     `json:"timezone"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Theme     string     `json:"theme"`
	Layout    string     `json:"layout"`
	Plots     []wirePlot `json:"plots"`
}

func toWire(g graphdef.GraphDef) wireGraphDef {
	w := wireGraphDef{
		Version: Version, StartTime: g.StartTime, EndTime: g.EndTime, Step: g.Step, Timezone: g.Timezone,
		Width: g.Width, Height: g.Height, Theme: g.Theme, Layout: g.Layout,
		Plots: make([]wirePlot, len(g.Plots)),
	}
	for i, p := range g.Plots {
		wp := wirePlot{AxisLabel: p.AxisLabel, Lines: make([]wireLine, len(p.Lines)), VSpans: make([]wireVSpan, len(p.VSpans))}
		for j, l := range p.Lines {
			wp.Lines[j] = wireLine{
				Data:      wireSeq{Start: l.Data.Start, Step: l.Data.Step, Values: l.Data.Values},
				Style:     string(l.Style), Color: l.Color, LineWidth: l.LineWidth,
				Alpha: l.Alpha, Label: l.Label, Axis: l.Axis,
			}
		}
		for j, v := range p.VSpans {
			wp.VSpans[j] = wireVSpan{Start: v.Start, End: v.End, Color: v.Color, Alpha: v.Alpha, Label: v.Label}
		}
		w.Plots[i] = wp
	}
	return w
}

func fromWire(w wireGraphDef) (graphdef.GraphDef, error) {
	g := graphdef.GraphDef{
		StartTime: w.StartTime, EndTime: w.EndTime, Step: w.Step, Timezone: w.Timezone,
		Width: w.Width, Height: w.Height, Theme: w.Theme, Layout: w.Layout,
		Plots: make([]graphdef.Plot, len(w.Plots)),
	}
	for i, wp := range w.Plots {
		p := graphdef.Plot{AxisLabel: wp.AxisLabel, Lines: make([]graphdef.Line, len(wp.Lines)), VSpans: make([]graphdef.VSpan, len(wp.VSpans))}
		for j, wl := range wp.Lines {
			s, err := seq.New(wl.Data.Start, wl.Data.Step, wl.Data.Values)
			if err != nil {
				return graphdef.GraphDef{}, tserr.Wrap(err, tserr.Codec, "InvalidSeq", fmt.Sprintf("decoding line %q", wl.Label))
			}
			p.Lines[j] = graphdef.Line{
				Data: s, Style: graphdef.Style(wl.Style), Color: wl.Color,
				LineWidth: wl.LineWidth, Alpha: wl.Alpha, Label: wl.Label, Axis: wl.Axis,
			}
		}
		for j, wv := range wp.VSpans {
			p.VSpans[j] = graphdef.VSpan{Start: wv.Start, End: wv.End, Color: wv.Color, Alpha: wv.Alpha, Label: wv.Label}
		}
		g.Plots[i] = p
	}
	return g, nil
}

// Encode serializes g as GraphDef V2 JSON. When gzipped is true the output
// is gzip-compressed.
func Encode(g graphdef.GraphDef, gzipped bool) ([]byte, error) {
	buf, err := json.Marshal(toWire(g))
	if err != nil {
		return nil, tserr.Wrap(err, tserr.Codec, "", "marshaling GraphDef")
	}
	if !gzipped {
		return buf, nil
	}
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	if _, err := w.Write(buf); err != nil {
		return nil, tserr.Wrap(err, tserr.Codec, "", "gzip-compressing GraphDef")
	}
	if err := w.Close(); err != nil {
		return nil, tserr.Wrap(err, tserr.Codec, "", "closing gzip writer")
	}
	return gz.Bytes(), nil
}

// Decode parses GraphDef V2 JSON, transparently gunzipping when the input
// carries a gzip magic header.
func Decode(data []byte) (graphdef.GraphDef, error) {
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return graphdef.GraphDef{}, tserr.Wrap(err, tserr.Codec, "", "opening gzip reader")
		}
		defer r.Close()
		plain, err := io.ReadAll(r)
		if err != nil {
			return graphdef.GraphDef{}, tserr.Wrap(err, tserr.Codec, "", "reading gzip stream")
		}
		data = plain
	}

	var w wireGraphDef
	if err := json.Unmarshal(data, &w); err != nil {
		return graphdef.GraphDef{}, tserr.Wrap(err, tserr.Codec, "Malformed", "decoding GraphDef JSON")
	}
	if w.Version != Version {
		return graphdef.GraphDef{}, tserr.Newf(tserr.Codec, "VersionMismatch", "unsupported GraphDef version %d, expected %d", w.Version, Version)
	}
	return fromWire(w)
}
