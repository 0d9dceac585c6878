// Package rasterize implements the PNG engine: deterministic
// rasterisation of a GraphDef to an 8-bit RGB PNG — canvas layout, tick
// selection, line/area/stack/vspan rendering, themes, and legend layout.
//
// image/png/draw/color from the standard library is the canonical,
// deterministic choice for this concern (see DESIGN.md). Text uses
// golang.org/x/image/font/basicfont, a shipped bitmap font at a fixed
// size, which keeps glyph rendering identical across platforms and Go
// versions.
package rasterize

import "image/color"

// Theme is a named color scheme: light uses black axes/text on white;
// dark uses light grey on near-black.
type Theme struct {
	Name       string
	Background color.RGBA
	Axis       color.RGBA
	Text       color.RGBA
	Grid       color.RGBA
}

var themes = map[string]Theme{
	"light": {
		Name:       "light",
		Background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Axis:       color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff},
		Text:       color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff},
		Grid:       color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff},
	},
	"dark": {
		Name:       "dark",
		Background: color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff},
		Axis:       color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff},
		Text:       color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff},
		Grid:       color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff},
	},
}

// ThemeByName returns the theme for name, defaulting to "light" when empty.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		name = "light"
	}
	t, ok := themes[name]
	return t, ok
}
