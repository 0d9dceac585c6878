package graphdef

import "github.com/tsplot/tsplot/pkg/tserr"

// Palette is an ordered, deterministic list of hex colors, length >= 8.
// "default" and "atlas" are the two named palettes, each with a light and
// dark variant.
var palettes = map[string]map[string][]string{
	"default": {
		"light": {
			"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728",
			"#9467bd", "#8c564b", "#e377c2", "#7f7f7f",
			"#bcbd22", "#17becf",
		},
		"dark": {
			"#8dd3c7", "#ffffb3", "#bebada", "#fb8072",
			"#80b1d3", "#fdb462", "#b3de69", "#fccde5",
			"#d9d9d9", "#bc80bd",
		},
	},
	"atlas": {
		"light": {
			"#3b5b92", "#d9534f", "#5cb85c", "#f0ad4e",
			"#5bc0de", "#8e44ad", "#e67e22", "#2c3e50",
			"#1abc9c", "#c0392b",
		},
		"dark": {
			"#6ea8d8", "#f2a19d", "#8fd98f", "#f7c97f",
			"#8fd6ec", "#bb8fce", "#f0b27a", "#aeb6bf",
			"#76d7c4", "#e6847e",
		},
	},
}

// Palette returns the ordered color list for name/theme.
func Palette(name, theme string) ([]string, error) {
	if name == "" {
		name = "default"
	}
	byTheme, ok := palettes[name]
	if !ok {
		return nil, tserr.Newf(tserr.Usage, "", "unknown palette %q", name)
	}
	colors, ok := byTheme[theme]
	if !ok {
		return nil, tserr.Newf(tserr.Usage, "", "unknown theme %q", theme)
	}
	return colors, nil
}

// PaletteAssigner hands out palette colors in insertion order, skipping
// colors already explicitly used by a Presentation.
type PaletteAssigner struct {
	colors []string
	used   map[string]bool
	next   int
}

// NewPaletteAssigner builds an assigner over the given palette, pre-seeded
// with any colors explicit Presentations already claimed.
func NewPaletteAssigner(colors []string, explicit []string) *PaletteAssigner {
	used := make(map[string]bool, len(explicit))
	for _, c := range explicit {
		used[c] = true
	}
	return &PaletteAssigner{colors: colors, used: used}
}

// Next returns the next unused palette color, cycling with palette[i %
// len(palette)] and skipping explicitly-used colors.
func (a *PaletteAssigner) Next() string {
	for {
		c := a.colors[a.next%len(a.colors)]
		a.next++
		if !a.used[c] {
			a.used[c] = true
			return c
		}
		if a.next > len(a.colors)*2 {
			// every color in the palette is explicitly used; fall back to
			// plain cycling rather than looping forever.
			return c
		}
	}
}
