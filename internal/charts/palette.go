package charts

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Palettes used by the figures, in hue order
var (
	PaletteUsers   = []string{"#34ae91", "#3ba3ec"}
	PaletteSeasons = []string{"#34ae91", "#bb83f4", "#3ba3ec", "#f77189"}
)

// ParseHex parses a "#rrggbb" color
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func mustPalette(hex []string) []color.Color {
	out := make([]color.Color, len(hex))
	for i, h := range hex {
		c, err := ParseHex(h)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

// colorAt cycles through palette when there are more hues than colors
func colorAt(palette []color.Color, i int) color.Color {
	return palette[i%len(palette)]
}
