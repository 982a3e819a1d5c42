// This file contains the Color type used for the six colors of a cave.

package cavecore

import (
	"fmt"
	"strings"
)

// Color is an RGB color. The zero value is black; ColorUnknown is a sentinel
// for colors that could not be parsed.
type Color struct {
	R, G, B uint8

	// unknown marks the sentinel value.
	unknown bool
}

// ColorUnknown is the sentinel for unparseable colors.
var ColorUnknown = Color{unknown: true}

// IsUnknown reports whether the color is the unknown sentinel.
func (c Color) IsUnknown() bool {
	return c.unknown
}

// RGB returns a color from red, green and blue components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// c64Palette is the C64 palette, indexed by the C64 color number.
var c64Palette = []Color{
	{R: 0x00, G: 0x00, B: 0x00}, // Black
	{R: 0xff, G: 0xff, B: 0xff}, // White
	{R: 0x88, G: 0x00, B: 0x00}, // Red
	{R: 0xaa, G: 0xff, B: 0xee}, // Cyan
	{R: 0xcc, G: 0x44, B: 0xcc}, // Purple
	{R: 0x00, G: 0xcc, B: 0x55}, // Green
	{R: 0x00, G: 0x00, B: 0xaa}, // Blue
	{R: 0xee, G: 0xee, B: 0x77}, // Yellow
	{R: 0xdd, G: 0x88, B: 0x55}, // Orange
	{R: 0x66, G: 0x44, B: 0x00}, // Brown
	{R: 0xff, G: 0x77, B: 0x77}, // LightRed
	{R: 0x33, G: 0x33, B: 0x33}, // Gray1
	{R: 0x77, G: 0x77, B: 0x77}, // Gray2
	{R: 0xaa, G: 0xff, B: 0x66}, // LightGreen
	{R: 0x00, G: 0x88, B: 0xff}, // LightBlue
	{R: 0xbb, G: 0xbb, B: 0xbb}, // Gray3
}

// c64ColorNames holds the BDCFF names of the C64 palette entries.
var c64ColorNames = []string{
	"Black", "White", "Red", "Cyan", "Purple", "Green", "Blue", "Yellow",
	"Orange", "Brown", "LightRed", "Gray1", "Gray2", "LightGreen",
	"LightBlue", "Gray3",
}

// C64Color returns the index-th color of the C64 palette.
func C64Color(index int) Color {
	return c64Palette[index&0x0f]
}

// C64PaletteSize is the number of colors in the C64 palette.
const C64PaletteSize = 16

// String returns the BDCFF representation of the color: the C64 color name
// if it is a palette color, otherwise #rrggbb.
func (c Color) String() string {
	if c.unknown {
		return "Unknown"
	}
	for i, p := range c64Palette {
		if c == p {
			return c64ColorNames[i]
		}
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ColorByName returns the color for a BDCFF color string: a C64 color name
// (case-insensitive) or a #rrggbb / rrggbb hex triple. ColorUnknown is
// returned for anything else.
func ColorByName(name string) Color {
	s := strings.TrimSpace(name)
	for i, n := range c64ColorNames {
		if strings.EqualFold(n, s) {
			return c64Palette[i]
		}
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) == 6 {
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err == nil {
			return Color{R: r, G: g, B: b}
		}
	}
	return ColorUnknown
}
