// Package geometry holds the value types exchanged between the table cell
// drawers and a drawing surface: colors, border styles and positioned
// lines/rectangles in PDF user space (origin bottom-left, y grows upward).
package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// Color represents an RGB color. Components are in the range [0, 1].
// A is only used to tell an explicit black apart from an unset color.
type Color struct {
	R, G, B float64
	A       float64
}

// Common colors.
var (
	Black = RGB(0, 0, 0)
	White = RGB(1, 1, 1)
	Gray  = RGB(0.5, 0.5, 0.5)
	Red   = RGB(1, 0, 0)
	Blue  = RGB(0, 0, 1)
)

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// IsZero reports whether the color is unset.
func (c Color) IsZero() bool {
	return c.R == 0 && c.G == 0 && c.B == 0 && c.A == 0
}

// Or returns c, or fallback when c is unset.
func (c Color) Or(fallback Color) Color {
	if c.IsZero() {
		return fallback
	}
	return c
}

// ParseHex parses "#rrggbb", "rrggbb" or "#rgb".
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB(float64(v>>16&0xff)/255, float64(v>>8&0xff)/255, float64(v&0xff)/255), nil
}

// BorderStyle controls how a border line is stroked.
type BorderStyle int

const (
	BorderSolid BorderStyle = iota
	BorderDashed
	BorderDotted
)

// DashPattern returns the PDF dash array for the style scaled by the line
// width. Solid lines have no pattern.
func (s BorderStyle) DashPattern(width float64) []float64 {
	if width <= 0 {
		width = 1
	}
	switch s {
	case BorderDashed:
		return []float64{3 * width, 3 * width}
	case BorderDotted:
		return []float64{width, width}
	default:
		return nil
	}
}

func (s BorderStyle) String() string {
	switch s {
	case BorderDashed:
		return "dashed"
	case BorderDotted:
		return "dotted"
	default:
		return "solid"
	}
}

// ParseBorderStyle maps "solid", "dashed" and "dotted" to a BorderStyle.
func ParseBorderStyle(s string) (BorderStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "solid":
		return BorderSolid, nil
	case "dashed":
		return BorderDashed, nil
	case "dotted":
		return BorderDotted, nil
	default:
		return BorderSolid, fmt.Errorf("unknown border style %q", s)
	}
}

// Point is a position in user space.
type Point struct {
	X, Y float64
}

// PositionedLine is a single stroked line command.
type PositionedLine struct {
	StartX, StartY float64
	EndX, EndY     float64
	Width          float64
	Color          Color
	// ResetColor is the stroke color restored after the line is drawn. It is
	// also used when Color is unset.
	ResetColor Color
	Style      BorderStyle
}

// EffectiveColor returns the color the line is stroked with.
func (l PositionedLine) EffectiveColor() Color {
	return l.Color.Or(l.ResetColor)
}

// PositionedRectangle is a single filled rectangle command. (X, Y) is the
// lower-left corner.
type PositionedRectangle struct {
	X, Y          float64
	Width, Height float64
	Color         Color
}
