package table

import (
	"fmt"
	"strings"

	"github.com/wudi/pdftable/geometry"
)

// VerticalAlignment positions content inside a cell vertically. The zero
// value inherits from the row or table.
type VerticalAlignment int

const (
	VAlignInherit VerticalAlignment = iota
	VAlignTop
	VAlignMiddle
	VAlignBottom
)

// ParseVerticalAlignment maps "top", "middle" and "bottom".
func ParseVerticalAlignment(s string) (VerticalAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return VAlignInherit, nil
	case "top":
		return VAlignTop, nil
	case "middle", "center":
		return VAlignMiddle, nil
	case "bottom":
		return VAlignBottom, nil
	}
	return VAlignInherit, fmt.Errorf("unknown vertical alignment %q", s)
}

// HorizontalAlignment positions content inside a cell horizontally. The zero
// value inherits from the row or table.
type HorizontalAlignment int

const (
	HAlignInherit HorizontalAlignment = iota
	HAlignLeft
	HAlignCenter
	HAlignRight
)

// ParseHorizontalAlignment maps "left", "center" and "right".
func ParseHorizontalAlignment(s string) (HorizontalAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return HAlignInherit, nil
	case "left":
		return HAlignLeft, nil
	case "center", "middle":
		return HAlignCenter, nil
	case "right":
		return HAlignRight, nil
	}
	return HAlignInherit, fmt.Errorf("unknown horizontal alignment %q", s)
}

// Padding defines spacing inside a cell.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// UniformPadding creates a Padding with the same value on all sides.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// Border describes one side of a cell frame.
type Border struct {
	Width float64
	Color geometry.Color // unset means "use the row border color"
	Style geometry.BorderStyle
}

// Side names one edge of a cell.
type Side int

const (
	Top Side = iota
	Right
	Bottom
	Left
)

// Style carries the inheritable appearance of a table, row or cell. Nil
// pointers, unset colors, empty strings and zero enums inherit.
type Style struct {
	Padding     *Padding
	BorderWidth *float64
	BorderColor geometry.Color
	BorderStyle *geometry.BorderStyle
	Background  geometry.Color
	VAlign      VerticalAlignment
	HAlign      HorizontalAlignment
	Font        string
	FontSize    float64
	TextColor   geometry.Color
}

// Float returns a pointer to v, for the optional Style fields.
func Float(v float64) *float64 { return &v }

// Merge returns s with every field that is set in o overriding it.
func (s Style) Merge(o Style) Style {
	if o.Padding != nil {
		p := *o.Padding
		s.Padding = &p
	}
	if o.BorderWidth != nil {
		s.BorderWidth = Float(*o.BorderWidth)
	}
	if !o.BorderColor.IsZero() {
		s.BorderColor = o.BorderColor
	}
	if o.BorderStyle != nil {
		bs := *o.BorderStyle
		s.BorderStyle = &bs
	}
	if !o.Background.IsZero() {
		s.Background = o.Background
	}
	if o.VAlign != VAlignInherit {
		s.VAlign = o.VAlign
	}
	if o.HAlign != HAlignInherit {
		s.HAlign = o.HAlign
	}
	if o.Font != "" {
		s.Font = o.Font
	}
	if o.FontSize > 0 {
		s.FontSize = o.FontSize
	}
	if !o.TextColor.IsZero() {
		s.TextColor = o.TextColor
	}
	return s
}

// DefaultStyle is the base every table style is merged onto.
func DefaultStyle() Style {
	pad := UniformPadding(4)
	solid := geometry.BorderSolid
	return Style{
		Padding:     &pad,
		BorderWidth: Float(0),
		BorderColor: geometry.Black,
		BorderStyle: &solid,
		VAlign:      VAlignTop,
		HAlign:      HAlignLeft,
		Font:        "Helvetica",
		FontSize:    12,
		TextColor:   geometry.Black,
	}
}
