package table

import (
	"image"

	"github.com/wudi/pdftable/geometry"
)

type borderOverride struct {
	set    bool
	border Border
}

// Cell is one cell of a row. Settings made through the Set methods are
// resolved against the row and table style when the table is built; the
// accessors report resolved values and are only meaningful afterwards.
type Cell struct {
	Content Content
	RowSpan int
	ColSpan int
	Style   Style

	sides [4]borderOverride

	// resolved by Builder.Build
	row, col   int
	width      float64
	minHeight  float64
	padding    Padding
	borders    [4]Border
	vAlign     VerticalAlignment
	hAlign     HorizontalAlignment
	background geometry.Color
}

// NewCell creates a cell showing content.
func NewCell(content Content) *Cell {
	if content == nil {
		content = Empty{}
	}
	return &Cell{Content: content, RowSpan: 1, ColSpan: 1}
}

// NewText creates a text cell.
func NewText(text string) *Cell {
	return NewCell(&Text{Text: text})
}

// NewImage creates an image cell.
func NewImage(img image.Image) *Cell {
	return NewCell(&Image{Image: img})
}

// SetRowSpan sets the number of rows this cell spans.
func (c *Cell) SetRowSpan(n int) *Cell {
	c.RowSpan = n
	return c
}

// SetColSpan sets the number of columns this cell spans.
func (c *Cell) SetColSpan(n int) *Cell {
	c.ColSpan = n
	return c
}

// SetPadding overrides the inherited padding.
func (c *Cell) SetPadding(p Padding) *Cell {
	c.Style.Padding = &p
	return c
}

// SetBackground sets the fill color of the cell.
func (c *Cell) SetBackground(col geometry.Color) *Cell {
	c.Style.Background = col
	return c
}

// SetVerticalAlignment sets the vertical alignment of the content.
func (c *Cell) SetVerticalAlignment(a VerticalAlignment) *Cell {
	c.Style.VAlign = a
	return c
}

// SetHorizontalAlignment sets the horizontal alignment of the content.
func (c *Cell) SetHorizontalAlignment(a HorizontalAlignment) *Cell {
	c.Style.HAlign = a
	return c
}

// SetBorder overrides one side of the frame.
func (c *Cell) SetBorder(side Side, b Border) *Cell {
	c.sides[side] = borderOverride{set: true, border: b}
	return c
}

// SetBorders overrides all four sides of the frame.
func (c *Cell) SetBorders(b Border) *Cell {
	for s := Top; s <= Left; s++ {
		c.SetBorder(s, b)
	}
	return c
}

// Row is the index of the row the cell belongs to.
func (c *Cell) Row() int { return c.row }

// Column is the index of the first column the cell covers.
func (c *Cell) Column() int { return c.col }

// Width is the sum of the widths of the spanned columns.
func (c *Cell) Width() float64 { return c.width }

// MinHeight is the height the cell needs for its content, padding and
// top/bottom borders.
func (c *Cell) MinHeight() float64 { return c.minHeight }

// Padding returns the resolved padding.
func (c *Cell) Padding() Padding { return c.padding }

// Border returns the resolved border of a side.
func (c *Cell) Border(side Side) Border { return c.borders[side] }

// HasBorder reports whether the side is drawn.
func (c *Cell) HasBorder(side Side) bool { return c.borders[side].Width > 0 }

// VerticalAlignment returns the resolved vertical alignment.
func (c *Cell) VerticalAlignment() VerticalAlignment { return c.vAlign }

// HorizontalAlignment returns the resolved horizontal alignment.
func (c *Cell) HorizontalAlignment() HorizontalAlignment { return c.hAlign }

// Background returns the fill color, unset when the cell has none.
func (c *Cell) Background() geometry.Color { return c.background }

// HasBackground reports whether a background is drawn.
func (c *Cell) HasBackground() bool { return !c.background.IsZero() }

// InnerWidth is the width available to the content.
func (c *Cell) InnerWidth() float64 {
	return c.width - c.padding.Left - c.padding.Right
}
