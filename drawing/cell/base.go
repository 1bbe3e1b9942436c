// Package cell draws table cells: backgrounds and borders shared by every
// cell, and the content drawers for text, images and custom content.
package cell

import (
	"math"

	"github.com/wudi/pdftable/drawing"
	"github.com/wudi/pdftable/geometry"
	"github.com/wudi/pdftable/table"
)

const epsilon = 1e-4

// Base draws the background and borders of a cell. It draws no content and
// serves empty cells directly; content drawers embed it.
type Base struct {
	Cell *table.Cell
}

var _ drawing.Drawer = Base{}

// Heights returns the height of the cell's own row and the height the cell
// is drawn with on the current page. For a cell spanning rows past the end
// of the page only the rows on the page count, and clipped is true.
func (b Base) Heights(ctx drawing.DrawingContext) (rowHeight, cellHeight float64, clipped bool) {
	c := b.Cell
	rowHeight = ctx.Table.RowOf(c).Height()
	if c.RowSpan <= 1 {
		return rowHeight, c.MinHeight(), false
	}
	end := ctx.FirstRowOnNextPage
	if end <= c.Row() {
		end = ctx.Table.NumRows()
	}
	cellHeight, clipped = ctx.Table.SpanHeightWithin(c, end)
	return rowHeight, cellHeight, clipped
}

// bottom returns the y of the cell's lower edge and its drawn height.
func (b Base) bottom(ctx drawing.DrawingContext) (y, height float64) {
	rowHeight, cellHeight, _ := b.Heights(ctx)
	if rowHeight < cellHeight {
		return ctx.Start.Y + rowHeight - cellHeight, cellHeight
	}
	return ctx.Start.Y, rowHeight
}

// DrawBackground fills the cell. A cell taller than its row extends below
// the row.
func (b Base) DrawBackground(ctx drawing.DrawingContext) error {
	if !b.Cell.HasBackground() {
		return nil
	}
	y, height := b.bottom(ctx)
	return drawing.DrawRectangle(ctx.Surface, geometry.PositionedRectangle{
		X:      ctx.Start.X,
		Y:      y,
		Width:  b.Cell.Width(),
		Height: height,
		Color:  b.Cell.Background(),
	})
}

// DrawContent draws nothing.
func (Base) DrawContent(drawing.DrawingContext) error { return nil }

// DrawBorders strokes the four sides. Horizontal lines are extended by half
// the vertical border widths and vice versa so corners close. A cell cut off
// at the end of the page is closed at the last row on the page.
func (b Base) DrawBorders(ctx drawing.DrawingContext) error {
	c := b.Cell
	rowHeight, _, _ := b.Heights(ctx)
	sY, height := b.bottom(ctx)
	start := ctx.Start
	reset := ctx.Table.RowOf(c).BorderColor()
	top, right, bottom, left := c.Border(table.Top), c.Border(table.Right), c.Border(table.Bottom), c.Border(table.Left)

	if top.Width > 0 || bottom.Width > 0 {
		x1 := start.X - left.Width/2
		x2 := start.X + c.Width() + right.Width/2
		if top.Width > 0 {
			y := start.Y + rowHeight
			if err := drawing.DrawLine(ctx.Surface, line(x1, y, x2, y, top, reset)); err != nil {
				return err
			}
		}
		if bottom.Width > 0 {
			if err := drawing.DrawLine(ctx.Surface, line(x1, sY, x2, sY, bottom, reset)); err != nil {
				return err
			}
		}
	}

	if left.Width > 0 || right.Width > 0 {
		y1 := sY - bottom.Width/2
		y2 := sY + height + top.Width/2
		if left.Width > 0 {
			if err := drawing.DrawLine(ctx.Surface, line(start.X, y1, start.X, y2, left, reset)); err != nil {
				return err
			}
		}
		if right.Width > 0 {
			x := start.X + c.Width()
			if err := drawing.DrawLine(ctx.Surface, line(x, y1, x, y2, right, reset)); err != nil {
				return err
			}
		}
	}
	return nil
}

func line(x1, y1, x2, y2 float64, b table.Border, reset geometry.Color) geometry.PositionedLine {
	return geometry.PositionedLine{
		StartX: x1, StartY: y1,
		EndX: x2, EndY: y2,
		Width:      b.Width,
		Color:      b.Color,
		ResetColor: reset,
		Style:      b.Style,
	}
}

// VerticalOffset returns the distance from the bottom of the cell's row to
// the top of content of the given inner height.
func (b Base) VerticalOffset(ctx drawing.DrawingContext, inner float64) float64 {
	c := b.Cell
	rowHeight, cellHeight, _ := b.Heights(ctx)
	spans := c.RowSpan > 1
	if spans || rowHeight > cellHeight || math.Abs(rowHeight-cellHeight) < epsilon {
		outer := rowHeight
		var adaption float64
		if spans {
			outer = cellHeight
			adaption = cellHeight - rowHeight
		}
		switch c.VerticalAlignment() {
		case table.VAlignMiddle:
			return outer/2 + inner/2 - adaption
		case table.VAlignBottom:
			return inner + c.Padding().Bottom - adaption
		}
	}
	return rowHeight - c.Padding().Top
}

// HorizontalOffset returns the x at which content of the given width starts.
func (b Base) HorizontalOffset(ctx drawing.DrawingContext, width float64) float64 {
	c := b.Cell
	p := c.Padding()
	switch c.HorizontalAlignment() {
	case table.HAlignCenter:
		return ctx.Start.X + p.Left + (c.InnerWidth()-width)/2
	case table.HAlignRight:
		return ctx.Start.X + c.Width() - p.Right - width
	}
	return ctx.Start.X + p.Left
}

// DrawSpanEdge strokes the top or bottom border of a row-spanning cell
// across one column of a row the cell occupies. It reconnects the frame of
// a cell cut by a page break.
func DrawSpanEdge(s drawing.Surface, t *table.Table, origin *table.Cell, side table.Side, x, y, width float64) error {
	b := origin.Border(side)
	if b.Width <= 0 {
		return nil
	}
	left, right := origin.Border(table.Left), origin.Border(table.Right)
	reset := t.RowOf(origin).BorderColor()
	return drawing.DrawLine(s, line(x-left.Width/2, y, x+width+right.Width/2, y, b, reset))
}
