// Package table models a table laid out in PDF user space: fixed-width
// columns, rows of cells with row and column spans, and the style attributes
// (padding, borders, backgrounds, alignment, fonts) needed to draw them.
//
// Tables are assembled with a Builder. Build resolves style inheritance,
// measures every cell and fixes the row heights, after which a Table is
// read-only.
package table

import "github.com/wudi/pdftable/geometry"

// Column is a fixed-width table column.
type Column struct {
	Width float64
}

// Row is an ordered list of cells. Height is resolved by Builder.Build.
type Row struct {
	Cells     []*Cell
	Style     Style
	MinHeight float64

	height      float64
	borderColor geometry.Color
}

// AddCell appends c and returns it.
func (r *Row) AddCell(c *Cell) *Cell {
	r.Cells = append(r.Cells, c)
	return c
}

// AddText appends a text cell and returns it.
func (r *Row) AddText(text string) *Cell {
	return r.AddCell(NewText(text))
}

// SetStyle sets the style shared by all cells of the row.
func (r *Row) SetStyle(s Style) *Row {
	r.Style = s
	return r
}

// SetMinHeight sets the minimum height of the row.
func (r *Row) SetMinHeight(h float64) *Row {
	r.MinHeight = h
	return r
}

// Height returns the resolved row height.
func (r *Row) Height() float64 { return r.height }

// BorderColor is the row's border color. Cells without an explicit border
// color are drawn with it.
func (r *Row) BorderColor() geometry.Color { return r.borderColor }

type position struct {
	row, col int
}

// Table is a built, read-only table.
type Table struct {
	columns []Column
	rows    []*Row
	style   Style

	// spans maps positions covered by a row span, excluding the span's own
	// first row, to the cell that spans them.
	spans map[position]*Cell
}

// Columns returns the table columns.
func (t *Table) Columns() []Column { return t.columns }

// Rows returns the table rows in order.
func (t *Table) Rows() []*Row { return t.rows }

// Row returns the row at index i.
func (t *Table) Row(i int) *Row { return t.rows[i] }

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// Style returns the resolved table style.
func (t *Table) Style() Style { return t.style }

// Width returns the sum of all column widths.
func (t *Table) Width() float64 {
	var w float64
	for _, c := range t.columns {
		w += c.Width
	}
	return w
}

// Height returns the sum of all row heights.
func (t *Table) Height() float64 {
	var h float64
	for _, r := range t.rows {
		h += r.height
	}
	return h
}

// IsRowSpanAt reports whether the position is covered by a cell that starts
// in an earlier row.
func (t *Table) IsRowSpanAt(row, col int) bool {
	_, ok := t.spans[position{row, col}]
	return ok
}

// SpanOriginAt returns the cell covering a position occupied by a row span,
// or nil.
func (t *Table) SpanOriginAt(row, col int) *Cell {
	return t.spans[position{row, col}]
}

// RowOf returns the row a cell belongs to.
func (t *Table) RowOf(c *Cell) *Row {
	return t.rows[c.row]
}

// CellHeight is the sum of the spanned row heights for a cell spanning
// several rows, and its minimum height otherwise.
func (t *Table) CellHeight(c *Cell) float64 {
	if c.RowSpan > 1 {
		h, _ := t.SpanHeightWithin(c, len(t.rows))
		return h
	}
	return c.minHeight
}

// SpanHeightWithin returns the height of the rows a cell spans, counting
// only rows before endRow. clipped reports whether rows were cut off.
func (t *Table) SpanHeightWithin(c *Cell, endRow int) (height float64, clipped bool) {
	last := c.row + c.RowSpan
	if last > endRow {
		last = endRow
		clipped = true
	}
	for i := c.row; i < last; i++ {
		height += t.rows[i].height
	}
	return height, clipped
}

// HighestCellIn returns the height of the tallest cell starting in a row,
// spans included, and at least the row height.
func (t *Table) HighestCellIn(row int) float64 {
	highest := t.rows[row].height
	for _, c := range t.rows[row].Cells {
		if h := t.CellHeight(c); h > highest {
			highest = h
		}
	}
	return highest
}
