package table

import (
	"errors"
	"fmt"

	"github.com/wudi/pdftable/fonts"
	"github.com/wudi/pdftable/geometry"
)

// Errors returned by Builder.Build.
var (
	ErrNoColumns      = errors.New("table: no columns defined")
	ErrNoRows         = errors.New("table: no rows defined")
	ErrColumnMismatch = errors.New("table: cells do not cover the columns")
	ErrInvalidSpan    = errors.New("table: invalid span")
)

// Option configures a Builder.
type Option func(*Builder)

// WithColumnWidths appends columns of the given widths.
func WithColumnWidths(widths ...float64) Option {
	return func(b *Builder) {
		for _, w := range widths {
			b.columns = append(b.columns, Column{Width: w})
		}
	}
}

// WithStyle sets the table-wide style.
func WithStyle(s Style) Option {
	return func(b *Builder) {
		b.style = s
	}
}

// WithMetrics sets the text metrics used for text cells that do not carry
// their own.
func WithMetrics(m fonts.Metrics) Option {
	return func(b *Builder) {
		b.metrics = m
	}
}

// Builder assembles a Table.
type Builder struct {
	columns []Column
	rows    []*Row
	style   Style
	metrics fonts.Metrics
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddColumn appends a column.
func (b *Builder) AddColumn(width float64) *Builder {
	b.columns = append(b.columns, Column{Width: width})
	return b
}

// AddRow appends a row holding cells and returns it for further cells.
func (b *Builder) AddRow(cells ...*Cell) *Row {
	r := &Row{Cells: cells}
	b.rows = append(b.rows, r)
	return r
}

// Build validates the table, resolves styles and computes cell and row
// sizes. The builder must not be reused afterwards.
func (b *Builder) Build() (*Table, error) {
	if len(b.columns) == 0 {
		return nil, ErrNoColumns
	}
	if len(b.rows) == 0 {
		return nil, ErrNoRows
	}
	metrics := b.metrics
	if metrics == nil {
		if face, err := fonts.Default(); err == nil {
			metrics = face
		} else {
			metrics = fonts.DefaultEstimate
		}
	}

	t := &Table{
		columns: b.columns,
		rows:    b.rows,
		style:   DefaultStyle().Merge(b.style),
		spans:   make(map[position]*Cell),
	}
	if err := t.place(metrics); err != nil {
		return nil, err
	}
	t.resolveRowHeights()
	return t, nil
}

// place assigns every cell its row and column, resolves its style and
// measures it.
func (t *Table) place(metrics fonts.Metrics) error {
	ncols := len(t.columns)
	for ri, row := range t.rows {
		rowStyle := t.style.Merge(row.Style)
		row.borderColor = rowStyle.BorderColor.Or(geometry.Black)

		col := 0
		for ci, c := range row.Cells {
			if c == nil {
				return fmt.Errorf("row %d cell %d: %w", ri, ci, errors.New("nil cell"))
			}
			for col < ncols && t.IsRowSpanAt(ri, col) {
				col++
			}
			if c.RowSpan == 0 {
				c.RowSpan = 1
			}
			if c.ColSpan == 0 {
				c.ColSpan = 1
			}
			if c.RowSpan < 0 || c.ColSpan < 0 {
				return fmt.Errorf("row %d cell %d: %w: negative span", ri, ci, ErrInvalidSpan)
			}
			if col+c.ColSpan > ncols {
				return fmt.Errorf("row %d: %w: cell %d ends at column %d of %d", ri, ErrColumnMismatch, ci, col+c.ColSpan, ncols)
			}
			if ri+c.RowSpan > len(t.rows) {
				return fmt.Errorf("row %d cell %d: %w: row span %d exceeds table", ri, ci, ErrInvalidSpan, c.RowSpan)
			}
			c.row, c.col = ri, col
			c.width = 0
			for k := col; k < col+c.ColSpan; k++ {
				if t.IsRowSpanAt(ri, k) {
					return fmt.Errorf("row %d cell %d: %w: overlaps row span at column %d", ri, ci, ErrInvalidSpan, k)
				}
				c.width += t.columns[k].Width
			}
			for r := ri + 1; r < ri+c.RowSpan; r++ {
				for k := col; k < col+c.ColSpan; k++ {
					t.spans[position{r, k}] = c
				}
			}
			c.resolve(rowStyle, metrics)
			col += c.ColSpan
		}
		for col < ncols && t.IsRowSpanAt(ri, col) {
			col++
		}
		if col != ncols {
			return fmt.Errorf("row %d: %w: covers %d of %d columns", ri, ErrColumnMismatch, col, ncols)
		}
	}
	return nil
}

func (c *Cell) resolve(rowStyle Style, metrics fonts.Metrics) {
	s := rowStyle.Merge(c.Style)
	c.padding = *s.Padding
	c.vAlign = s.VAlign
	c.hAlign = s.HAlign
	c.background = s.Background
	for side := Top; side <= Left; side++ {
		b := Border{Width: *s.BorderWidth, Style: *s.BorderStyle}
		// Only colors set on the cell itself count; row and table colors
		// are applied at draw time through the row border color.
		b.Color = c.Style.BorderColor
		if o := c.sides[side]; o.set {
			b.Width = o.border.Width
			b.Style = o.border.Style
			b.Color = o.border.Color.Or(b.Color)
		}
		c.borders[side] = b
	}
	if c.Content == nil {
		c.Content = Empty{}
	}
	if in, ok := c.Content.(inheritor); ok {
		in.inherit(s, metrics)
	}
	inner := c.Content.InnerHeight(c.InnerWidth())
	c.minHeight = inner + c.padding.Top + c.padding.Bottom + c.borders[Top].Width + c.borders[Bottom].Width
}

func (t *Table) resolveRowHeights() {
	for _, row := range t.rows {
		h := row.MinHeight
		for _, c := range row.Cells {
			if c.RowSpan == 1 && c.minHeight > h {
				h = c.minHeight
			}
		}
		row.height = h
	}
	// A spanning cell taller than its rows stretches the last spanned row.
	for _, row := range t.rows {
		for _, c := range row.Cells {
			if c.RowSpan <= 1 {
				continue
			}
			span, _ := t.SpanHeightWithin(c, len(t.rows))
			if c.minHeight > span {
				t.rows[c.row+c.RowSpan-1].height += c.minHeight - span
			}
		}
	}
}
