// Package drawing defines the capabilities a table is drawn through: pages,
// the documents that hold them and the surfaces that paint onto them.
package drawing

import (
	"image"

	"github.com/wudi/pdftable/geometry"
	"github.com/wudi/pdftable/table"
)

// Surface accepts absolute-coordinate drawing commands for one page. A
// surface must be closed before another one is opened on the same page.
type Surface interface {
	SetStrokeColor(c geometry.Color) error
	SetFillColor(c geometry.Color) error
	// StrokeLine strokes a straight line. A nil dash strokes a solid line.
	StrokeLine(x1, y1, x2, y2, width float64, dash []float64) error
	FillRectangle(x, y, w, h float64) error
	// ShowText draws a single line of text with its baseline at y.
	ShowText(text, font string, size, x, y float64) error
	// DrawImage draws img into the box whose lower-left corner is (x, y).
	DrawImage(img image.Image, x, y, w, h float64) error
	Close() error
}

// Page is a fixed-size page.
type Page interface {
	Width() float64
	Height() float64
}

// Document is an ordered collection of pages that can open surfaces on
// them.
type Document interface {
	NumPages() int
	Page(i int) Page
	AddPage(p Page) error
	OpenSurface(p Page, compress bool) (Surface, error)
}

// PageFactory returns a new blank page.
type PageFactory func() Page

// PageData is the half-open range of rows drawn on one page.
type PageData struct {
	FirstRow           int
	FirstRowOnNextPage int
}

// Len returns the number of rows in the range.
func (d PageData) Len() int { return d.FirstRowOnNextPage - d.FirstRow }

// Contains reports whether row falls inside the range.
func (d PageData) Contains(row int) bool {
	return row >= d.FirstRow && row < d.FirstRowOnNextPage
}

// DrawingContext is passed to a cell drawer for one draw call. Start is the
// lower-left corner of the cell within its row.
type DrawingContext struct {
	PageData
	Surface Surface
	Page    Page
	Start   geometry.Point
	Table   *table.Table
}

// Drawer draws one cell. Backgrounds and content of all cells of a page are
// drawn before any border.
type Drawer interface {
	DrawBackground(ctx DrawingContext) error
	DrawContent(ctx DrawingContext) error
	DrawBorders(ctx DrawingContext) error
}

// DrawLine strokes l and restores the line's reset color afterwards.
func DrawLine(s Surface, l geometry.PositionedLine) error {
	if err := s.SetStrokeColor(l.EffectiveColor()); err != nil {
		return err
	}
	if err := s.StrokeLine(l.StartX, l.StartY, l.EndX, l.EndY, l.Width, l.Style.DashPattern(l.Width)); err != nil {
		return err
	}
	if l.ResetColor.IsZero() {
		return nil
	}
	return s.SetStrokeColor(l.ResetColor)
}

// DrawRectangle fills r.
func DrawRectangle(s Surface, r geometry.PositionedRectangle) error {
	if err := s.SetFillColor(r.Color); err != nil {
		return err
	}
	return s.FillRectangle(r.X, r.Y, r.Width, r.Height)
}
