package drawer

import (
	"errors"
	"fmt"

	"github.com/wudi/pdftable/drawing"
	"github.com/wudi/pdftable/table"
)

// ErrRowTooHigh matches every *RowTooHighError.
var ErrRowTooHigh = errors.New("drawer: row too high to fit on a page")

// RowTooHighError reports a row that does not fit on an empty page.
type RowTooHighError struct {
	Row       int
	Height    float64
	Available float64
}

func (e *RowTooHighError) Error() string {
	return fmt.Sprintf("drawer: row %d is %.2fpt high but a page only has %.2fpt", e.Row, e.Height, e.Available)
}

func (e *RowTooHighError) Is(target error) bool { return target == ErrRowTooHigh }

// PageData is the range of rows drawn on one page.
type PageData = drawing.PageData

// ComputePages splits the rows of t into pages. The first page starts at
// startY and every following page at newPageTop; nothing is drawn below
// endY. A row moves to the next page when its tallest cell would cross endY,
// unless it is the first row of its page. Every row lands on exactly one
// page, in order.
func ComputePages(t *table.Table, startY, endY, newPageTop float64) ([]PageData, error) {
	available := newPageTop - endY
	var pages []PageData
	y := startY
	first := 0
	for i, row := range t.Rows() {
		if row.Height() > available {
			return nil, &RowTooHighError{Row: i, Height: row.Height(), Available: available}
		}
		if y-t.HighestCellIn(i) < endY && first != i {
			pages = append(pages, PageData{FirstRow: first, FirstRowOnNextPage: i})
			first = i
			y = newPageTop
		}
		y -= row.Height()
	}
	return append(pages, PageData{FirstRow: first, FirstRowOnNextPage: t.NumRows()}), nil
}

// PageStart returns where the table starts. When the first row does not
// fit between startY and endY the table starts at newPageTop on a new page.
func PageStart(t *table.Table, startY, endY, newPageTop float64) (y float64, newPage bool) {
	if t.NumRows() > 0 && startY-t.Row(0).Height() < endY {
		return newPageTop, true
	}
	return startY, false
}
