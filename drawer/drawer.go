// Package drawer paginates a table and draws it, page by page, onto the
// surfaces of a drawing.Document.
package drawer

import (
	"errors"
	"fmt"
	"time"

	"github.com/wudi/pdftable/drawing"
	"github.com/wudi/pdftable/drawing/cell"
	"github.com/wudi/pdftable/geometry"
	"github.com/wudi/pdftable/observability"
	"github.com/wudi/pdftable/table"
)

// ErrNoSurface is returned by Draw when no surface was configured.
var ErrNoSurface = errors.New("drawer: no surface configured")

// Option configures a TableDrawer.
type Option func(*TableDrawer)

// WithStartX sets the x of the table's left edge.
func WithStartX(x float64) Option { return func(d *TableDrawer) { d.startX = x } }

// WithStartY sets the y of the table's top edge on the first page.
func WithStartY(y float64) Option { return func(d *TableDrawer) { d.startY = y } }

// WithEndY sets the lowest y rows may reach.
func WithEndY(y float64) Option { return func(d *TableDrawer) { d.endY = y } }

// WithSurface sets the surface and page Draw paints on.
func WithSurface(s drawing.Surface, p drawing.Page) Option {
	return func(d *TableDrawer) {
		d.surface = s
		d.page = p
	}
}

// WithCompression requests compressed surfaces from the document.
func WithCompression(on bool) Option { return func(d *TableDrawer) { d.compress = on } }

// WithLogger sets the logger.
func WithLogger(l observability.Logger) Option {
	return func(d *TableDrawer) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m observability.Metrics) Option {
	return func(d *TableDrawer) {
		if m != nil {
			d.metrics = m
		}
	}
}

// TableDrawer draws one table. It is not safe for concurrent use.
type TableDrawer struct {
	table *table.Table

	startX, startY, endY float64
	surface              drawing.Surface
	page                 drawing.Page
	compress             bool

	logger  observability.Logger
	metrics observability.Metrics

	finalY         float64
	tableStartPage drawing.Page
}

// New creates a TableDrawer for t.
func New(t *table.Table, opts ...Option) *TableDrawer {
	d := &TableDrawer{
		table:   t,
		logger:  observability.NopLogger{},
		metrics: observability.NopMetrics{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FinalY is the y of the bottom edge of the last row drawn.
func (d *TableDrawer) FinalY() float64 { return d.finalY }

// TableStartPage is the page the first row was drawn on by DrawPages.
func (d *TableDrawer) TableStartPage() drawing.Page { return d.tableStartPage }

// session is the state of one segment being drawn.
type session struct {
	surface drawing.Surface
	page    drawing.Page
	rows    PageData
	start   geometry.Point
}

// Draw draws every row onto the configured surface starting at (startX,
// startY), without pagination.
func (d *TableDrawer) Draw() (err error) {
	if d.surface == nil {
		return ErrNoSurface
	}
	began := time.Now()
	defer func() { d.metrics.DrawFinished(time.Since(began), err) }()
	s := &session{
		surface: d.surface,
		page:    d.page,
		rows:    PageData{FirstRow: 0, FirstRowOnNextPage: d.table.NumRows()},
		start:   geometry.Point{X: d.startX, Y: d.startY},
	}
	return d.drawSegment(s)
}

// DrawPages paginates the table and draws it into doc. newPage supplies
// pages; rows on pages after the first start topMargin below the page top.
// The table continues on the document's last page when it has one and the
// first row fits there.
func (d *TableDrawer) DrawPages(doc drawing.Document, newPage drawing.PageFactory, topMargin float64) (err error) {
	began := time.Now()
	defer func() { d.metrics.DrawFinished(time.Since(began), err) }()

	newPageTop := newPage().Height() - topMargin
	startY, startsOnNewPage := PageStart(d.table, d.startY, d.endY, newPageTop)
	pages, err := ComputePages(d.table, startY, d.endY, newPageTop)
	if err != nil {
		d.logger.Error("table does not fit on a page", observability.Error("error", err))
		return err
	}
	d.logger.Debug("table paginated",
		observability.Int("rows", d.table.NumRows()),
		observability.Int("pages", len(pages)),
		observability.Bool("starts_on_new_page", startsOnNewPage))

	y := startY
	for i, rows := range pages {
		page, reused, err := d.pageFor(i, startsOnNewPage, doc, newPage)
		if err != nil {
			return fmt.Errorf("drawer: page for segment %d: %w", i, err)
		}
		if i == 0 {
			d.tableStartPage = page
		}
		d.metrics.PageUsed(reused)

		surface, err := doc.OpenSurface(page, d.compress)
		if err != nil {
			return fmt.Errorf("drawer: open surface for segment %d: %w", i, err)
		}
		s := &session{
			surface: surface,
			page:    page,
			rows:    rows,
			start:   geometry.Point{X: d.startX, Y: y},
		}
		if err := d.drawAndClose(s); err != nil {
			return fmt.Errorf("drawer: segment %d: %w", i, err)
		}
		d.logger.Debug("segment drawn",
			observability.Int("segment", i),
			observability.Int("first_row", rows.FirstRow),
			observability.Int("rows", rows.Len()),
			observability.Bool("reused_page", reused))

		y = page.Height() - topMargin
	}
	d.logger.Info("table drawn",
		observability.Int("rows", d.table.NumRows()),
		observability.Int("pages", len(pages)),
		observability.Float64("final_y", d.finalY))
	return nil
}

// pageFor returns the page segment i is drawn on. Only the first segment
// can reuse the document's last page.
func (d *TableDrawer) pageFor(i int, startsOnNewPage bool, doc drawing.Document, newPage drawing.PageFactory) (drawing.Page, bool, error) {
	if (i == 0 && startsOnNewPage) || i > 0 || doc.NumPages() == 0 {
		p := newPage()
		if err := doc.AddPage(p); err != nil {
			return nil, false, err
		}
		return p, false, nil
	}
	return doc.Page(doc.NumPages() - 1), true, nil
}

func (d *TableDrawer) drawAndClose(s *session) (err error) {
	defer func() {
		if cerr := s.surface.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close surface: %w", cerr)
		}
	}()
	return d.drawSegment(s)
}

type phase int

const (
	phaseContent phase = iota
	phaseBorders
)

// drawSegment draws backgrounds and content of every row, then every
// border, so no background covers a border.
func (d *TableDrawer) drawSegment(s *session) error {
	for _, ph := range []phase{phaseContent, phaseBorders} {
		if err := d.drawRows(s, ph); err != nil {
			return err
		}
	}
	d.metrics.RowsDrawn(s.rows.Len())
	return nil
}

func (d *TableDrawer) drawRows(s *session, ph phase) error {
	y := s.start.Y
	for i := s.rows.FirstRow; i < s.rows.FirstRowOnNextPage; i++ {
		y -= d.table.Row(i).Height()
		if err := d.drawRow(s, i, geometry.Point{X: s.start.X, Y: y}, ph); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		d.finalY = y
	}
	return nil
}

func (d *TableDrawer) drawRow(s *session, rowIndex int, start geometry.Point, ph phase) error {
	t := d.table
	cols := t.Columns()
	x := start.X
	col := 0
	skipSpans := func() error {
		for col < len(cols) && t.IsRowSpanAt(rowIndex, col) {
			if ph == phaseBorders {
				if err := d.drawSpanEdges(s, rowIndex, col, x, start.Y); err != nil {
					return err
				}
			}
			x += cols[col].Width
			col++
		}
		return nil
	}
	for _, c := range t.Row(rowIndex).Cells {
		if err := skipSpans(); err != nil {
			return err
		}
		dr, err := cell.For(c)
		if err != nil {
			return err
		}
		ctx := drawing.DrawingContext{
			PageData: s.rows,
			Surface:  s.surface,
			Page:     s.page,
			Start:    geometry.Point{X: x, Y: start.Y},
			Table:    t,
		}
		switch ph {
		case phaseContent:
			if err := dr.DrawBackground(ctx); err != nil {
				return err
			}
			if err := dr.DrawContent(ctx); err != nil {
				return err
			}
		case phaseBorders:
			if err := dr.DrawBorders(ctx); err != nil {
				return err
			}
		}
		x += c.Width()
		col += c.ColSpan
	}
	return skipSpans()
}

// drawSpanEdges closes the frame of a row-spanning cell cut by a page
// break: a top line on the first row of the page, a bottom line on the last.
func (d *TableDrawer) drawSpanEdges(s *session, rowIndex, col int, x, y float64) error {
	t := d.table
	origin := t.SpanOriginAt(rowIndex, col)
	width := t.Columns()[col].Width
	if rowIndex == s.rows.FirstRow {
		top := y + t.Row(rowIndex).Height()
		if err := cell.DrawSpanEdge(s.surface, t, origin, table.Top, x, top, width); err != nil {
			return err
		}
	}
	// An origin cell on this page closes its own frame.
	if rowIndex == s.rows.FirstRowOnNextPage-1 && origin.Row() < s.rows.FirstRow {
		if err := cell.DrawSpanEdge(s.surface, t, origin, table.Bottom, x, y, width); err != nil {
			return err
		}
	}
	return nil
}
