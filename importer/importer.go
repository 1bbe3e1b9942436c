// Package importer builds tables from HTML, Markdown and YAML documents.
//
// All three formats are read into the same grid of rows and cells, which is
// then handed to table.Builder. Ragged rows are padded with empty cells and
// row spans reaching past the last row are shortened.
package importer

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"
	"time"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/wudi/pdftable/fonts"
	"github.com/wudi/pdftable/geometry"
	"github.com/wudi/pdftable/observability"
	"github.com/wudi/pdftable/table"
)

// ErrNoTable is returned when the source contains no table.
var ErrNoTable = errors.New("importer: no table found")

// DefaultWidth is the table width used when neither WithWidth nor
// WithColumnWidths is given.
const DefaultWidth = 500

// Option configures an import.
type Option func(*config)

type config struct {
	width       float64
	widths      []float64
	style       table.Style
	headerStyle table.Style
	metrics     fonts.Metrics
	baseDir     string
	logger      observability.Logger
	recorder    observability.Metrics
}

// WithWidth sets the total table width, split evenly between the columns.
func WithWidth(w float64) Option { return func(c *config) { c.width = w } }

// WithColumnWidths sets explicit column widths. The number of widths must
// match the number of columns of the imported table.
func WithColumnWidths(widths ...float64) Option {
	return func(c *config) { c.widths = append([]float64(nil), widths...) }
}

// WithStyle sets the table style. Styles found in the source override it.
func WithStyle(s table.Style) Option { return func(c *config) { c.style = s } }

// WithHeaderStyle sets the style of header rows.
func WithHeaderStyle(s table.Style) Option { return func(c *config) { c.headerStyle = s } }

// WithMetrics sets the text measurement used for row heights.
func WithMetrics(m fonts.Metrics) Option { return func(c *config) { c.metrics = m } }

// WithBaseDir resolves relative image paths against dir.
func WithBaseDir(dir string) Option { return func(c *config) { c.baseDir = dir } }

// WithLogger sets the logger.
func WithLogger(l observability.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithImportMetrics records the duration and outcome of every import.
func WithImportMetrics(m observability.Metrics) Option {
	return func(c *config) {
		if m != nil {
			c.recorder = m
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		width:       DefaultWidth,
		headerStyle: table.Style{Font: "Helvetica-Bold"},
		logger:      observability.NopLogger{},
		recorder:    observability.NopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// srcCell is a cell as read from a source, before it becomes a table.Cell.
type srcCell struct {
	text    string
	image   string // path of an image, empty for text cells
	header  bool
	rowSpan int
	colSpan int
	style   table.Style
}

type srcRow struct {
	cells     []srcCell
	header    bool
	style     table.Style
	minHeight float64
}

// grid is the format-independent result of parsing a source.
type grid struct {
	rows   []srcRow
	widths []float64 // from the source, optional
	width  float64   // from the source, optional
	style  table.Style
}

// normalize clamps spans and pads short rows so every row covers the same
// number of columns, which it returns.
func (g *grid) normalize() int {
	occupied := make([]int, len(g.rows))
	cols := 0
	for r := range g.rows {
		row := &g.rows[r]
		covered := occupied[r]
		for i := range row.cells {
			c := &row.cells[i]
			c.colSpan = max(c.colSpan, 1)
			c.rowSpan = min(max(c.rowSpan, 1), len(g.rows)-r)
			covered += c.colSpan
			for k := 1; k < c.rowSpan; k++ {
				occupied[r+k] += c.colSpan
			}
		}
		cols = max(cols, covered)
	}
	for r := range g.rows {
		covered := occupied[r]
		for _, c := range g.rows[r].cells {
			covered += c.colSpan
		}
		for ; covered < cols; covered++ {
			g.rows[r].cells = append(g.rows[r].cells, srcCell{rowSpan: 1, colSpan: 1})
		}
	}
	return cols
}

func (c *config) columnWidths(g *grid, cols int) ([]float64, error) {
	widths := c.widths
	if len(widths) == 0 {
		widths = g.widths
	}
	if len(widths) > 0 {
		if len(widths) != cols {
			return nil, fmt.Errorf("importer: %d column widths for %d columns", len(widths), cols)
		}
		return widths, nil
	}
	total := c.width
	if g.width > 0 {
		total = g.width
	}
	out := make([]float64, cols)
	for i := range out {
		out[i] = total / float64(cols)
	}
	return out, nil
}

// build turns the grid into a table.
func (c *config) build(format string, g *grid) (*table.Table, error) {
	if len(g.rows) == 0 {
		return nil, ErrNoTable
	}
	cols := g.normalize()
	if cols == 0 {
		return nil, ErrNoTable
	}
	widths, err := c.columnWidths(g, cols)
	if err != nil {
		return nil, err
	}
	opts := []table.Option{
		table.WithColumnWidths(widths...),
		table.WithStyle(c.style.Merge(g.style)),
	}
	if c.metrics != nil {
		opts = append(opts, table.WithMetrics(c.metrics))
	}
	b := table.NewBuilder(opts...)
	for r, rs := range g.rows {
		cells := make([]*table.Cell, 0, len(rs.cells))
		for _, cs := range rs.cells {
			cell, err := c.cell(cs)
			if err != nil {
				return nil, fmt.Errorf("importer: row %d: %w", r, err)
			}
			cells = append(cells, cell)
		}
		style := rs.style
		if rs.header {
			style = c.headerStyle.Merge(style)
		}
		b.AddRow(cells...).SetStyle(style).SetMinHeight(rs.minHeight)
	}
	t, err := b.Build()
	if err != nil {
		return nil, err
	}
	c.logger.Debug("table imported",
		observability.String("format", format),
		observability.Int("rows", t.NumRows()),
		observability.Int("columns", cols))
	return t, nil
}

func (c *config) cell(cs srcCell) (*table.Cell, error) {
	var cell *table.Cell
	switch {
	case cs.image != "":
		img, err := c.loadImage(cs.image)
		if err != nil {
			return nil, err
		}
		cell = table.NewImage(img)
	default:
		cell = table.NewText(cs.text)
	}
	cell.RowSpan = cs.rowSpan
	cell.ColSpan = cs.colSpan
	cell.Style = cs.style
	if cs.header {
		cell.Style = c.headerStyle.Merge(cell.Style)
	}
	return cell, nil
}

func (c *config) loadImage(path string) (image.Image, error) {
	if !filepath.IsAbs(path) && c.baseDir != "" {
		path = filepath.Join(c.baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	c.logger.Debug("image loaded",
		observability.String("path", path),
		observability.String("format", format))
	return img, nil
}

// run parses with parse and builds the table, recording the outcome.
func (c *config) run(format string, parse func() (*grid, error)) (t *table.Table, err error) {
	start := time.Now()
	defer func() {
		c.recorder.ImportFinished(format, time.Since(start), err)
		if err != nil {
			c.logger.Error("import failed", observability.String("format", format), observability.Error("error", err))
		}
	}()
	g, err := parse()
	if err != nil {
		return nil, err
	}
	return c.build(format, g)
}

func parseColor(s string) (geometry.Color, error) {
	if s == "" {
		return geometry.Color{}, nil
	}
	return geometry.ParseHex(s)
}
