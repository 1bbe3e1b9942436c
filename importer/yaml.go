package importer

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/wudi/pdftable/geometry"
	"github.com/wudi/pdftable/table"
)

// TableDef is the YAML form of a table:
//
//	width: 400
//	style: {font_size: 10, border_width: 0.5, padding: 3}
//	rows:
//	  - header: true
//	    cells: [Name, Amount]
//	  - cells:
//	      - {text: Total, col_span: 2, halign: right}
type TableDef struct {
	Width   float64   `yaml:"width,omitempty"`
	Columns []float64 `yaml:"columns,omitempty"`
	Style   StyleDef  `yaml:"style,omitempty"`
	Rows    []RowDef  `yaml:"rows"`
}

// RowDef is one row of a TableDef.
type RowDef struct {
	Header    bool      `yaml:"header,omitempty"`
	MinHeight float64   `yaml:"min_height,omitempty"`
	Style     StyleDef  `yaml:"style,omitempty"`
	Cells     []CellDef `yaml:"cells"`
}

// CellDef is one cell of a RowDef. A plain scalar is shorthand for a text
// cell.
type CellDef struct {
	Text    string   `yaml:"text,omitempty"`
	Image   string   `yaml:"image,omitempty"`
	RowSpan int      `yaml:"row_span,omitempty"`
	ColSpan int      `yaml:"col_span,omitempty"`
	Style   StyleDef `yaml:",inline"`
}

// UnmarshalYAML accepts a scalar or a mapping.
func (c *CellDef) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		c.Text = n.Value
		return nil
	}
	type plain CellDef
	return n.Decode((*plain)(c))
}

// StyleDef mirrors table.Style with YAML-friendly values.
type StyleDef struct {
	Padding     *float64 `yaml:"padding,omitempty"`
	BorderWidth *float64 `yaml:"border_width,omitempty"`
	BorderColor string   `yaml:"border_color,omitempty"`
	BorderStyle string   `yaml:"border_style,omitempty"`
	Background  string   `yaml:"background,omitempty"`
	VAlign      string   `yaml:"valign,omitempty"`
	HAlign      string   `yaml:"halign,omitempty"`
	Font        string   `yaml:"font,omitempty"`
	FontSize    float64  `yaml:"font_size,omitempty"`
	TextColor   string   `yaml:"text_color,omitempty"`
}

// Style converts the definition.
func (d StyleDef) Style() (table.Style, error) {
	s := table.Style{
		BorderWidth: d.BorderWidth,
		Font:        d.Font,
		FontSize:    d.FontSize,
	}
	if d.Padding != nil {
		p := table.UniformPadding(*d.Padding)
		s.Padding = &p
	}
	if d.BorderStyle != "" {
		bs, err := geometry.ParseBorderStyle(d.BorderStyle)
		if err != nil {
			return s, err
		}
		s.BorderStyle = &bs
	}
	var errs []error
	var err error
	s.BorderColor, err = parseColor(d.BorderColor)
	errs = append(errs, err)
	s.Background, err = parseColor(d.Background)
	errs = append(errs, err)
	s.TextColor, err = parseColor(d.TextColor)
	errs = append(errs, err)
	s.VAlign, err = table.ParseVerticalAlignment(d.VAlign)
	errs = append(errs, err)
	s.HAlign, err = table.ParseHorizontalAlignment(d.HAlign)
	errs = append(errs, err)
	return s, errors.Join(errs...)
}

// FromYAML builds a table from a YAML TableDef read from r.
func FromYAML(r io.Reader, opts ...Option) (*table.Table, error) {
	c := newConfig(opts)
	return c.run("yaml", func() (*grid, error) {
		var doc TableDef
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrNoTable
			}
			return nil, fmt.Errorf("importer: parse yaml: %w", err)
		}
		return doc.grid()
	})
}

func (d *TableDef) grid() (*grid, error) {
	g := &grid{widths: d.Columns, width: d.Width}
	var err error
	if g.style, err = d.Style.Style(); err != nil {
		return nil, fmt.Errorf("importer: table style: %w", err)
	}
	for r, rd := range d.Rows {
		row := srcRow{header: rd.Header, minHeight: rd.MinHeight}
		if row.style, err = rd.Style.Style(); err != nil {
			return nil, fmt.Errorf("importer: row %d: %w", r, err)
		}
		for i, cd := range rd.Cells {
			cell := srcCell{
				text:    cd.Text,
				image:   cd.Image,
				rowSpan: cd.RowSpan,
				colSpan: cd.ColSpan,
			}
			if cell.style, err = cd.Style.Style(); err != nil {
				return nil, fmt.Errorf("importer: row %d cell %d: %w", r, i, err)
			}
			row.cells = append(row.cells, cell)
		}
		g.rows = append(g.rows, row)
	}
	return g, nil
}
