package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/wudi/pdftable/table"
)

// FromHTML builds a table from the first <table> element of r. Cells keep
// their rowspan, colspan, align, valign and bgcolor attributes; th cells and
// thead rows get the header style. A cell holding only an <img> becomes an
// image cell.
func FromHTML(r io.Reader, opts ...Option) (*table.Table, error) {
	c := newConfig(opts)
	return c.run("html", func() (*grid, error) {
		doc, err := html.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("importer: parse html: %w", err)
		}
		tbl := findTable(doc)
		if tbl == nil {
			return nil, ErrNoTable
		}
		g := &grid{}
		if err := readHTMLRows(tbl, false, g); err != nil {
			return nil, err
		}
		return g, nil
	})
}

func findTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTable(c); t != nil {
			return t
		}
	}
	return nil
}

// readHTMLRows appends the rows of a table or row group. Nested tables are
// not descended into.
func readHTMLRows(n *html.Node, header bool, g *grid) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Thead:
			if err := readHTMLRows(c, true, g); err != nil {
				return err
			}
		case atom.Tbody, atom.Tfoot:
			if err := readHTMLRows(c, header, g); err != nil {
				return err
			}
		case atom.Tr:
			row, err := readHTMLRow(c, header)
			if err != nil {
				return fmt.Errorf("importer: row %d: %w", len(g.rows), err)
			}
			if len(row.cells) > 0 {
				g.rows = append(g.rows, row)
			}
		}
	}
	return nil
}

func readHTMLRow(tr *html.Node, header bool) (srcRow, error) {
	row := srcRow{header: header}
	var err error
	if row.style, err = htmlStyle(tr); err != nil {
		return row, err
	}
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		cell := srcCell{
			text:    textContent(c),
			header:  c.DataAtom == atom.Th,
			rowSpan: 1,
			colSpan: 1,
		}
		for _, attr := range c.Attr {
			switch attr.Key {
			case "rowspan":
				fmt.Sscanf(attr.Val, "%d", &cell.rowSpan)
			case "colspan":
				fmt.Sscanf(attr.Val, "%d", &cell.colSpan)
			}
		}
		if cell.style, err = htmlStyle(c); err != nil {
			return row, err
		}
		if cell.text == "" {
			if img := findImage(c); img != "" {
				cell.image = img
			}
		}
		row.cells = append(row.cells, cell)
	}
	return row, nil
}

// htmlStyle reads the presentational attributes of a row or cell.
func htmlStyle(n *html.Node) (table.Style, error) {
	var s table.Style
	var err error
	for _, attr := range n.Attr {
		switch attr.Key {
		case "align":
			s.HAlign, err = table.ParseHorizontalAlignment(attr.Val)
		case "valign":
			s.VAlign, err = table.ParseVerticalAlignment(attr.Val)
		case "bgcolor":
			s.Background, err = parseColor(attr.Val)
		}
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

func findImage(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for _, attr := range n.Attr {
			if attr.Key == "src" {
				return attr.Val
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if src := findImage(c); src != "" {
			return src
		}
	}
	return ""
}

// textContent returns the text of n with runs of white space collapsed.
// <br> becomes a space.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			sb.WriteByte(' ')
		case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
