package importer

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/wudi/pdftable/table"
)

// FromMarkdown builds a table from the first GitHub-flavored pipe table in
// src. The delimiter row's alignments become the cells' horizontal
// alignment and a cell holding only an image link becomes an image cell.
func FromMarkdown(src []byte, opts ...Option) (*table.Table, error) {
	c := newConfig(opts)
	return c.run("markdown", func() (*grid, error) {
		md := goldmark.New(goldmark.WithExtensions(extension.Table))
		doc := md.Parser().Parse(text.NewReader(src))

		var tbl *extast.Table
		ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if t, ok := n.(*extast.Table); ok && entering {
				tbl = t
				return ast.WalkStop, nil
			}
			return ast.WalkContinue, nil
		})
		if tbl == nil {
			return nil, ErrNoTable
		}

		g := &grid{}
		for child := tbl.FirstChild(); child != nil; child = child.NextSibling() {
			_, header := child.(*extast.TableHeader)
			row := srcRow{header: header}
			for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
				tc, ok := cell.(*extast.TableCell)
				if !ok {
					continue
				}
				sc := srcCell{rowSpan: 1, colSpan: 1, header: header}
				sc.text, sc.image = markdownCell(tc, src)
				sc.style.HAlign = markdownAlign(tc.Alignment)
				row.cells = append(row.cells, sc)
			}
			g.rows = append(g.rows, row)
		}
		return g, nil
	})
}

// markdownCell returns the plain text of a cell, or the destination of its
// image when the image is all the cell holds.
func markdownCell(n ast.Node, src []byte) (string, string) {
	var sb strings.Builder
	var dest string
	images := 0
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Image:
			images++
			dest = string(v.Destination)
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			sb.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	txt := strings.Join(strings.Fields(sb.String()), " ")
	if images == 1 && txt == "" {
		return "", dest
	}
	return txt, ""
}

func markdownAlign(a extast.Alignment) table.HorizontalAlignment {
	switch a {
	case extast.AlignLeft:
		return table.HAlignLeft
	case extast.AlignCenter:
		return table.HAlignCenter
	case extast.AlignRight:
		return table.HAlignRight
	}
	return table.HAlignInherit
}
