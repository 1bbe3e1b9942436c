package cell

import (
	"errors"
	"fmt"

	"github.com/wudi/pdftable/drawing"
	"github.com/wudi/pdftable/table"
)

// ErrUnsupportedContent is returned by For for content no drawer handles.
var ErrUnsupportedContent = errors.New("cell: unsupported content")

// ContentDrawer is implemented by custom table.Content that paints itself.
// x and top are the upper-left corner of the content area and width is the
// cell's inner width.
type ContentDrawer interface {
	DrawContent(ctx drawing.DrawingContext, x, top, width float64) error
}

// For returns the drawer for a cell's content.
func For(c *table.Cell) (drawing.Drawer, error) {
	base := Base{Cell: c}
	switch v := c.Content.(type) {
	case nil, table.Empty, *table.Empty:
		return base, nil
	case *table.Text:
		return &TextDrawer{Base: base, Text: v}, nil
	case *table.Image:
		return &ImageDrawer{Base: base, Image: v}, nil
	case ContentDrawer:
		return &CustomDrawer{Base: base, Content: v}, nil
	}
	return nil, fmt.Errorf("%w: %T in row %d column %d", ErrUnsupportedContent, c.Content, c.Row(), c.Column())
}

// TextDrawer draws wrapped text, one ShowText call per line.
type TextDrawer struct {
	Base
	Text *table.Text
}

func (d *TextDrawer) DrawContent(ctx drawing.DrawingContext) error {
	t := d.Text
	lines := t.Lines(d.Cell.InnerWidth())
	if len(lines) == 0 {
		return nil
	}
	top := ctx.Start.Y + d.VerticalOffset(ctx, float64(len(lines))*t.LineHeight())
	if err := ctx.Surface.SetFillColor(t.Color); err != nil {
		return err
	}
	y := top - t.FontSize
	for _, line := range lines {
		x := d.HorizontalOffset(ctx, t.Width(line))
		if err := ctx.Surface.ShowText(line, t.Font, t.FontSize, x, y); err != nil {
			return err
		}
		y -= t.LineHeight()
	}
	return nil
}

// ImageDrawer draws an image scaled to fit the inner width.
type ImageDrawer struct {
	Base
	Image *table.Image
}

func (d *ImageDrawer) DrawContent(ctx drawing.DrawingContext) error {
	if d.Image.Image == nil {
		return nil
	}
	w, h := d.Image.Size(d.Cell.InnerWidth())
	if w <= 0 || h <= 0 {
		return nil
	}
	top := ctx.Start.Y + d.VerticalOffset(ctx, h)
	x := d.HorizontalOffset(ctx, w)
	return ctx.Surface.DrawImage(d.Image.Image, x, top-h, w, h)
}

// CustomDrawer draws content implementing ContentDrawer.
type CustomDrawer struct {
	Base
	Content ContentDrawer
}

func (d *CustomDrawer) DrawContent(ctx drawing.DrawingContext) error {
	c := d.Cell
	inner := c.Content.InnerHeight(c.InnerWidth())
	top := ctx.Start.Y + d.VerticalOffset(ctx, inner)
	return d.Content.DrawContent(ctx, ctx.Start.X+c.Padding().Left, top, c.InnerWidth())
}
