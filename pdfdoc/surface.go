package pdfdoc

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/wudi/pdftable/contentstream"
	"github.com/wudi/pdftable/drawing"
	"github.com/wudi/pdftable/geometry"
)

var errSurfaceClosed = errors.New("pdfdoc: surface closed")

// Surface records drawing commands for one content stream of a page.
type Surface struct {
	page     *Page
	compress bool
	cs       contentstream.Builder
	closed   bool
}

var _ drawing.Surface = (*Surface)(nil)

func (s *Surface) check() error {
	if s.closed {
		return errSurfaceClosed
	}
	if s.page.doc.closed {
		return ErrClosed
	}
	return nil
}

func (s *Surface) SetStrokeColor(c geometry.Color) error {
	if err := s.check(); err != nil {
		return err
	}
	s.cs.StrokeRGB(c.R, c.G, c.B)
	return nil
}

func (s *Surface) SetFillColor(c geometry.Color) error {
	if err := s.check(); err != nil {
		return err
	}
	s.cs.FillRGB(c.R, c.G, c.B)
	return nil
}

func (s *Surface) StrokeLine(x1, y1, x2, y2, width float64, dash []float64) error {
	if err := s.check(); err != nil {
		return err
	}
	s.cs.LineWidth(width).Dash(dash, 0).MoveTo(x1, y1).LineTo(x2, y2).Stroke()
	return nil
}

func (s *Surface) FillRectangle(x, y, w, h float64) error {
	if err := s.check(); err != nil {
		return err
	}
	s.cs.Rect(x, y, w, h).Fill()
	return nil
}

// winAnsi encodes text for the standard fonts. Characters outside
// Windows-1252 become '?'.
func winAnsi(text string) ([]byte, error) {
	text = strings.Map(func(r rune) rune {
		if _, ok := charmap.Windows1252.EncodeRune(r); ok {
			return r
		}
		return '?'
	}, text)
	return charmap.Windows1252.NewEncoder().Bytes([]byte(text))
}

func (s *Surface) ShowText(text, font string, size, x, y float64) error {
	if err := s.check(); err != nil {
		return err
	}
	res, err := s.page.doc.fontResource(font)
	if err != nil {
		return err
	}
	encoded, err := winAnsi(text)
	if err != nil {
		return fmt.Errorf("pdfdoc: encode text: %w", err)
	}
	s.page.fonts[res] = true
	s.cs.BeginText().Font(res, size).TextMatrix(1, 0, 0, 1, x, y).ShowText(encoded).EndText()
	return nil
}

func (s *Surface) DrawImage(img image.Image, x, y, w, h float64) error {
	if err := s.check(); err != nil {
		return err
	}
	obj, err := s.page.doc.imageResource(img)
	if err != nil {
		return err
	}
	s.page.images[obj] = true
	s.cs.Save().Transform(w, 0, 0, h, x, y).XObject(obj.name).Restore()
	return nil
}

// Close appends the recorded stream to the page.
func (s *Surface) Close() error {
	if s.closed {
		return errSurfaceClosed
	}
	s.closed = true
	s.page.open = false
	if s.page.doc.closed {
		return ErrClosed
	}
	if s.cs.Len() == 0 {
		return nil
	}
	data := s.cs.Bytes()
	if s.compress {
		z, err := flateEncode(data, s.page.doc.level)
		if err != nil {
			return fmt.Errorf("pdfdoc: compress content: %w", err)
		}
		data = z
	}
	s.page.contents = append(s.page.contents, stream{data: data, compressed: s.compress})
	return nil
}
