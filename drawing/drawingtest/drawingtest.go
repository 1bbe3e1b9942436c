// Package drawingtest provides a recording drawing.Surface and an in-memory
// drawing.Document for tests.
package drawingtest

import (
	"errors"
	"fmt"
	"image"

	"github.com/wudi/pdftable/drawing"
	"github.com/wudi/pdftable/geometry"
)

// ErrInjected is returned by surfaces configured to fail.
var ErrInjected = errors.New("drawingtest: injected failure")

// Line is a recorded stroke with the stroke color in effect.
type Line struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Dash           []float64
	Color          geometry.Color
}

// Rect is a recorded fill with the fill color in effect.
type Rect struct {
	X, Y, W, H float64
	Color      geometry.Color
}

// Text is a recorded text line.
type Text struct {
	Text  string
	Font  string
	Size  float64
	X, Y  float64
	Color geometry.Color
}

// Image is a recorded image placement.
type Image struct {
	Image      image.Image
	X, Y, W, H float64
}

// Recorder is a drawing.Surface that records every command.
type Recorder struct {
	Lines  []Line
	Rects  []Rect
	Texts  []Text
	Images []Image
	// Ops lists the kinds of drawing commands in call order: "line",
	// "rect", "text" or "image".
	Ops    []string
	Closed bool

	// FailAfter makes the n-th drawing command fail when positive.
	FailAfter int

	stroke, fill geometry.Color
	calls        int
}

var _ drawing.Surface = (*Recorder)(nil)

// StrokeColor returns the current stroke color.
func (r *Recorder) StrokeColor() geometry.Color { return r.stroke }

func (r *Recorder) check(op string) error {
	if r.Closed {
		return fmt.Errorf("drawingtest: %s on closed surface", op)
	}
	r.calls++
	if r.FailAfter > 0 && r.calls >= r.FailAfter {
		return ErrInjected
	}
	r.Ops = append(r.Ops, op)
	return nil
}

func (r *Recorder) SetStrokeColor(c geometry.Color) error {
	if r.Closed {
		return errors.New("drawingtest: color on closed surface")
	}
	r.stroke = c
	return nil
}

func (r *Recorder) SetFillColor(c geometry.Color) error {
	if r.Closed {
		return errors.New("drawingtest: color on closed surface")
	}
	r.fill = c
	return nil
}

func (r *Recorder) StrokeLine(x1, y1, x2, y2, width float64, dash []float64) error {
	if err := r.check("line"); err != nil {
		return err
	}
	r.Lines = append(r.Lines, Line{x1, y1, x2, y2, width, dash, r.stroke})
	return nil
}

func (r *Recorder) FillRectangle(x, y, w, h float64) error {
	if err := r.check("rect"); err != nil {
		return err
	}
	r.Rects = append(r.Rects, Rect{x, y, w, h, r.fill})
	return nil
}

func (r *Recorder) ShowText(text, font string, size, x, y float64) error {
	if err := r.check("text"); err != nil {
		return err
	}
	r.Texts = append(r.Texts, Text{text, font, size, x, y, r.fill})
	return nil
}

func (r *Recorder) DrawImage(img image.Image, x, y, w, h float64) error {
	if err := r.check("image"); err != nil {
		return err
	}
	r.Images = append(r.Images, Image{img, x, y, w, h})
	return nil
}

func (r *Recorder) Close() error {
	if r.Closed {
		return errors.New("drawingtest: surface closed twice")
	}
	r.Closed = true
	return nil
}

// Page is a plain page.
type Page struct {
	W, H float64
}

func (p *Page) Width() float64  { return p.W }
func (p *Page) Height() float64 { return p.H }

// Factory returns a drawing.PageFactory producing w×h pages and counting
// how many it made.
func Factory(w, h float64, made *int) drawing.PageFactory {
	return func() drawing.Page {
		if made != nil {
			*made++
		}
		return &Page{W: w, H: h}
	}
}

// Document is an in-memory drawing.Document. Each opened surface is a
// Recorder kept in Surfaces, with the page it was opened on at the same
// index of SurfacePages.
type Document struct {
	Pages        []drawing.Page
	Surfaces     []*Recorder
	SurfacePages []drawing.Page

	// OpenErr is returned by OpenSurface when set.
	OpenErr error
	// CloseErr is returned by the surfaces' Close when set.
	CloseErr error
	// FailAfter is copied into every opened Recorder.
	FailAfter int
}

var _ drawing.Document = (*Document)(nil)

func (d *Document) NumPages() int { return len(d.Pages) }

func (d *Document) Page(i int) drawing.Page { return d.Pages[i] }

func (d *Document) AddPage(p drawing.Page) error {
	d.Pages = append(d.Pages, p)
	return nil
}

func (d *Document) OpenSurface(p drawing.Page, _ bool) (drawing.Surface, error) {
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	for _, s := range d.Surfaces {
		if !s.Closed {
			return nil, errors.New("drawingtest: a surface is still open")
		}
	}
	r := &Recorder{FailAfter: d.FailAfter}
	d.Surfaces = append(d.Surfaces, r)
	d.SurfacePages = append(d.SurfacePages, p)
	if d.CloseErr != nil {
		return &failingCloser{Recorder: r, err: d.CloseErr}, nil
	}
	return r, nil
}

// PageIndex returns the index of p in the document, or -1.
func (d *Document) PageIndex(p drawing.Page) int {
	for i, q := range d.Pages {
		if q == p {
			return i
		}
	}
	return -1
}

type failingCloser struct {
	*Recorder
	err error
}

func (f *failingCloser) Close() error {
	if err := f.Recorder.Close(); err != nil {
		return err
	}
	return f.err
}
