// Package pdfdoc is a small PDF writer implementing drawing.Document. Pages
// hold one content stream per opened surface; text uses the standard 14
// Type1 fonts and images become DeviceRGB XObjects.
package pdfdoc

import (
	"compress/zlib"
	"errors"
	"fmt"
	"image"
	"reflect"

	"github.com/wudi/pdftable/drawing"
	"github.com/wudi/pdftable/observability"
)

var (
	ErrClosed      = errors.New("pdfdoc: document closed")
	ErrForeignPage = errors.New("pdfdoc: page does not belong to this document")
	ErrSurfaceOpen = errors.New("pdfdoc: page already has an open surface")
	ErrUnknownFont = errors.New("pdfdoc: not a standard font")
)

// Standard page sizes in points.
const (
	A4Width, A4Height         = 595.28, 841.89
	LetterWidth, LetterHeight = 612, 792
)

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger.
func WithLogger(l observability.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithCompressionLevel sets the flate level used for images and compressed
// content streams.
func WithCompressionLevel(level int) Option {
	return func(d *Document) { d.level = level }
}

// WithMaxImagePixels downsamples images whose longer side exceeds n pixels.
// Zero keeps images at their original resolution.
func WithMaxImagePixels(n int) Option {
	return func(d *Document) { d.maxImagePixels = n }
}

// WithInfo sets the document title and producer.
func WithInfo(title, producer string) Option {
	return func(d *Document) {
		d.title = title
		d.producer = producer
	}
}

// Document is an in-memory PDF document.
type Document struct {
	pages  []*Page
	fonts  map[string]string            // base font -> resource name
	images map[image.Image]*imageObject // comparable images only
	order  []*imageObject

	level          int
	maxImagePixels int
	title          string
	producer       string
	logger         observability.Logger
	closed         bool
}

var _ drawing.Document = (*Document)(nil)

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		fonts:  make(map[string]string),
		images: make(map[image.Image]*imageObject),
		level:  zlib.DefaultCompression,
		logger: observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Page is a page of a Document.
type Page struct {
	doc    *Document
	width  float64
	height float64

	added    bool
	open     bool
	contents []stream
	fonts    map[string]bool
	images   map[*imageObject]bool
}

type stream struct {
	data       []byte
	compressed bool
}

// NewPage creates a page of the given size. It is not part of the document
// until AddPage is called.
func (d *Document) NewPage(width, height float64) *Page {
	return &Page{
		doc:    d,
		width:  width,
		height: height,
		fonts:  make(map[string]bool),
		images: make(map[*imageObject]bool),
	}
}

// A4 creates a portrait A4 page.
func (d *Document) A4() *Page { return d.NewPage(A4Width, A4Height) }

// Letter creates a portrait US Letter page.
func (d *Document) Letter() *Page { return d.NewPage(LetterWidth, LetterHeight) }

// PageFactory returns a drawing.PageFactory making pages of the given size.
func (d *Document) PageFactory(width, height float64) drawing.PageFactory {
	return func() drawing.Page { return d.NewPage(width, height) }
}

func (p *Page) Width() float64  { return p.width }
func (p *Page) Height() float64 { return p.height }

// NumPages returns the number of pages added.
func (d *Document) NumPages() int { return len(d.pages) }

// Page returns the i-th added page.
func (d *Document) Page(i int) drawing.Page { return d.pages[i] }

func (d *Document) own(p drawing.Page) (*Page, error) {
	if d.closed {
		return nil, ErrClosed
	}
	pg, ok := p.(*Page)
	if !ok || pg.doc != d {
		return nil, fmt.Errorf("%w: %T", ErrForeignPage, p)
	}
	return pg, nil
}

// AddPage appends p, which must have been created by this document.
func (d *Document) AddPage(p drawing.Page) error {
	pg, err := d.own(p)
	if err != nil {
		return err
	}
	if pg.added {
		return fmt.Errorf("pdfdoc: page added twice")
	}
	pg.added = true
	d.pages = append(d.pages, pg)
	return nil
}

// OpenSurface starts a new content stream appended to p when the surface is
// closed.
func (d *Document) OpenSurface(p drawing.Page, compress bool) (drawing.Surface, error) {
	pg, err := d.own(p)
	if err != nil {
		return nil, err
	}
	if pg.open {
		return nil, ErrSurfaceOpen
	}
	pg.open = true
	return &Surface{page: pg, compress: compress}, nil
}

func (d *Document) fontResource(base string) (string, error) {
	if !standardFonts[base] {
		return "", fmt.Errorf("%w: %q", ErrUnknownFont, base)
	}
	if name, ok := d.fonts[base]; ok {
		return name, nil
	}
	name := fmt.Sprintf("F%d", len(d.fonts)+1)
	d.fonts[base] = name
	return name, nil
}

func (d *Document) imageResource(img image.Image) (*imageObject, error) {
	shareable := reflect.TypeOf(img).Comparable()
	if shareable {
		if obj, ok := d.images[img]; ok {
			return obj, nil
		}
	}
	obj, err := encodeImage(img, d.maxImagePixels, d.level)
	if err != nil {
		return nil, err
	}
	obj.name = fmt.Sprintf("Im%d", len(d.order)+1)
	if shareable {
		d.images[img] = obj
	}
	d.order = append(d.order, obj)
	d.logger.Debug("image embedded",
		observability.String("resource", obj.name),
		observability.Int("width", obj.width),
		observability.Int("height", obj.height),
		observability.Bool("alpha", obj.alpha != nil))
	return obj, nil
}

var standardFonts = map[string]bool{
	"Helvetica": true, "Helvetica-Bold": true, "Helvetica-Oblique": true, "Helvetica-BoldOblique": true,
	"Times-Roman": true, "Times-Bold": true, "Times-Italic": true, "Times-BoldItalic": true,
	"Courier": true, "Courier-Bold": true, "Courier-Oblique": true, "Courier-BoldOblique": true,
	"Symbol": true, "ZapfDingbats": true,
}

// IsStandardFont reports whether name is one of the standard 14 fonts.
func IsStandardFont(name string) bool { return standardFonts[name] }
