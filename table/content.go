package table

import (
	"image"

	"github.com/wudi/pdftable/fonts"
	"github.com/wudi/pdftable/geometry"
)

// Content is what a cell displays. InnerHeight reports the height the
// content needs when laid out in the given width, padding excluded.
type Content interface {
	InnerHeight(width float64) float64
}

// inheritor is implemented by content that takes defaults from the
// resolved cell style.
type inheritor interface {
	inherit(s Style, m fonts.Metrics)
}

// DefaultLineSpacing is the line height as a multiple of the font size.
const DefaultLineSpacing = 1.2

// Text is word-wrapped text content.
type Text struct {
	Text        string
	Font        string
	FontSize    float64
	Color       geometry.Color
	LineSpacing float64
	Metrics     fonts.Metrics
}

func (t *Text) inherit(s Style, m fonts.Metrics) {
	if t.Font == "" {
		t.Font = s.Font
	}
	if t.FontSize <= 0 {
		t.FontSize = s.FontSize
	}
	t.Color = t.Color.Or(s.TextColor)
	if t.LineSpacing <= 0 {
		t.LineSpacing = DefaultLineSpacing
	}
	if t.Metrics == nil {
		t.Metrics = m
	}
}

// LineHeight is the distance between two baselines.
func (t *Text) LineHeight() float64 {
	spacing := t.LineSpacing
	if spacing <= 0 {
		spacing = DefaultLineSpacing
	}
	return t.FontSize * spacing
}

// Lines wraps the text to width.
func (t *Text) Lines(width float64) []string {
	return fonts.Wrap(t.metrics(), t.Text, t.FontSize, width)
}

// InnerHeight implements Content.
func (t *Text) InnerHeight(width float64) float64 {
	return float64(len(t.Lines(width))) * t.LineHeight()
}

// Width returns the width of the given line.
func (t *Text) Width(line string) float64 {
	return t.metrics().TextWidth(line, t.FontSize)
}

func (t *Text) metrics() fonts.Metrics {
	if t.Metrics == nil {
		return fonts.DefaultEstimate
	}
	return t.Metrics
}

// Image is raster content. Without an explicit size the image is drawn at
// Scale points per pixel (1 by default) and shrunk to fit the cell width.
type Image struct {
	Image         image.Image
	Scale         float64
	Width, Height float64
}

func (i *Image) inherit(Style, fonts.Metrics) {
	if i.Scale <= 0 {
		i.Scale = 1
	}
}

// Size returns the drawn size of the image when at most maxWidth wide.
func (i *Image) Size(maxWidth float64) (float64, float64) {
	w, h := i.Width, i.Height
	if w <= 0 || h <= 0 {
		if i.Image == nil {
			return 0, 0
		}
		scale := i.Scale
		if scale <= 0 {
			scale = 1
		}
		b := i.Image.Bounds()
		natW, natH := float64(b.Dx())*scale, float64(b.Dy())*scale
		if natW == 0 || natH == 0 {
			return 0, 0
		}
		switch {
		case w > 0:
			h = natH * w / natW
		case h > 0:
			w = natW * h / natH
		default:
			w, h = natW, natH
		}
	}
	if maxWidth > 0 && w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
	}
	return w, h
}

// InnerHeight implements Content.
func (i *Image) InnerHeight(width float64) float64 {
	_, h := i.Size(width)
	return h
}

// Empty is content that takes no space.
type Empty struct{}

// InnerHeight implements Content.
func (Empty) InnerHeight(float64) float64 { return 0 }
