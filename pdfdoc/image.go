package pdfdoc

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

type imageObject struct {
	name          string
	width, height int
	rgb           []byte // flate encoded
	alpha         []byte // flate encoded, nil when opaque
}

// encodeImage converts src to 8-bit RGB samples plus a gray soft mask when
// any pixel is translucent. Images larger than maxPixels on their longer
// side are downsampled first.
func encodeImage(src image.Image, maxPixels, level int) (*imageObject, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("pdfdoc: empty image")
	}
	if maxPixels > 0 && (w > maxPixels || h > maxPixels) {
		if w >= h {
			h = max(1, h*maxPixels/w)
			w = maxPixels
		} else {
			w = max(1, w*maxPixels/h)
			h = maxPixels
		}
	}

	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(nrgba, nrgba.Bounds(), src, bounds, draw.Src, nil)
	}

	pixels := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	hasAlpha := false
	for i := 0; i < w*h; i++ {
		offset := i * 4
		pixels = append(pixels, nrgba.Pix[offset], nrgba.Pix[offset+1], nrgba.Pix[offset+2])
		a := nrgba.Pix[offset+3]
		alpha = append(alpha, a)
		if a < 255 {
			hasAlpha = true
		}
	}

	obj := &imageObject{width: w, height: h}
	var err error
	if obj.rgb, err = flateEncode(pixels, level); err != nil {
		return nil, err
	}
	if hasAlpha {
		if obj.alpha, err = flateEncode(alpha, level); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// flateEncode produces zlib-wrapped deflate data as FlateDecode expects.
func flateEncode(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
