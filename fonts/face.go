package fonts

import (
	"bytes"
	"fmt"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	lru "github.com/hashicorp/golang-lru/v2"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

const widthCacheSize = 4096

// Face measures text by shaping it with HarfBuzz against a TrueType/OpenType
// font. Widths are cached per string at a size of one em, so a Face is cheap
// to share between tables. It is safe for concurrent use.
type Face struct {
	mu      sync.Mutex
	face    *gofont.Face
	shaper  shaping.HarfbuzzShaper
	widths  *lru.Cache[string, float64]
	ascent  float64 // em fraction
	descent float64 // em fraction
}

// Parse loads a TrueType/OpenType font for measurement.
func Parse(data []byte) (*Face, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("font data is empty")
	}
	face, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	ascent, descent, err := verticalMetrics(data)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[string, float64](widthCacheSize)
	if err != nil {
		return nil, err
	}
	return &Face{face: face, widths: cache, ascent: ascent, descent: descent}, nil
}

var (
	defaultOnce sync.Once
	defaultFace *Face
	defaultErr  error
)

// Default returns a shared face backed by the Go Regular font.
func Default() (*Face, error) {
	defaultOnce.Do(func() {
		defaultFace, defaultErr = Parse(goregular.TTF)
	})
	return defaultFace, defaultErr
}

// TextWidth implements Metrics.
func (f *Face) TextWidth(text string, size float64) float64 {
	if text == "" || size <= 0 {
		return 0
	}
	if w, ok := f.widths.Get(text); ok {
		return w * size
	}
	f.mu.Lock()
	w := f.shapeWidth(text)
	f.mu.Unlock()
	f.widths.Add(text, w)
	return w * size
}

// Ascent implements VerticalMetrics.
func (f *Face) Ascent(size float64) float64 { return f.ascent * size }

// Descent implements VerticalMetrics.
func (f *Face) Descent(size float64) float64 { return f.descent * size }

// shapeWidth returns the advance of text at one em. Callers hold f.mu.
func (f *Face) shapeWidth(text string) float64 {
	runes := []rune(text)
	script := detectScript(runes)
	// Shape at 1000 units per em, then scale back down.
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: scriptDirection(script),
		Face:      f.face,
		Size:      fixed.Int26_6(1000 * 64),
		Script:    script,
		Language:  language.DefaultLanguage(),
	}
	out := f.shaper.Shape(input)
	var adv float64
	for _, g := range out.Glyphs {
		adv += float64(g.XAdvance) / 64.0
	}
	return adv / 1000.0
}

func verticalMetrics(data []byte) (float64, float64, error) {
	font, err := sfnt.Parse(data)
	if err != nil {
		return 0, 0, fmt.Errorf("parse sfnt: %w", err)
	}
	upem := font.UnitsPerEm()
	if upem == 0 {
		return 0, 0, fmt.Errorf("invalid unitsPerEm")
	}
	var buf sfnt.Buffer
	m, err := font.Metrics(&buf, fixed.Int26_6(upem)<<6, xfont.HintingNone)
	if err != nil {
		return 0, 0, fmt.Errorf("font metrics: %w", err)
	}
	scale := func(v fixed.Int26_6) float64 {
		return float64(v) / (64.0 * float64(upem))
	}
	return scale(m.Ascent), scale(m.Descent), nil
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew, language.Syriac, language.Thaana, language.Nko:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

// detectScript picks the most frequent script among the runes, Latin when
// nothing is recognised.
func detectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	best, bestCount := language.Latin, 0
	for _, r := range runes {
		s := scriptFromRune(r)
		if s == language.Unknown {
			continue
		}
		counts[s]++
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Han, r):
		return language.Han
	case unicode.Is(unicode.Hiragana, r):
		return language.Hiragana
	case unicode.Is(unicode.Katakana, r):
		return language.Katakana
	case unicode.Is(unicode.Hangul, r):
		return language.Hangul
	case unicode.Is(unicode.Thai, r):
		return language.Thai
	case unicode.Is(unicode.Devanagari, r):
		return language.Devanagari
	}
	return language.Unknown
}
