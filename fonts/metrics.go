// Package fonts measures text for table cell layout.
//
// Measurement is independent from the font resources a drawing surface
// uses: a Metrics value only has to report advance widths so that cell
// content can be wrapped and its height computed before drawing.
package fonts

import "unicode/utf8"

// Metrics reports the advance width of text set at a given size.
type Metrics interface {
	TextWidth(text string, size float64) float64
}

// VerticalMetrics is implemented by metrics that know the font's ascent and
// descent. Both are positive distances from the baseline in user units.
type VerticalMetrics interface {
	Ascent(size float64) float64
	Descent(size float64) float64
}

// Estimate approximates every glyph with the same advance, expressed as a
// fraction of the font size.
type Estimate float64

// DefaultEstimate matches the average glyph width of Helvetica closely enough
// for layout purposes.
const DefaultEstimate Estimate = 0.5

// TextWidth implements Metrics.
func (e Estimate) TextWidth(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * float64(e)
}
