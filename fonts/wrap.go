package fonts

import (
	"strings"
)

// Wrap breaks text into lines no wider than maxWidth. Explicit newlines are
// kept, words are separated by single spaces, and a word wider than maxWidth
// is broken between characters. Blank input yields no lines.
func Wrap(m Metrics, text string, size, maxWidth float64) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapWords(m, words, size, maxWidth)...)
	}
	return lines
}

func wrapWords(m Metrics, words []string, size, maxWidth float64) []string {
	var lines []string
	var cur strings.Builder
	curW := 0.0
	spaceW := m.TextWidth(" ", size)

	flush := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curW = 0
		}
	}

	for _, word := range words {
		w := m.TextWidth(word, size)
		switch {
		case cur.Len() == 0 && w <= maxWidth:
			cur.WriteString(word)
			curW = w
		case cur.Len() > 0 && curW+spaceW+w <= maxWidth:
			cur.WriteByte(' ')
			cur.WriteString(word)
			curW += spaceW + w
		case w <= maxWidth:
			flush()
			cur.WriteString(word)
			curW = w
		default:
			// Character-level wrapping for words longer than a line.
			flush()
			for _, r := range word {
				rw := m.TextWidth(string(r), size)
				if cur.Len() > 0 && curW+rw > maxWidth {
					flush()
				}
				cur.WriteRune(r)
				curW += rw
			}
		}
	}
	flush()
	return lines
}

// MaxLineWidth returns the widest of the given lines.
func MaxLineWidth(m Metrics, lines []string, size float64) float64 {
	var widest float64
	for _, l := range lines {
		if w := m.TextWidth(l, size); w > widest {
			widest = w
		}
	}
	return widest
}
