package fonts

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWrap(t *testing.T) {
	m := Estimate(1) // every rune is one font size wide
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{"Empty", "   ", 10, nil},
		{"Fits", "ab cd", 10, []string{"ab cd"}},
		{"BreaksAtSpace", "ab cd ef", 5, []string{"ab cd", "ef"}},
		{"KeepsNewlines", "ab\n\ncd", 10, []string{"ab", "", "cd"}},
		{"LongWord", "abcdefg", 3, []string{"abc", "def", "g"}},
		{"LongWordAfterShort", "a bcdef", 3, []string{"a", "bcd", "ef"}},
		{"CollapsesSpaces", "a    b", 10, []string{"a b"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Wrap(m, tc.text, 1, tc.maxWidth)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Wrap mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEstimate_TextWidth(t *testing.T) {
	if got := DefaultEstimate.TextWidth("héllo", 10); got != 25 {
		t.Fatalf("width = %v, want 25", got)
	}
}

func TestMaxLineWidth(t *testing.T) {
	got := MaxLineWidth(Estimate(1), []string{"a", "abc", "ab"}, 2)
	if got != 6 {
		t.Fatalf("max width = %v, want 6", got)
	}
}

func TestDefaultFace(t *testing.T) {
	face, err := Default()
	if err != nil {
		t.Fatalf("default face: %v", err)
	}
	narrow := face.TextWidth("iiii", 12)
	wide := face.TextWidth("WWWW", 12)
	if narrow <= 0 || wide <= narrow {
		t.Fatalf("unexpected widths: narrow=%v wide=%v", narrow, wide)
	}
	// Cached path must agree with the shaped one and scale linearly.
	if again := face.TextWidth("WWWW", 24); math.Abs(again-2*wide) > 1e-9 {
		t.Fatalf("width at 24pt = %v, want %v", again, 2*wide)
	}
	if face.Ascent(10) <= 0 || face.Descent(10) <= 0 {
		t.Fatalf("expected positive vertical metrics, got %v/%v", face.Ascent(10), face.Descent(10))
	}
	if face.TextWidth("", 12) != 0 {
		t.Fatal("empty text should have no width")
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatal("expected error for empty font data")
	}
}
