package contentstreamtest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wudi/pdftable/contentstream"
	"github.com/wudi/pdftable/geometry"
)

func TestParseRoundTrip(t *testing.T) {
	var b contentstream.Builder
	b.Save().FillRGB(0.2, 0.4, 0.6).Rect(1, 2, 3, 4).Fill().Restore()
	b.BeginText().Font("Helvetica Bold", 9).ShowText([]byte("tab\there\\ \xe9")).EndText()
	b.Dash(nil, 0)
	ops, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	encode := func(a contentstream.Array) string {
		return string(contentstream.Encode([]contentstream.Operation{contentstream.Op("x", a)}))
	}
	if diff := cmp.Diff(b.Operations(), ops, cmp.Comparer(func(a, b contentstream.Array) bool {
		return len(a) == len(b) && encode(a) == encode(b)
	})); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestParseHexAndComments(t *testing.T) {
	ops, err := Parse([]byte("% comment\n<48 65 6c6c6f> Tj\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ops) != 1 || string(ops[0].Operands[0].(contentstream.String)) != "Hello" {
		t.Fatalf("ops = %#v", ops)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{"1 2", "(open", "[1 2", "] S", "<<>> gs", "[1 S] d"} {
		if _, err := Parse([]byte(src)); !errors.Is(err, ErrSyntax) {
			t.Errorf("Parse(%q) error = %v, want ErrSyntax", src, err)
		}
	}
}

func TestProcessorTracksState(t *testing.T) {
	p := NewProcessor()
	type stroke struct {
		color [3]float64
		width float64
		dash  int
	}
	var strokes []stroke
	p.RegisterHandler("S", HandlerFunc(func(ec *ExecutionContext, _ []contentstream.Operand) error {
		gs := ec.GraphicsState
		strokes = append(strokes, stroke{gs.StrokeColor, gs.LineWidth, len(gs.Dash)})
		return nil
	}))
	var b contentstream.Builder
	b.Save().StrokeRGB(0, 0, 1).LineWidth(2).Dash([]float64{1, 1}, 0).MoveTo(0, 0).LineTo(1, 1).Stroke().Restore()
	b.MoveTo(0, 0).LineTo(1, 1).Stroke()
	state := &GraphicsState{LineWidth: 1}
	if err := p.Process(context.Background(), b.Bytes(), state); err != nil {
		t.Fatalf("Process: %v", err)
	}
	want := []stroke{{[3]float64{0, 0, 1}, 2, 2}, {[3]float64{}, 1, 0}}
	if diff := cmp.Diff(want, strokes, cmp.AllowUnexported(stroke{})); diff != "" {
		t.Fatalf("strokes (-want +got):\n%s", diff)
	}
}

func TestProcessorRejectsUnbalancedState(t *testing.T) {
	p := NewProcessor()
	for _, src := range []string{"q", "Q", "BT", "ET", "BT BT ET ET"} {
		if err := p.Process(context.Background(), []byte(src), &GraphicsState{}); err == nil {
			t.Errorf("Process(%q) succeeded", src)
		}
	}
}

func TestProcessorHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewProcessor().Process(ctx, []byte("q Q"), &GraphicsState{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestMatrix(t *testing.T) {
	m := Scale(2, 4).Multiply(Translate(10, 20))
	if got := m.Apply(geometry.Point{X: 1, Y: 1}); got != (geometry.Point{X: 12, Y: 24}) {
		t.Fatalf("Apply = %+v", got)
	}
	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	if got := m.Multiply(inv); got != Identity() {
		t.Fatalf("m × m⁻¹ = %v", got)
	}
	if _, err := Scale(0, 1).Inverse(); err == nil {
		t.Fatalf("singular matrix inverted")
	}
}
