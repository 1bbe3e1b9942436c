package cell_test

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/wudi/pdftable/drawing"
	"github.com/wudi/pdftable/drawing/cell"
	"github.com/wudi/pdftable/drawing/drawingtest"
	"github.com/wudi/pdftable/fonts"
	"github.com/wudi/pdftable/geometry"
	"github.com/wudi/pdftable/table"
)

// baseStyle gives 10pt text (12pt lines with 0.5em glyphs) and no padding.
func baseStyle() table.Style {
	p := table.UniformPadding(0)
	return table.Style{Padding: &p, FontSize: 10}
}

func build(t *testing.T, style table.Style, widths []float64, rows ...[]*table.Cell) *table.Table {
	t.Helper()
	b := table.NewBuilder(table.WithColumnWidths(widths...), table.WithStyle(style), table.WithMetrics(fonts.Estimate(0.5)))
	for _, r := range rows {
		b.AddRow(r...)
	}
	tbl, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tbl
}

func context(tbl *table.Table, s drawing.Surface, x, y float64) drawing.DrawingContext {
	return drawing.DrawingContext{
		PageData: drawing.PageData{FirstRow: 0, FirstRowOnNextPage: tbl.NumRows()},
		Surface:  s,
		Start:    geometry.Point{X: x, Y: y},
		Table:    tbl,
	}
}

func drawerFor(t *testing.T, c *table.Cell) drawing.Drawer {
	t.Helper()
	d, err := cell.For(c)
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	return d
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestBackgroundAlignsWithRow(t *testing.T) {
	c := table.NewText("x").SetBackground(geometry.Gray)
	tbl := build(t, baseStyle(), []float64{100}, []*table.Cell{c})
	rec := &drawingtest.Recorder{}
	if err := drawerFor(t, c).DrawBackground(context(tbl, rec, 10, 100)); err != nil {
		t.Fatalf("DrawBackground: %v", err)
	}
	want := []drawingtest.Rect{{X: 10, Y: 100, W: 100, H: 12, Color: geometry.Gray}}
	if diff := cmp.Diff(want, rec.Rects, approx); diff != "" {
		t.Fatalf("rects (-want +got):\n%s", diff)
	}
}

func TestBackgroundOfSpanningCellShiftsDown(t *testing.T) {
	span := table.NewText("x").SetRowSpan(2).SetBackground(geometry.Gray)
	tbl := build(t, baseStyle(), []float64{50, 50},
		[]*table.Cell{span, table.NewText("a")},
		[]*table.Cell{table.NewText("b")},
	)
	rec := &drawingtest.Recorder{}
	if err := drawerFor(t, span).DrawBackground(context(tbl, rec, 0, 200)); err != nil {
		t.Fatalf("DrawBackground: %v", err)
	}
	// Cell height 24, row height 12: shifted by exactly 12.
	want := []drawingtest.Rect{{X: 0, Y: 188, W: 50, H: 24, Color: geometry.Gray}}
	if diff := cmp.Diff(want, rec.Rects, approx); diff != "" {
		t.Fatalf("rects (-want +got):\n%s", diff)
	}
}

func TestBordersUseRowColorUnlessOverridden(t *testing.T) {
	style := baseStyle()
	style.BorderWidth = table.Float(1)
	style.BorderColor = geometry.Blue
	c := table.NewText("x").SetBorder(table.Bottom, table.Border{Width: 2, Color: geometry.Red})
	tbl := build(t, style, []float64{100}, []*table.Cell{c})
	if h := tbl.Row(0).Height(); h != 15 {
		t.Fatalf("row height = %v, want 15", h)
	}
	rec := &drawingtest.Recorder{}
	if err := drawerFor(t, c).DrawBorders(context(tbl, rec, 10, 100)); err != nil {
		t.Fatalf("DrawBorders: %v", err)
	}
	want := []drawingtest.Line{
		{X1: 9.5, Y1: 115, X2: 110.5, Y2: 115, Width: 1, Color: geometry.Blue},
		{X1: 9.5, Y1: 100, X2: 110.5, Y2: 100, Width: 2, Color: geometry.Red},
		{X1: 10, Y1: 99, X2: 10, Y2: 115.5, Width: 1, Color: geometry.Blue},
		{X1: 110, Y1: 99, X2: 110, Y2: 115.5, Width: 1, Color: geometry.Blue},
	}
	if diff := cmp.Diff(want, rec.Lines, approx); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
	if rec.StrokeColor() != geometry.Blue {
		t.Fatalf("stroke color not reset to row color: %v", rec.StrokeColor())
	}
}

func TestClippedSpanClosesAtSegmentEnd(t *testing.T) {
	style := baseStyle()
	style.BorderWidth = table.Float(1)
	span := table.NewText("x").SetRowSpan(2)
	tbl := build(t, style, []float64{50, 50},
		[]*table.Cell{span, table.NewText("a")},
		[]*table.Cell{table.NewText("b")},
	)
	rec := &drawingtest.Recorder{}
	ctx := context(tbl, rec, 0, 200)
	ctx.PageData = drawing.PageData{FirstRow: 0, FirstRowOnNextPage: 1}
	d := drawerFor(t, span).(*cell.TextDrawer)
	if _, h, clipped := d.Heights(ctx); h != 14 || !clipped {
		t.Fatalf("Heights = %v, %v", h, clipped)
	}
	if err := d.DrawBorders(ctx); err != nil {
		t.Fatalf("DrawBorders: %v", err)
	}
	want := []drawingtest.Line{
		{X1: -0.5, Y1: 214, X2: 50.5, Y2: 214, Width: 1},
		{X1: -0.5, Y1: 200, X2: 50.5, Y2: 200, Width: 1},
		{X1: 0, Y1: 199.5, X2: 0, Y2: 214.5, Width: 1},
		{X1: 50, Y1: 199.5, X2: 50, Y2: 214.5, Width: 1},
	}
	if diff := cmp.Diff(want, rec.Lines, approx, cmpopts.IgnoreFields(drawingtest.Line{}, "Color", "Dash")); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
}

func TestVerticalOffset(t *testing.T) {
	cases := []struct {
		align table.VerticalAlignment
		want  float64
	}{
		{table.VAlignTop, 40},
		{table.VAlignMiddle, 26},
		{table.VAlignBottom, 12},
	}
	for _, tc := range cases {
		c := table.NewText("x").SetVerticalAlignment(tc.align)
		b := table.NewBuilder(table.WithColumnWidths(100), table.WithStyle(baseStyle()), table.WithMetrics(fonts.Estimate(0.5)))
		b.AddRow(c).SetMinHeight(40)
		tbl, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		base := cell.Base{Cell: c}
		if got := base.VerticalOffset(context(tbl, nil, 0, 0), 12); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("align %v: offset = %v, want %v", tc.align, got, tc.want)
		}
	}
}

func TestVerticalOffsetOfSpanningCell(t *testing.T) {
	span := table.NewText("x").SetRowSpan(2).SetVerticalAlignment(table.VAlignMiddle)
	tbl := build(t, baseStyle(), []float64{50, 50},
		[]*table.Cell{span, table.NewText("a")},
		[]*table.Cell{table.NewText("b")},
	)
	base := cell.Base{Cell: span}
	// Span of 24 centred on 12pt content: top at 18 above the span bottom,
	// i.e. 6 above the first row's bottom.
	if got := base.VerticalOffset(context(tbl, nil, 0, 0), 12); math.Abs(got-6) > 1e-9 {
		t.Fatalf("offset = %v, want 6", got)
	}
}

func TestTextDrawerAlignsLines(t *testing.T) {
	c := table.NewText("ab\nabcd").SetHorizontalAlignment(table.HAlignRight)
	c.Content.(*table.Text).Color = geometry.Red
	tbl := build(t, baseStyle(), []float64{100}, []*table.Cell{c})
	rec := &drawingtest.Recorder{}
	if err := drawerFor(t, c).DrawContent(context(tbl, rec, 0, 100)); err != nil {
		t.Fatalf("DrawContent: %v", err)
	}
	want := []drawingtest.Text{
		{Text: "ab", Font: "Helvetica", Size: 10, X: 90, Y: 114, Color: geometry.Red},
		{Text: "abcd", Font: "Helvetica", Size: 10, X: 80, Y: 102, Color: geometry.Red},
	}
	if diff := cmp.Diff(want, rec.Texts, approx); diff != "" {
		t.Fatalf("texts (-want +got):\n%s", diff)
	}
}

func TestImageDrawerFitsWidth(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	c := table.NewImage(img).SetHorizontalAlignment(table.HAlignCenter)
	tbl := build(t, baseStyle(), []float64{100}, []*table.Cell{c})
	if h := tbl.Row(0).Height(); h != 50 {
		t.Fatalf("row height = %v, want 50", h)
	}
	rec := &drawingtest.Recorder{}
	if err := drawerFor(t, c).DrawContent(context(tbl, rec, 0, 100)); err != nil {
		t.Fatalf("DrawContent: %v", err)
	}
	if len(rec.Images) != 1 {
		t.Fatalf("images = %d", len(rec.Images))
	}
	got := rec.Images[0]
	if got.X != 0 || got.Y != 100 || got.W != 100 || got.H != 50 {
		t.Fatalf("image box = %+v", got)
	}
}

type unknown struct{}

func (unknown) InnerHeight(float64) float64 { return 0 }

type marker struct {
	calls []float64
}

func (m *marker) InnerHeight(float64) float64 { return 20 }

func (m *marker) DrawContent(_ drawing.DrawingContext, x, top, width float64) error {
	m.calls = append(m.calls, x, top, width)
	return nil
}

func TestForSelectsDrawer(t *testing.T) {
	if _, err := cell.For(table.NewCell(unknown{})); !errors.Is(err, cell.ErrUnsupportedContent) {
		t.Fatalf("For(unknown) error = %v", err)
	}
	if d, err := cell.For(table.NewCell(nil)); err != nil {
		t.Fatalf("For(empty): %v", err)
	} else if _, ok := d.(cell.Base); !ok {
		t.Fatalf("empty cell drawer is %T", d)
	}

	m := &marker{}
	p := table.Padding{Left: 5, Right: 5}
	c := table.NewCell(m).SetPadding(p)
	tbl := build(t, baseStyle(), []float64{100}, []*table.Cell{c})
	if err := drawerFor(t, c).DrawContent(context(tbl, &drawingtest.Recorder{}, 10, 0)); err != nil {
		t.Fatalf("DrawContent: %v", err)
	}
	if diff := cmp.Diff([]float64{15, 20, 90}, m.calls); diff != "" {
		t.Fatalf("custom draw args (-want +got):\n%s", diff)
	}
}
