package pdfdoc

import (
	"bytes"
	"compress/zlib"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wudi/pdftable/contentstream"
	"github.com/wudi/pdftable/contentstream/contentstreamtest"
	"github.com/wudi/pdftable/drawer"
	"github.com/wudi/pdftable/drawing/drawingtest"
	"github.com/wudi/pdftable/fonts"
	"github.com/wudi/pdftable/geometry"
	"github.com/wudi/pdftable/table"
)

type streamObj struct {
	dict string
	data []byte
}

var lengthRE = regexp.MustCompile(`/Length (\d+)`)

// streams returns every stream object of pdf in file order.
func streams(t *testing.T, pdf []byte) []streamObj {
	t.Helper()
	const marker = ">>\nstream\n"
	var out []streamObj
	rest := pdf
	for {
		i := bytes.Index(rest, []byte(marker))
		if i < 0 {
			return out
		}
		start := bytes.LastIndex(rest[:i], []byte("obj\n")) + len("obj\n")
		dict := string(rest[start : i+2])
		m := lengthRE.FindStringSubmatch(dict)
		if m == nil {
			t.Fatalf("stream without length: %s", dict)
		}
		n, _ := strconv.Atoi(m[1])
		data := rest[i+len(marker):]
		if len(data) < n || !bytes.HasPrefix(data[n:], []byte("\nendstream")) {
			t.Fatalf("stream length %d does not match data", n)
		}
		out = append(out, streamObj{dict: dict, data: data[:n]})
		rest = data[n:]
	}
}

func inflate(t *testing.T, data []byte) []byte {
	t.Helper()
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("zlib: %v", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	return out
}

// contents returns the decoded page content streams.
func contents(t *testing.T, pdf []byte) [][]byte {
	t.Helper()
	var out [][]byte
	for _, s := range streams(t, pdf) {
		if strings.Contains(s.dict, "/Subtype") {
			continue
		}
		if strings.Contains(s.dict, "/Filter /FlateDecode") {
			out = append(out, inflate(t, s.data))
		} else {
			out = append(out, s.data)
		}
	}
	return out
}

func write(t *testing.T, d *Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := d.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("WriteTo reported %d bytes, wrote %d", n, buf.Len())
	}
	return buf.Bytes()
}

func checkXref(t *testing.T, pdf []byte) {
	t.Helper()
	m := regexp.MustCompile(`startxref\n(\d+)\n%%EOF\n$`).FindSubmatch(pdf)
	if m == nil {
		t.Fatalf("missing startxref trailer")
	}
	off, _ := strconv.Atoi(string(m[1]))
	xref := pdf[off:]
	var size int
	if _, err := fmt.Sscanf(string(xref), "xref\n0 %d\n", &size); err != nil {
		t.Fatalf("xref header: %v", err)
	}
	entries := xref[bytes.IndexByte(xref[len("xref\n"):], '\n')+len("xref\n")+1:]
	for i := 1; i < size; i++ {
		entry := string(entries[i*20 : i*20+20])
		objOff, err := strconv.Atoi(entry[:10])
		if err != nil {
			t.Fatalf("xref entry %d: %q", i, entry)
		}
		want := fmt.Sprintf("%d 0 obj\n", i)
		if !bytes.HasPrefix(pdf[objOff:], []byte(want)) {
			t.Fatalf("xref entry %d points at %q", i, pdf[objOff:objOff+10])
		}
	}
}

func TestWriteToStructure(t *testing.T) {
	d := New(WithInfo("Quarterly (draft)", ""))
	p := d.A4()
	if err := d.AddPage(p); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	s, err := d.OpenSurface(p, false)
	if err != nil {
		t.Fatalf("OpenSurface: %v", err)
	}
	if err := s.ShowText("Hello", "Helvetica", 12, 10, 20); err != nil {
		t.Fatalf("ShowText: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	pdf := write(t, d)
	if !bytes.HasPrefix(pdf, []byte("%PDF-1.7\n")) {
		t.Fatalf("header = %q", pdf[:9])
	}
	for _, want := range []string{
		"1 0 obj\n<</Pages 2 0 R/Type /Catalog>>",
		"/Count 1",
		"/Title (Quarterly \\(draft\\))",
		"/Producer (pdftable)",
		"/BaseFont /Helvetica",
		"/Encoding /WinAnsiEncoding",
		"/Resources <</Font <</F1 4 0 R>>>>",
		"/Contents [5 0 R]",
		"/MediaBox [0 0 595.28 841.89]",
	} {
		if !bytes.Contains(pdf, []byte(want)) {
			t.Errorf("output lacks %q", want)
		}
	}
	checkXref(t, pdf)

	got := contents(t, pdf)
	if len(got) != 1 {
		t.Fatalf("got %d content streams", len(got))
	}
	ops, err := contentstreamtest.Parse(got[0])
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var operators []string
	for _, op := range ops {
		operators = append(operators, op.Operator)
	}
	if diff := cmp.Diff([]string{"BT", "Tf", "Tm", "Tj", "ET"}, operators); diff != "" {
		t.Fatalf("operators (-want +got):\n%s", diff)
	}
}

func TestSurfacesAppendStreams(t *testing.T) {
	d := New()
	p := d.Letter()
	if err := d.AddPage(p); err != nil {
		t.Fatal(err)
	}
	for i, compress := range []bool{false, true} {
		s, err := d.OpenSurface(p, compress)
		if err != nil {
			t.Fatalf("OpenSurface %d: %v", i, err)
		}
		if err := s.SetStrokeColor(geometry.Red); err != nil {
			t.Fatal(err)
		}
		if err := s.StrokeLine(0, float64(i), 100, float64(i), 1, []float64{3, 1}); err != nil {
			t.Fatal(err)
		}
		if err := s.Close(); err != nil {
			t.Fatal(err)
		}
	}
	// An empty surface adds no stream.
	s, err := d.OpenSurface(p, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	pdf := write(t, d)
	got := contents(t, pdf)
	if len(got) != 2 {
		t.Fatalf("got %d content streams, want 2", len(got))
	}
	if !bytes.Contains(pdf, []byte("/Contents [4 0 R 5 0 R]")) {
		t.Fatalf("page does not list both streams")
	}
	if !bytes.Equal(got[0], bytes.Replace(got[1], []byte("0 1 m\n100 1 l"), []byte("0 0 m\n100 0 l"), 1)) {
		t.Fatalf("compressed stream differs:\n%s\n%s", got[0], got[1])
	}

	var widths []float64
	proc := contentstreamtest.NewProcessor()
	proc.RegisterHandler("S", contentstreamtest.HandlerFunc(func(ec *contentstreamtest.ExecutionContext, _ []contentstream.Operand) error {
		if ec.GraphicsState.StrokeColor != [3]float64{1, 0, 0} {
			return fmt.Errorf("stroke color %v", ec.GraphicsState.StrokeColor)
		}
		widths = append(widths, ec.GraphicsState.LineWidth)
		return nil
	}))
	for _, c := range got {
		if err := proc.Process(context.Background(), c, &contentstreamtest.GraphicsState{}); err != nil {
			t.Fatalf("Process: %v", err)
		}
	}
	if diff := cmp.Diff([]float64{1, 1}, widths); diff != "" {
		t.Fatalf("line widths (-want +got):\n%s", diff)
	}
}

func TestShowTextEncodesWinAnsi(t *testing.T) {
	d := New()
	p := d.A4()
	if err := d.AddPage(p); err != nil {
		t.Fatal(err)
	}
	s, err := d.OpenSurface(p, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ShowText("Café €5 ✓", "Times-Bold", 9, 0, 0); err != nil {
		t.Fatalf("ShowText: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	ops, err := contentstreamtest.Parse(contents(t, write(t, d))[0])
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, op := range ops {
		if op.Operator != "Tj" {
			continue
		}
		want := contentstream.String{'C', 'a', 'f', 0xE9, ' ', 0x80, '5', ' ', '?'}
		if diff := cmp.Diff(want, op.Operands[0]); diff != "" {
			t.Fatalf("text (-want +got):\n%s", diff)
		}
		return
	}
	t.Fatalf("no Tj operation")
}

func translucent(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 10, B: 10, A: 128})
	return img
}

func TestDrawImageSharesXObject(t *testing.T) {
	d := New()
	p := d.A4()
	if err := d.AddPage(p); err != nil {
		t.Fatal(err)
	}
	s, err := d.OpenSurface(p, false)
	if err != nil {
		t.Fatal(err)
	}
	img := translucent(2, 2)
	for i := 0; i < 2; i++ {
		if err := s.DrawImage(img, float64(10*i), 0, 20, 20); err != nil {
			t.Fatalf("DrawImage: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	pdf := write(t, d)
	var images []streamObj
	for _, st := range streams(t, pdf) {
		if strings.Contains(st.dict, "/Subtype /Image") {
			images = append(images, st)
		}
	}
	if len(images) != 2 {
		t.Fatalf("got %d image streams, want image and soft mask", len(images))
	}
	if !strings.Contains(images[0].dict, "/SMask 5 0 R") || !strings.Contains(images[1].dict, "/ColorSpace /DeviceGray") {
		t.Fatalf("dicts = %q, %q", images[0].dict, images[1].dict)
	}
	if got := inflate(t, images[0].data); len(got) != 12 || !bytes.Equal(got[3:], bytes.Repeat([]byte{200, 10, 10}, 3)) {
		t.Fatalf("rgb samples = %v", got)
	}
	if got := inflate(t, images[1].data); !bytes.Equal(got, []byte{128, 255, 255, 255}) {
		t.Fatalf("alpha samples = %v", got)
	}
	if !bytes.Contains(pdf, []byte("/XObject <</Im1 4 0 R>>")) {
		t.Fatalf("page resources lack the image")
	}

	// Each Do paints the unit square scaled into the requested box.
	var corners []geometry.Point
	proc := contentstreamtest.NewProcessor()
	proc.RegisterHandler("Do", contentstreamtest.HandlerFunc(func(ec *contentstreamtest.ExecutionContext, _ []contentstream.Operand) error {
		m := ec.GraphicsState.Matrix()
		corners = append(corners, m.Apply(geometry.Point{}), m.Apply(geometry.Point{X: 1, Y: 1}))
		return nil
	}))
	if err := proc.Process(context.Background(), contents(t, pdf)[0], &contentstreamtest.GraphicsState{}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	want := []geometry.Point{{X: 0, Y: 0}, {X: 20, Y: 20}, {X: 10, Y: 0}, {X: 30, Y: 20}}
	if diff := cmp.Diff(want, corners); diff != "" {
		t.Fatalf("image boxes (-want +got):\n%s", diff)
	}
}

func TestDrawImageDownsamples(t *testing.T) {
	d := New(WithMaxImagePixels(2))
	p := d.A4()
	if err := d.AddPage(p); err != nil {
		t.Fatal(err)
	}
	s, err := d.OpenSurface(p, false)
	if err != nil {
		t.Fatal(err)
	}
	src := image.NewGray(image.Rect(0, 0, 4, 2))
	if err := s.DrawImage(src, 0, 0, 40, 20); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	pdf := write(t, d)
	if !bytes.Contains(pdf, []byte("/Height 1")) || !bytes.Contains(pdf, []byte("/Width 2")) {
		t.Fatalf("image was not downsampled")
	}
	if bytes.Contains(pdf, []byte("/SMask")) {
		t.Fatalf("opaque image has a soft mask")
	}
}

func TestDocumentErrors(t *testing.T) {
	d := New()
	if err := d.AddPage(&drawingtest.Page{W: 10, H: 10}); !errors.Is(err, ErrForeignPage) {
		t.Errorf("AddPage(foreign) = %v", err)
	}
	if err := d.AddPage(New().A4()); !errors.Is(err, ErrForeignPage) {
		t.Errorf("AddPage(other document) = %v", err)
	}
	if _, err := d.WriteTo(io.Discard); err == nil {
		t.Errorf("WriteTo with no pages succeeded")
	}

	p := d.A4()
	if err := d.AddPage(p); err != nil {
		t.Fatal(err)
	}
	if err := d.AddPage(p); err == nil {
		t.Errorf("adding a page twice succeeded")
	}
	s, err := d.OpenSurface(p, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.OpenSurface(p, false); !errors.Is(err, ErrSurfaceOpen) {
		t.Errorf("second OpenSurface = %v", err)
	}
	if _, err := d.WriteTo(io.Discard); !errors.Is(err, ErrSurfaceOpen) {
		t.Errorf("WriteTo with open surface = %v", err)
	}
	if err := s.ShowText("x", "Arial", 10, 0, 0); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("ShowText(Arial) = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err == nil {
		t.Errorf("second Close succeeded")
	}
	if err := s.FillRectangle(0, 0, 1, 1); err == nil {
		t.Errorf("drawing on a closed surface succeeded")
	}

	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close = %v", err)
	}
	if err := d.AddPage(d.A4()); !errors.Is(err, ErrClosed) {
		t.Errorf("AddPage after Close = %v", err)
	}
	if _, err := d.WriteTo(io.Discard); !errors.Is(err, ErrClosed) {
		t.Errorf("WriteTo after Close = %v", err)
	}
}

func TestDrawPagesIntoDocument(t *testing.T) {
	b := table.NewBuilder(table.WithColumnWidths(120, 300), table.WithMetrics(fonts.Estimate(0.5)),
		table.WithStyle(table.Style{BorderWidth: table.Float(1)}))
	b.AddRow(table.NewText("Item"), table.NewText("Description")).SetStyle(table.Style{Background: geometry.Gray, Font: "Helvetica-Bold"})
	for i := 0; i < 60; i++ {
		b.AddRow(table.NewText(fmt.Sprintf("row %d", i)), table.NewText("a line of text"))
	}
	tbl, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	d := New()
	td := drawer.New(tbl, drawer.WithStartX(40), drawer.WithStartY(A4Height-40), drawer.WithEndY(40), drawer.WithCompression(true))
	if err := td.DrawPages(d, d.PageFactory(A4Width, A4Height), 40); err != nil {
		t.Fatalf("DrawPages: %v", err)
	}
	if d.NumPages() < 2 {
		t.Fatalf("table of %v points fit on %d page", tbl.Height(), d.NumPages())
	}
	if td.TableStartPage() != d.Page(0) {
		t.Fatalf("table did not start on the first page")
	}

	pdf := write(t, d)
	checkXref(t, pdf)
	got := contents(t, pdf)
	if len(got) != d.NumPages() {
		t.Fatalf("got %d content streams for %d pages", len(got), d.NumPages())
	}
	shown := 0
	proc := contentstreamtest.NewProcessor()
	proc.RegisterHandler("Tj", contentstreamtest.HandlerFunc(func(ec *contentstreamtest.ExecutionContext, _ []contentstream.Operand) error {
		if !ec.TextState.InText || ec.TextState.Font == "" {
			return errors.New("text shown outside a text object")
		}
		shown++
		return nil
	}))
	for i, c := range got {
		if err := proc.Process(context.Background(), c, &contentstreamtest.GraphicsState{}); err != nil {
			t.Fatalf("page %d: %v", i, err)
		}
	}
	if shown != 2*tbl.NumRows() {
		t.Fatalf("showed %d text lines, want %d", shown, 2*tbl.NumRows())
	}
}
