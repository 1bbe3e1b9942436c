package pdfdoc

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/wudi/pdftable/contentstream"
	"github.com/wudi/pdftable/observability"
)

const (
	catalogNum = 1
	pagesNum   = 2
	infoNum    = 3
)

// layout assigns object numbers before anything is written.
type layout struct {
	next     int
	fonts    map[string]int // resource name -> object
	images   map[*imageObject]int
	smasks   map[*imageObject]int
	contents [][]int
	pages    []int
}

func (d *Document) plan() *layout {
	l := &layout{
		next:   infoNum + 1,
		fonts:  make(map[string]int),
		images: make(map[*imageObject]int),
		smasks: make(map[*imageObject]int),
	}
	alloc := func() int {
		n := l.next
		l.next++
		return n
	}
	for _, res := range d.fontResources() {
		l.fonts[res] = alloc()
	}
	for _, img := range d.order {
		l.images[img] = alloc()
		if img.alpha != nil {
			l.smasks[img] = alloc()
		}
	}
	for _, p := range d.pages {
		nums := make([]int, len(p.contents))
		for i := range p.contents {
			nums[i] = alloc()
		}
		l.contents = append(l.contents, nums)
		l.pages = append(l.pages, alloc())
	}
	return l
}

// fontResources returns the font resource names in order.
func (d *Document) fontResources() []string {
	names := make([]string, 0, len(d.fonts))
	for _, res := range d.fonts {
		names = append(names, res)
	}
	sort.Slice(names, func(i, j int) bool {
		return len(names[i]) < len(names[j]) || len(names[i]) == len(names[j]) && names[i] < names[j]
	})
	return names
}

type objWriter struct {
	buf     bytes.Buffer
	offsets map[int]int
}

func (w *objWriter) object(num int, body string) {
	w.offsets[num] = w.buf.Len()
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", num, body)
}

func (w *objWriter) stream(num int, dict map[string]string, data []byte) {
	dict["Length"] = fmt.Sprint(len(data))
	w.offsets[num] = w.buf.Len()
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nstream\n", num, serializeDict(dict))
	w.buf.Write(data)
	w.buf.WriteString("\nendstream\nendobj\n")
}

func ref(num int) string { return fmt.Sprintf("%d 0 R", num) }

func serializeDict(kv map[string]string) string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("<<")
	for _, k := range keys {
		b.WriteString("/" + k + " " + kv[k])
	}
	b.WriteString(">>")
	return b.String()
}

// WriteTo serializes the document as PDF 1.7.
func (d *Document) WriteTo(out io.Writer) (int64, error) {
	if d.closed {
		return 0, ErrClosed
	}
	for i, p := range d.pages {
		if p.open {
			return 0, fmt.Errorf("%w: page %d", ErrSurfaceOpen, i)
		}
	}
	if len(d.pages) == 0 {
		return 0, fmt.Errorf("pdfdoc: document has no pages")
	}
	l := d.plan()
	w := &objWriter{offsets: make(map[int]int)}
	w.buf.WriteString("%PDF-1.7\n%\xE2\xE3\xCF\xD3\n")

	w.object(catalogNum, serializeDict(map[string]string{
		"Type":  "/Catalog",
		"Pages": ref(pagesNum),
	}))
	kids := make([]string, len(l.pages))
	for i, n := range l.pages {
		kids[i] = ref(n)
	}
	w.object(pagesNum, serializeDict(map[string]string{
		"Type":  "/Pages",
		"Count": fmt.Sprint(len(l.pages)),
		"Kids":  "[" + strings.Join(kids, " ") + "]",
	}))
	info := map[string]string{"Producer": literal(d.producer, "pdftable")}
	if d.title != "" {
		info["Title"] = literal(d.title, "")
	}
	w.object(infoNum, serializeDict(info))

	bases := make(map[string]string, len(d.fonts))
	for base, res := range d.fonts {
		bases[res] = base
	}
	for _, res := range d.fontResources() {
		w.object(l.fonts[res], serializeDict(map[string]string{
			"Type":     "/Font",
			"Subtype":  "/Type1",
			"BaseFont": contentstream.Name(bases[res]).String(),
			"Encoding": "/WinAnsiEncoding",
		}))
	}
	for _, img := range d.order {
		dict := map[string]string{
			"Type":             "/XObject",
			"Subtype":          "/Image",
			"Width":            fmt.Sprint(img.width),
			"Height":           fmt.Sprint(img.height),
			"ColorSpace":       "/DeviceRGB",
			"BitsPerComponent": "8",
			"Filter":           "/FlateDecode",
		}
		if img.alpha != nil {
			dict["SMask"] = ref(l.smasks[img])
		}
		w.stream(l.images[img], dict, img.rgb)
		if img.alpha != nil {
			w.stream(l.smasks[img], map[string]string{
				"Type":             "/XObject",
				"Subtype":          "/Image",
				"Width":            fmt.Sprint(img.width),
				"Height":           fmt.Sprint(img.height),
				"ColorSpace":       "/DeviceGray",
				"BitsPerComponent": "8",
				"Filter":           "/FlateDecode",
			}, img.alpha)
		}
	}

	for i, p := range d.pages {
		contents := make([]string, len(p.contents))
		for j, s := range p.contents {
			dict := map[string]string{}
			if s.compressed {
				dict["Filter"] = "/FlateDecode"
			}
			w.stream(l.contents[i][j], dict, s.data)
			contents[j] = ref(l.contents[i][j])
		}
		page := map[string]string{
			"Type":      "/Page",
			"Parent":    ref(pagesNum),
			"MediaBox":  "[0 0 " + contentstream.FormatNumber(p.width) + " " + contentstream.FormatNumber(p.height) + "]",
			"Resources": d.resources(p, l),
		}
		if len(contents) > 0 {
			page["Contents"] = "[" + strings.Join(contents, " ") + "]"
		}
		w.object(l.pages[i], serializeDict(page))
	}

	xrefOffset := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", l.next)
	w.buf.WriteString("0000000000 65535 f \n")
	for i := 1; i < l.next; i++ {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", w.offsets[i])
	}
	fmt.Fprintf(&w.buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", serializeDict(map[string]string{
		"Size": fmt.Sprint(l.next),
		"Root": ref(catalogNum),
		"Info": ref(infoNum),
	}), xrefOffset)

	d.logger.Debug("document written",
		observability.Int("pages", len(d.pages)),
		observability.Int("fonts", len(d.fonts)),
		observability.Int("images", len(d.order)),
		observability.Int("bytes", w.buf.Len()))
	n, err := out.Write(w.buf.Bytes())
	return int64(n), err
}

func (d *Document) resources(p *Page, l *layout) string {
	res := map[string]string{}
	if len(p.fonts) > 0 {
		fonts := map[string]string{}
		for f := range p.fonts {
			fonts[f] = ref(l.fonts[f])
		}
		res["Font"] = serializeDict(fonts)
	}
	if len(p.images) > 0 {
		xobjects := map[string]string{}
		for img := range p.images {
			xobjects[img.name] = ref(l.images[img])
		}
		res["XObject"] = serializeDict(xobjects)
	}
	return serializeDict(res)
}

func literal(v, fallback string) string {
	if v == "" {
		v = fallback
	}
	enc, err := winAnsi(v)
	if err != nil {
		enc = []byte(fallback)
	}
	return string(contentstream.EscapeLiteral(enc))
}

// Close releases the document. Every later call fails with ErrClosed.
func (d *Document) Close() error {
	if d.closed {
		return ErrClosed
	}
	d.closed = true
	d.pages = nil
	d.images = nil
	d.order = nil
	return nil
}
