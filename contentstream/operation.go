package contentstream

// Operation is an operator with its operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Op builds an Operation.
func Op(operator string, operands ...Operand) Operation {
	return Operation{Operator: operator, Operands: operands}
}

// Encode serializes operations, one per line.
func Encode(ops []Operation) []byte {
	if len(ops) == 0 {
		return nil
	}
	var buf []byte
	for _, op := range ops {
		for _, operand := range op.Operands {
			buf = operand.appendTo(buf)
			buf = append(buf, ' ')
		}
		buf = append(buf, op.Operator...)
		buf = append(buf, '\n')
	}
	return buf
}

// Builder accumulates the operations of one content stream.
type Builder struct {
	ops []Operation
}

// Operations returns the recorded operations.
func (b *Builder) Operations() []Operation { return b.ops }

// Len returns the number of recorded operations.
func (b *Builder) Len() int { return len(b.ops) }

// Bytes encodes the recorded operations.
func (b *Builder) Bytes() []byte { return Encode(b.ops) }

func (b *Builder) add(operator string, operands ...Operand) *Builder {
	b.ops = append(b.ops, Op(operator, operands...))
	return b
}

// Save pushes the graphics state (q).
func (b *Builder) Save() *Builder { return b.add("q") }

// Restore pops the graphics state (Q).
func (b *Builder) Restore() *Builder { return b.add("Q") }

// StrokeRGB sets the stroking color (RG).
func (b *Builder) StrokeRGB(r, g, bl float64) *Builder {
	return b.add("RG", Number(r), Number(g), Number(bl))
}

// FillRGB sets the non-stroking color (rg).
func (b *Builder) FillRGB(r, g, bl float64) *Builder {
	return b.add("rg", Number(r), Number(g), Number(bl))
}

// LineWidth sets the stroke width (w).
func (b *Builder) LineWidth(w float64) *Builder { return b.add("w", Number(w)) }

// Dash sets the dash pattern (d). An empty pattern is a solid line.
func (b *Builder) Dash(pattern []float64, phase float64) *Builder {
	return b.add("d", Numbers(pattern...), Number(phase))
}

// MoveTo begins a subpath (m).
func (b *Builder) MoveTo(x, y float64) *Builder { return b.add("m", Number(x), Number(y)) }

// LineTo appends a straight segment (l).
func (b *Builder) LineTo(x, y float64) *Builder { return b.add("l", Number(x), Number(y)) }

// Stroke paints the current path (S).
func (b *Builder) Stroke() *Builder { return b.add("S") }

// Rect appends a rectangle (re).
func (b *Builder) Rect(x, y, w, h float64) *Builder {
	return b.add("re", Number(x), Number(y), Number(w), Number(h))
}

// Fill fills the current path (f).
func (b *Builder) Fill() *Builder { return b.add("f") }

// BeginText opens a text object (BT).
func (b *Builder) BeginText() *Builder { return b.add("BT") }

// EndText closes a text object (ET).
func (b *Builder) EndText() *Builder { return b.add("ET") }

// Font selects a font resource and size (Tf).
func (b *Builder) Font(resource string, size float64) *Builder {
	return b.add("Tf", Name(resource), Number(size))
}

// TextMatrix sets the text matrix (Tm).
func (b *Builder) TextMatrix(a, bb, c, d, e, f float64) *Builder {
	return b.add("Tm", Number(a), Number(bb), Number(c), Number(d), Number(e), Number(f))
}

// ShowText shows a string (Tj).
func (b *Builder) ShowText(text []byte) *Builder { return b.add("Tj", String(text)) }

// Transform concatenates a matrix to the CTM (cm).
func (b *Builder) Transform(a, bb, c, d, e, f float64) *Builder {
	return b.add("cm", Number(a), Number(bb), Number(c), Number(d), Number(e), Number(f))
}

// XObject paints a named external object (Do).
func (b *Builder) XObject(resource string) *Builder { return b.add("Do", Name(resource)) }
