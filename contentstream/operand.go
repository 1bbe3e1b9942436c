// Package contentstream encodes PDF page content streams: the
// postfix operator language (operands followed by an operator) that paints a
// page.
package contentstream

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Operand is one argument of a content stream operator.
type Operand interface {
	Type() string
	appendTo(buf []byte) []byte
}

// Number is a numeric operand.
type Number float64

// Type implements Operand.
func (Number) Type() string { return "number" }

func (n Number) appendTo(buf []byte) []byte {
	return append(buf, FormatNumber(float64(n))...)
}

// Name is a PDF name such as /F1. The slash is not part of the value.
type Name string

// Type implements Operand.
func (Name) Type() string { return "name" }

// String returns the name in PDF syntax, slash included.
func (n Name) String() string { return string(n.appendTo(nil)) }

func (n Name) appendTo(buf []byte) []byte {
	buf = append(buf, '/')
	for i := 0; i < len(n); i++ {
		ch := n[i]
		if ch < '!' || ch > '~' || strings.IndexByte("()<>[]{}/%#", ch) >= 0 {
			buf = append(buf, fmt.Sprintf("#%02X", ch)...)
			continue
		}
		buf = append(buf, ch)
	}
	return buf
}

// String is a literal string operand.
type String []byte

// Type implements Operand.
func (String) Type() string { return "string" }

func (s String) appendTo(buf []byte) []byte {
	return append(buf, EscapeLiteral(s)...)
}

// Array is an array operand.
type Array []Operand

// Type implements Operand.
func (Array) Type() string { return "array" }

func (a Array) appendTo(buf []byte) []byte {
	buf = append(buf, '[')
	for i, it := range a {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = it.appendTo(buf)
	}
	return append(buf, ']')
}

// Numbers converts values to an Array of Number operands.
func Numbers(values ...float64) Array {
	arr := make(Array, len(values))
	for i, v := range values {
		arr[i] = Number(v)
	}
	return arr
}

// FormatNumber writes v in plain decimal notation with at most four
// fractional digits. PDF has no exponent syntax.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

// EscapeLiteral returns raw as a parenthesized PDF literal string.
func EscapeLiteral(raw []byte) []byte {
	var b bytes.Buffer
	b.WriteByte('(')
	for _, ch := range raw {
		switch ch {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(ch)
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		case '\b':
			b.WriteString("\\b")
		case '\f':
			b.WriteString("\\f")
		default:
			if ch < 0x20 || ch >= 0x80 {
				fmt.Fprintf(&b, "\\%03o", ch)
			} else {
				b.WriteByte(ch)
			}
		}
	}
	b.WriteByte(')')
	return b.Bytes()
}
