// Package contentstreamtest decodes the content streams written by package
// contentstream so tests can check what a page draws.
package contentstreamtest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wudi/pdftable/contentstream"
)

// ErrSyntax is returned for malformed content streams.
var ErrSyntax = errors.New("contentstream: syntax error")

const delimiters = "()<>[]{}/%"

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isRegular(ch byte) bool {
	return !isSpace(ch) && strings.IndexByte(delimiters, ch) < 0
}

// Parse decodes a content stream into operations. Dictionaries and inline
// images are not supported.
func Parse(stream []byte) ([]contentstream.Operation, error) {
	p := &parser{src: stream}
	var ops []contentstream.Operation
	var operands []contentstream.Operand
	var arrays []contentstream.Array
	push := func(o contentstream.Operand) {
		if n := len(arrays); n > 0 {
			arrays[n-1] = append(arrays[n-1], o)
			return
		}
		operands = append(operands, o)
	}
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		ch := p.src[p.pos]
		switch {
		case ch == '(':
			s, err := p.literal()
			if err != nil {
				return nil, err
			}
			push(s)
		case ch == '/':
			p.pos++
			push(contentstream.Name(p.name()))
		case ch == '[':
			p.pos++
			arrays = append(arrays, contentstream.Array{})
		case ch == ']':
			p.pos++
			n := len(arrays)
			if n == 0 {
				return nil, fmt.Errorf("%w: unbalanced ] at %d", ErrSyntax, p.pos-1)
			}
			arr := arrays[n-1]
			arrays = arrays[:n-1]
			push(arr)
		case ch == '<':
			s, err := p.hexString()
			if err != nil {
				return nil, err
			}
			push(s)
		case strings.IndexByte("+-.0123456789", ch) >= 0:
			tok := p.word()
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrSyntax, tok)
			}
			push(contentstream.Number(v))
		case isRegular(ch):
			if len(arrays) > 0 {
				return nil, fmt.Errorf("%w: operator inside array at %d", ErrSyntax, p.pos)
			}
			ops = append(ops, contentstream.Operation{Operator: p.word(), Operands: operands})
			operands = nil
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, ch, p.pos)
		}
	}
	if len(arrays) > 0 {
		return nil, fmt.Errorf("%w: unterminated array", ErrSyntax)
	}
	if len(operands) > 0 {
		return nil, fmt.Errorf("%w: dangling operands: %d", ErrSyntax, len(operands))
	}
	return ops, nil
}

type parser struct {
	src []byte
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpace() {
	for !p.eof() {
		ch := p.src[p.pos]
		if ch == '%' {
			for !p.eof() && p.src[p.pos] != '\n' && p.src[p.pos] != '\r' {
				p.pos++
			}
			continue
		}
		if !isSpace(ch) {
			return
		}
		p.pos++
	}
}

func (p *parser) word() string {
	start := p.pos
	for !p.eof() && isRegular(p.src[p.pos]) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

func (p *parser) name() string {
	raw := p.word()
	if !strings.Contains(raw, "#") {
		return raw
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '#' && i+2 < len(raw) {
			if v, err := strconv.ParseUint(raw[i+1:i+3], 16, 8); err == nil {
				b.WriteByte(byte(v))
				i += 2
				continue
			}
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}

func (p *parser) literal() (contentstream.String, error) {
	p.pos++ // (
	var out []byte
	depth := 1
	for !p.eof() {
		ch := p.src[p.pos]
		p.pos++
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return contentstream.String(out), nil
			}
		case '\\':
			if p.eof() {
				return nil, fmt.Errorf("%w: unterminated string", ErrSyntax)
			}
			esc := p.src[p.pos]
			p.pos++
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r', '\n':
				// line continuation
				if esc == '\r' && !p.eof() && p.src[p.pos] == '\n' {
					p.pos++
				}
			default:
				if esc >= '0' && esc <= '7' {
					v := int(esc - '0')
					for k := 0; k < 2 && !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '7'; k++ {
						v = v*8 + int(p.src[p.pos]-'0')
						p.pos++
					}
					out = append(out, byte(v))
					continue
				}
				out = append(out, esc)
			}
			continue
		}
		out = append(out, ch)
	}
	return nil, fmt.Errorf("%w: unterminated string", ErrSyntax)
}

func (p *parser) hexString() (contentstream.String, error) {
	p.pos++ // <
	if !p.eof() && p.src[p.pos] == '<' {
		return nil, fmt.Errorf("%w: dictionaries are not supported", ErrSyntax)
	}
	end := strings.IndexByte(string(p.src[p.pos:]), '>')
	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated hex string", ErrSyntax)
	}
	digits := strings.Map(func(r rune) rune {
		if isSpace(byte(r)) {
			return -1
		}
		return r
	}, string(p.src[p.pos:p.pos+end]))
	p.pos += end + 1
	if len(digits)%2 == 1 {
		digits += "0"
	}
	out, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return contentstream.String(out), nil
}
