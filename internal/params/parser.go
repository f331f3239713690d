package params

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/uspexdb/internal/value"
)

// valueExpected is the alternative set reported when no matcher accepts
// the current position as the start of a value.
var valueExpected = []string{
	"bareword", "string", "number", "object", "array", "tuple",
	"True", "False", "None",
}

// Parse reads a single document from src and returns its value tree. The
// root must be an object, array, or tuple surrounded only by whitespace
// and comments. filename is used solely to tag error ranges.
func Parse(filename string, src []byte) (value.Value, error) {
	p := &parser{filename: filename, src: src, line: 1, col: 1}
	if err := p.skipTrivia(); err != nil {
		return nil, err
	}
	var root value.Value
	var err error
	switch p.peek() {
	case '{':
		root, err = p.parseMap()
	case '[':
		elems, seqErr := p.parseSeq('[', ']')
		root, err = value.List(elems), seqErr
	case '(':
		elems, seqErr := p.parseSeq('(', ')')
		root, err = value.Tuple(elems), seqErr
	default:
		return nil, p.errHere(ErrLexical, "document root must be an object, array, or tuple", "'{'", "'['", "'('")
	}
	if err != nil {
		return nil, err
	}
	if err := p.skipTrivia(); err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errHere(ErrTrailing, "")
	}
	return root, nil
}

type parser struct {
	filename string
	src      []byte
	pos      int
	line     int
	col      int
}

// mark is a saved cursor position; restoring one is how a failed
// alternative backs out without side effects.
type mark struct{ pos, line, col int }

func (p *parser) save() mark { return mark{p.pos, p.line, p.col} }

func (p *parser) atEnd() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(n int) byte {
	if p.pos+n >= len(p.src) {
		return 0
	}
	return p.src[p.pos+n]
}

func (p *parser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return c
}

func (p *parser) position() hcl.Pos {
	return hcl.Pos{Line: p.line, Column: p.col, Byte: p.pos}
}

func (p *parser) errHere(kind ErrKind, detail string, expected ...string) *Error {
	start := p.position()
	end := start
	if !p.atEnd() {
		end = hcl.Pos{Line: start.Line, Column: start.Column + 1, Byte: start.Byte + 1}
	}
	return &Error{
		Kind:     kind,
		Range:    hcl.Range{Filename: p.filename, Start: start, End: end},
		Expected: expected,
		Detail:   detail,
	}
}

func (p *parser) errAt(m mark, kind ErrKind, detail string) *Error {
	start := hcl.Pos{Line: m.line, Column: m.col, Byte: m.pos}
	end := hcl.Pos{Line: m.line, Column: m.col + 1, Byte: m.pos + 1}
	return &Error{
		Kind:   kind,
		Range:  hcl.Range{Filename: p.filename, Start: start, End: end},
		Detail: detail,
	}
}

func (p *parser) errSpan(m mark, kind ErrKind, detail string) *Error {
	return &Error{
		Kind: kind,
		Range: hcl.Range{
			Filename: p.filename,
			Start:    hcl.Pos{Line: m.line, Column: m.col, Byte: m.pos},
			End:      p.position(),
		},
		Detail: detail,
	}
}

func isHoriz(c byte) bool { return c == ' ' || c == '\t' || c == '\v' || c == '\f' }

func isVert(c byte) bool { return isHoriz(c) || c == '\r' || c == '\n' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isWordChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_' || c == '.'
}

// skipTrivia discards vertical whitespace and block comments. Comments are
// legal at every position where skipTrivia is called: around values, keys,
// and container delimiters.
func (p *parser) skipTrivia() error {
	for {
		for !p.atEnd() && isVert(p.peek()) {
			p.advance()
		}
		if p.peek() != '/' || p.peekAt(1) != '*' {
			return nil
		}
		open := p.save()
		p.advance()
		p.advance()
		closed := false
		for !p.atEnd() {
			if p.peek() == '*' && p.peekAt(1) == '/' {
				p.advance()
				p.advance()
				closed = true
				break
			}
			p.advance()
		}
		if !closed {
			return p.errAt(open, ErrLexical, "comment opened here is never closed")
		}
	}
}

// parseValue tries each grammar alternative in order at the current
// position. The first byte of each alternative is disjoint from the
// others, so a single dispatch is equivalent to the ordered choice.
func (p *parser) parseValue() (value.Value, error) {
	if err := p.skipTrivia(); err != nil {
		return nil, err
	}
	c := p.peek()
	switch {
	case isLetter(c):
		return p.parseWord(), nil
	case c == '"' || c == '\'':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return value.String(s), nil
	case c == '-' || isDigit(c):
		return p.parseNumber()
	case c == '{':
		return p.parseMap()
	case c == '[':
		elems, err := p.parseSeq('[', ']')
		if err != nil {
			return nil, err
		}
		return value.List(elems), nil
	case c == '(':
		elems, err := p.parseSeq('(', ')')
		if err != nil {
			return nil, err
		}
		return value.Tuple(elems), nil
	}
	return nil, p.errHere(ErrLexical, "expected a value", valueExpected...)
}

// parseWord scans an identifier and classifies it. Keywords are matched on
// the exact spelling after the longest identifier scan, so Truesomething
// is a bareword, never True followed by leftover text.
func (p *parser) parseWord() value.Value {
	word := p.scanIdent()
	switch word {
	case "True":
		return value.Bool(true)
	case "False":
		return value.Bool(false)
	case "None":
		return value.Null{}
	}
	return value.Bareword(word)
}

func (p *parser) scanIdent() string {
	start := p.pos
	for !p.atEnd() && isWordChar(p.peek()) {
		p.advance()
	}
	return string(p.src[start:p.pos])
}

// parseString decodes a quoted literal. The closing delimiter must match
// the opening one; the other quote character is plain content. Only the
// opening quote's kind may appear as an escaped quote.
func (p *parser) parseString() (string, error) {
	open := p.save()
	quote := p.advance()
	var out []byte
	for {
		if p.atEnd() {
			return "", p.errAt(open, ErrUnterminatedString, "string opened here is never closed")
		}
		c := p.advance()
		switch {
		case c == quote:
			return string(out), nil
		case c == '\\':
			dec, err := p.decodeEscape(quote)
			if err != nil {
				return "", err
			}
			out = append(out, dec...)
		default:
			out = append(out, c)
		}
	}
}

func (p *parser) decodeEscape(quote byte) ([]byte, error) {
	escStart := mark{p.pos - 1, p.line, p.col - 1}
	if p.atEnd() {
		return nil, p.errAt(escStart, ErrUnterminatedString, "incomplete escape sequence")
	}
	c := p.advance()
	switch c {
	case '\\', '/', quote:
		return []byte{c}, nil
	case 'b':
		return []byte{'\b'}, nil
	case 'f':
		return []byte{'\f'}, nil
	case 'n':
		return []byte{'\n'}, nil
	case 'r':
		return []byte{'\r'}, nil
	case 't':
		return []byte{'\t'}, nil
	case 'u':
		var v rune
		for i := 0; i < 4; i++ {
			h := p.peek()
			switch {
			case h >= '0' && h <= '9':
				v = v<<4 | rune(h-'0')
			case h >= 'a' && h <= 'f':
				v = v<<4 | rune(h-'a'+10)
			case h >= 'A' && h <= 'F':
				v = v<<4 | rune(h-'A'+10)
			default:
				return nil, p.errSpan(escStart, ErrUnterminatedString, "\\u escape requires four hex digits")
			}
			p.advance()
		}
		return []byte(string(v)), nil
	}
	return nil, p.errSpan(escStart, ErrUnterminatedString, fmt.Sprintf("invalid escape sequence \\%c", c))
}

// parseNumber scans an int or float literal. The float alternative needs a
// mandatory fractional part, and the exponent is only consumed after one,
// so 1e5 parses as the integer 1 followed by the bareword e5.
func (p *parser) parseNumber() (value.Value, error) {
	start := p.save()
	if p.peek() == '-' {
		p.advance()
	}
	if !isDigit(p.peek()) {
		return nil, p.errHere(ErrLexical, "expected digits after '-'")
	}
	if p.peek() == '0' {
		p.advance()
	} else {
		for isDigit(p.peek()) {
			p.advance()
		}
	}
	isFloat := false
	if p.peek() == '.' && isDigit(p.peekAt(1)) {
		isFloat = true
		p.advance()
		for isDigit(p.peek()) {
			p.advance()
		}
		if c := p.peek(); c == 'e' || c == 'E' {
			n := 1
			if s := p.peekAt(1); s == '+' || s == '-' {
				n = 2
			}
			if isDigit(p.peekAt(n)) {
				for i := 0; i < n; i++ {
					p.advance()
				}
				for isDigit(p.peek()) {
					p.advance()
				}
			}
		}
	}
	text := string(p.src[start.pos:p.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errSpan(start, ErrLexical, "malformed number "+text)
		}
		return value.Float(f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errSpan(start, ErrLexical, "integer out of range: "+text)
	}
	return value.Int(n), nil
}

func (p *parser) parseMap() (*value.Map, error) {
	open := p.save()
	p.advance()
	m := value.NewMap()
	for {
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if p.atEnd() {
			return nil, p.errAt(open, ErrUnterminatedContainer, "object opened here is never closed")
		}
		if p.peek() == '}' {
			p.advance()
			return m, nil
		}
		keyMark := p.save()
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		if m.Has(key) {
			return nil, p.errSpan(keyMark, ErrDuplicateKey, fmt.Sprintf("key %q is already set in this object", key))
		}
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if p.peek() != ':' {
			return nil, p.errHere(ErrLexical, "", "':'")
		}
		p.advance()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if p.peek() == ',' {
			p.advance()
		}
	}
}

func (p *parser) parseKey() (string, error) {
	c := p.peek()
	if c == '"' || c == '\'' {
		return p.parseString()
	}
	if !isLetter(c) {
		return "", p.errHere(ErrLexical, "", "object key (bareword or string)")
	}
	keyMark := p.save()
	word := p.scanIdent()
	if word == "True" || word == "False" || word == "None" {
		return "", p.errSpan(keyMark, ErrLexical, fmt.Sprintf("keyword %s cannot be an object key; quote it", word))
	}
	return word, nil
}

// parseSeq reads the elements between a matching bracket pair. Elements
// are separated by a comma, bare vertical whitespace, or nothing at all;
// a trailing comma before the closer is tolerated.
func (p *parser) parseSeq(opener, closer byte) ([]value.Value, error) {
	open := p.save()
	p.advance()
	elems := []value.Value{}
	for {
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if p.atEnd() {
			return nil, p.errAt(open, ErrUnterminatedContainer,
				fmt.Sprintf("container opened with %q here is never closed", string(opener)))
		}
		if p.peek() == closer {
			p.advance()
			return elems, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if p.peek() == ',' {
			p.advance()
		}
	}
}
