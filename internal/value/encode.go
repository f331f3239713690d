package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Encode renders v as dialect text. Re-parsing the result yields a tree
// Equal to v, including map key order.
func Encode(v Value) string {
	var sb strings.Builder
	encode(&sb, v)
	return sb.String()
}

func (Null) String() string { return "None" }

func (v Bareword) String() string { return string(v) }

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

func (v Bool) String() string {
	if v {
		return "True"
	}
	return "False"
}

func (v Float) String() string {
	s := strconv.FormatFloat(float64(v), 'g', -1, 64)
	// The grammar requires a fractional part on floats, and the exponent is
	// only valid after one.
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		if !strings.Contains(s[:i], ".") {
			s = s[:i] + ".0" + s[i:]
		}
	} else if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (v String) String() string { return quote(string(v)) }
func (v List) String() string   { return Encode(v) }
func (v Tuple) String() string  { return Encode(v) }
func (m *Map) String() string   { return Encode(m) }

func encode(sb *strings.Builder, v Value) {
	switch t := v.(type) {
	case List:
		sb.WriteByte('[')
		encodeSeq(sb, t)
		sb.WriteByte(']')
	case Tuple:
		sb.WriteByte('(')
		encodeSeq(sb, t)
		sb.WriteByte(')')
	case *Map:
		sb.WriteByte('{')
		for i, e := range t.Entries() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(encodeKey(e.Key))
			sb.WriteString(": ")
			encode(sb, e.Value)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString(v.String())
	}
}

func encodeSeq(sb *strings.Builder, elems []Value) {
	for i, e := range elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		encode(sb, e)
	}
}

// encodeKey emits key bare when it lexes as a bareword, quoted otherwise.
func encodeKey(key string) string {
	if IsBareword(key) {
		return key
	}
	return quote(key)
}

// IsBareword reports whether s lexes as a single bareword token: a letter
// followed by letters, digits, '-', '_', or '.', and not one of the
// reserved keyword spellings.
func IsBareword(s string) bool {
	if s == "" || s == "True" || s == "False" || s == "None" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '-' || c == '_' || c == '.'):
		default:
			return false
		}
	}
	return true
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
