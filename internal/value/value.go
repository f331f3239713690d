package value

// Value is one node of a parsed parameter tree. The set of implementations
// is closed: Null, Bool, Int, Float, Bareword, String, List, Tuple, *Map.
type Value interface {
	// String renders the value as dialect text; see Encode.
	String() string

	value()
}

// Null is the parse of the keyword None.
type Null struct{}

// Bool is the parse of the keywords True and False.
type Bool bool

// Int is a whole-number literal.
type Int int64

// Float is a numeric literal with a fractional part.
type Float float64

// Bareword is an unquoted identifier that is not a reserved keyword. It is
// kept distinct from String because it is the primary macro-substitution
// trigger.
type Bareword string

// String is a quote-delimited literal with escape sequences decoded.
type String string

// List is a [...] container.
type List []Value

// Tuple is a (...) container. Element grammar is identical to List; only
// the delimiter and the kind differ.
type Tuple []Value

func (Null) value()     {}
func (Bool) value()     {}
func (Int) value()      {}
func (Float) value()    {}
func (Bareword) value() {}
func (String) value()   {}
func (List) value()     {}
func (Tuple) value()    {}
func (*Map) value()     {}

// Copy returns a deep structural copy of v. Scalars are returned as-is;
// containers are rebuilt so the result shares no mutable state with v.
func Copy(v Value) Value {
	switch t := v.(type) {
	case List:
		out := make(List, len(t))
		for i, e := range t {
			out[i] = Copy(e)
		}
		return out
	case Tuple:
		out := make(Tuple, len(t))
		for i, e := range t {
			out[i] = Copy(e)
		}
		return out
	case *Map:
		out := NewMap()
		for _, e := range t.Entries() {
			out.Set(e.Key, Copy(e.Value))
		}
		return out
	default:
		return v
	}
}

// Equal reports deep structural equality. Kinds never compare equal across
// each other: Int(1) != Float(1), Bareword("x") != String("x"). Map equality
// includes key order.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && x == y
	case Bareword:
		y, ok := b.(Bareword)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case List:
		y, ok := b.(List)
		return ok && equalSeq(x, []Value(y))
	case Tuple:
		y, ok := b.(Tuple)
		return ok && equalSeq(x, []Value(y))
	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		xe, ye := x.Entries(), y.Entries()
		for i := range xe {
			if xe[i].Key != ye[i].Key || !Equal(xe[i].Value, ye[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func equalSeq(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
