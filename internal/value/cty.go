package value

import "github.com/zclconf/go-cty/cty"

// ToCty converts v into the cty value vocabulary, which is what the dump
// path and any HCL-adjacent tooling consume. Maps become objects (cty
// objects carry no key order), lists and tuples both become cty tuples
// because their elements are heterogeneous.
func ToCty(v Value) cty.Value {
	switch t := v.(type) {
	case Null:
		return cty.NullVal(cty.DynamicPseudoType)
	case Bool:
		return cty.BoolVal(bool(t))
	case Int:
		return cty.NumberIntVal(int64(t))
	case Float:
		return cty.NumberFloatVal(float64(t))
	case Bareword:
		return cty.StringVal(string(t))
	case String:
		return cty.StringVal(string(t))
	case List:
		return ctySeq(t)
	case Tuple:
		return ctySeq(t)
	case *Map:
		if t.Len() == 0 {
			return cty.EmptyObjectVal
		}
		attrs := make(map[string]cty.Value, t.Len())
		for _, e := range t.Entries() {
			attrs[e.Key] = ToCty(e.Value)
		}
		return cty.ObjectVal(attrs)
	default:
		return cty.NilVal
	}
}

func ctySeq(elems []Value) cty.Value {
	if len(elems) == 0 {
		return cty.EmptyTupleVal
	}
	vals := make([]cty.Value, len(elems))
	for i, e := range elems {
		vals[i] = ToCty(e)
	}
	return cty.TupleVal(vals)
}
