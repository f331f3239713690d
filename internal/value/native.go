package value

import "github.com/goccy/go-yaml"

// Native converts v to plain Go values: nil, bool, int64, float64, string,
// []any, and map[string]any. Barewords become strings; map key order is
// lost (Go maps are unordered) — use ToMapSlice where order matters.
func Native(v Value) any {
	switch t := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(t)
	case Int:
		return int64(t)
	case Float:
		return float64(t)
	case Bareword:
		return string(t)
	case String:
		return string(t)
	case List:
		return nativeSeq(t)
	case Tuple:
		return nativeSeq(t)
	case *Map:
		out := make(map[string]any, t.Len())
		for _, e := range t.Entries() {
			out[e.Key] = Native(e.Value)
		}
		return out
	default:
		return nil
	}
}

func nativeSeq(elems []Value) []any {
	out := make([]any, len(elems))
	for i, e := range elems {
		out[i] = Native(e)
	}
	return out
}

// ToMapSlice converts v like Native, except maps become yaml.MapSlice so
// that marshalling to YAML preserves key insertion order.
func ToMapSlice(v Value) any {
	switch t := v.(type) {
	case List:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToMapSlice(e)
		}
		return out
	case Tuple:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToMapSlice(e)
		}
		return out
	case *Map:
		out := make(yaml.MapSlice, 0, t.Len())
		for _, e := range t.Entries() {
			out = append(out, yaml.MapItem{Key: e.Key, Value: ToMapSlice(e.Value)})
		}
		return out
	default:
		return Native(v)
	}
}
