package macro

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/uspexdb/internal/params"
	"github.com/vk/uspexdb/internal/value"
)

// Marker introduces a named section. Everything before the first marker is
// the preamble; each section runs to the next marker or end of input.
const Marker = "#define "

// MaxDepth bounds nested macro expansion. Definitions may reference each
// other, but a chain longer than this (in practice, a self- or mutually-
// recursive definition) fails with a CycleError instead of exhausting the
// stack.
const MaxDepth = 64

// nameKey is the reserved origin-tracking key. It is set on every map
// produced by an expansion and is exempt from substitution, otherwise a
// map tagged with its own macro name would expand forever.
const nameKey = "name"

// Section is one #define block of a document.
type Section struct {
	Name   string // first line after the marker, trimmed
	Body   string // remainder, parsed as a document of its own
	Offset int    // byte offset of Body within the source
}

// Document is a fully resolved parameter file.
type Document struct {
	Root value.Value

	// Definitions maps each macro name to its parsed (unsubstituted)
	// value, kept for inspection; Names preserves definition order.
	Definitions map[string]value.Value
	Names       []string
}

// Error tags a section's failure with the section name so a bad document
// is attributable: "preamble" for the leading segment, the macro name
// otherwise.
type Error struct {
	Section string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("section %q: %v", e.Section, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CycleError reports that expansion exceeded MaxDepth while substituting
// Name, which indicates a directly or transitively self-referencing
// definition.
type CycleError struct {
	Name  string
	Depth int
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("macro %q: expansion exceeded depth %d; definition cycle", e.Name, e.Depth)
}

// Split cuts src at every Marker occurrence. The split is purely literal:
// a marker inside a quoted string still splits.
func Split(src string) (preamble string, sections []Section) {
	end := strings.Index(src, Marker)
	if end < 0 {
		return src, nil
	}
	preamble = src[:end]
	pos := end
	for pos < len(src) {
		pos += len(Marker)
		next := strings.Index(src[pos:], Marker)
		var chunk string
		if next < 0 {
			chunk = src[pos:]
		} else {
			chunk = src[pos : pos+next]
		}
		name, body, found := strings.Cut(chunk, "\n")
		offset := pos + len(name)
		if found {
			offset++
		}
		sections = append(sections, Section{
			Name:   strings.TrimSpace(name),
			Body:   body,
			Offset: offset,
		})
		if next < 0 {
			break
		}
		pos += next
	}
	return preamble, sections
}

// Resolve parses src and substitutes every macro reference in the
// preamble. filename only tags parse-error ranges.
func Resolve(filename string, src []byte) (*Document, error) {
	text := string(src)
	preamble, sections := Split(text)

	defs := make(map[string]value.Value, len(sections))
	var names []string
	for _, s := range sections {
		v, err := params.Parse(filename, []byte(s.Body))
		if err != nil {
			return nil, &Error{Section: s.Name, Err: shiftRange(err, text, s.Offset)}
		}
		if _, redefined := defs[s.Name]; !redefined {
			names = append(names, s.Name)
		}
		defs[s.Name] = v
	}

	root, err := params.Parse(filename, []byte(preamble))
	if err != nil {
		return nil, &Error{Section: "preamble", Err: err}
	}

	sub := substituter{
		defs: defs,
		skip: map[string]struct{}{nameKey: {}},
	}
	resolved, err := sub.apply(root, 0)
	if err != nil {
		return nil, err
	}
	return &Document{Root: resolved, Definitions: defs, Names: names}, nil
}

// shiftRange rebases a parse error from section-body coordinates to whole-
// document coordinates, so diagnostics render against the real file. A
// section body always starts right after a newline, so columns carry over
// unchanged.
func shiftRange(err error, src string, offset int) error {
	var perr *params.Error
	if !errors.As(err, &perr) || offset <= 0 {
		return err
	}
	delta := strings.Count(src[:offset], "\n")
	perr.Range.Start = shiftPos(perr.Range.Start, delta, offset)
	perr.Range.End = shiftPos(perr.Range.End, delta, offset)
	return err
}

func shiftPos(p hcl.Pos, delta, offset int) hcl.Pos {
	p.Line += delta
	p.Byte += offset
	return p
}

// substituter is a structural visitor over a value tree, parameterized by
// the definition table and the set of map keys it must not descend into.
type substituter struct {
	defs map[string]value.Value
	skip map[string]struct{}
}

// apply walks v top-down, replacing matching leaves. depth counts nested
// expansions, not tree levels: it only grows when a substitution recurses
// into the substituted copy.
func (s *substituter) apply(v value.Value, depth int) (value.Value, error) {
	switch t := v.(type) {
	case value.Bareword:
		return s.expand(string(t), v, depth)
	case value.String:
		return s.expand(string(t), v, depth)
	case value.List:
		out := make(value.List, len(t))
		for i, e := range t {
			r, err := s.apply(e, depth)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case value.Tuple:
		out := make(value.Tuple, len(t))
		for i, e := range t {
			r, err := s.apply(e, depth)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case *value.Map:
		out := value.NewMap()
		for _, e := range t.Entries() {
			if _, skipped := s.skip[e.Key]; skipped {
				out.Set(e.Key, e.Value)
				continue
			}
			r, err := s.apply(e.Value, depth)
			if err != nil {
				return nil, err
			}
			out.Set(e.Key, r)
		}
		return out, nil
	default:
		return v, nil
	}
}

// expand substitutes one leaf. A name that resolves expands to a deep copy
// of its definition; a map copy is tagged with the macro name before the
// copy itself is resolved, so macros referencing other macros settle in a
// single pass.
func (s *substituter) expand(name string, orig value.Value, depth int) (value.Value, error) {
	def, ok := s.defs[name]
	if !ok {
		return orig, nil
	}
	if depth >= MaxDepth {
		return nil, &CycleError{Name: name, Depth: depth}
	}
	expanded := value.Copy(def)
	if m, ok := expanded.(*value.Map); ok {
		m.Set(nameKey, value.String(name))
	}
	return s.apply(expanded, depth+1)
}
