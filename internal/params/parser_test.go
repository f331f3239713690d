package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/uspexdb/internal/value"
)

func mustParse(t *testing.T, src string) value.Value {
	t.Helper()
	v, err := Parse("test.uspex", []byte(src))
	require.NoError(t, err)
	return v
}

// first unwraps the single element of a parsed [x] wrapper, since a bare
// scalar is not a valid document root.
func first(t *testing.T, src string) value.Value {
	t.Helper()
	list, ok := mustParse(t, src).(value.List)
	require.True(t, ok)
	require.Len(t, list, 1)
	return list[0]
}

func TestParse_Scalars(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want value.Value
	}{
		{"int", "[42]", value.Int(42)},
		{"negative int", "[-7]", value.Int(-7)},
		{"zero", "[0]", value.Int(0)},
		{"max int64", "[9223372036854775807]", value.Int(9223372036854775807)},
		{"float", "[1.5]", value.Float(1.5)},
		{"negative float", "[-0.25]", value.Float(-0.25)},
		{"float with exponent", "[1.0e3]", value.Float(1000)},
		{"float with signed exponent", "[2.5E-2]", value.Float(0.025)},
		{"true", "[True]", value.Bool(true)},
		{"false", "[False]", value.Bool(false)},
		{"none", "[None]", value.Null{}},
		{"bareword", "[abinitio]", value.Bareword("abinitio")},
		{"bareword with punctuation", "[qe-7.2_rc]", value.Bareword("qe-7.2_rc")},
		{"double quoted", `["hello"]`, value.String("hello")},
		{"single quoted", "['hello']", value.String("hello")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := first(t, tc.src)
			assert.True(t, value.Equal(tc.want, got), "got %s", value.Encode(got))
		})
	}
}

func TestParse_KeywordPrecedence(t *testing.T) {
	// Exact spellings are keywords; a longer identifier that merely starts
	// with one is a bareword.
	assert.True(t, value.Equal(value.Bool(true), first(t, "[True]")))
	assert.True(t, value.Equal(value.Bareword("Truesomething"), first(t, "[Truesomething]")))
	assert.True(t, value.Equal(value.Bareword("NoneSuch"), first(t, "[NoneSuch]")))
}

func TestParse_NoExponentWithoutFraction(t *testing.T) {
	// The float alternative requires a fractional part, so 1e5 is the
	// integer 1 followed by the bareword e5.
	got := mustParse(t, "[1e5]")
	want := value.List{value.Int(1), value.Bareword("e5")}
	assert.True(t, value.Equal(want, got), "got %s", value.Encode(got))
}

func TestParse_LeadingZeroSplits(t *testing.T) {
	// The integer part is either 0 or a non-zero-leading digit run.
	got := mustParse(t, "[012]")
	want := value.List{value.Int(0), value.Int(12)}
	assert.True(t, value.Equal(want, got), "got %s", value.Encode(got))
}

func TestParse_StringEscapes(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{"newline", `["a\nb"]`, "a\nb"},
		{"tab and return", `["a\tb\r"]`, "a\tb\r"},
		{"backspace formfeed", `["\b\f"]`, "\b\f"},
		{"backslash", `["a\\b"]`, `a\b`},
		{"slash", `["a\/b"]`, "a/b"},
		{"escaped double quote", `["say \"hi\""]`, `say "hi"`},
		{"escaped single quote", `['it\'s']`, "it's"},
		{"other quote is plain", `["it's"]`, "it's"},
		{"unicode", `["Aé"]`, "Aé"},
		{"raw newline in body", "[\"a\nb\"]", "a\nb"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := first(t, tc.src)
			assert.True(t, value.Equal(value.String(tc.want), got), "got %s", value.Encode(got))
		})
	}
}

func TestParse_SeparatorEquivalence(t *testing.T) {
	want := mustParse(t, "[1, 2, 3]")
	equivalents := []string{
		"[1\n2\n3]",
		"[1,\n2,\n3]",
		"[ 1 , 2 , 3 ]",
		"[1, 2, 3,]",
		"[1 2 3]",
	}
	for _, src := range equivalents {
		got := mustParse(t, src)
		assert.True(t, value.Equal(want, got), "%q parsed as %s", src, value.Encode(got))
	}
}

func TestParse_CommentTransparency(t *testing.T) {
	want := mustParse(t, "{a: [1, 2], b: x}")
	equivalents := []string{
		"/* doc */ {a: [1, 2], b: x}",
		"{/* before key */ a: [1, 2], b: x}",
		"{a /* after key */: [1, 2], b: x}",
		"{a: /* before value */ [1, 2], b: x}",
		"{a: [/* in array */ 1, 2], b: x}",
		"{a: [1 /* between */, 2], b: x}",
		"{a: [1, 2] /* after value */, b: x}",
		"{a: [1, 2], b: x /* before close */}",
		"{a: [1, 2], b: x} /* after doc */",
		"{a: [1, 2],\n/* full line */\nb: x}",
	}
	for _, src := range equivalents {
		got, err := Parse("test.uspex", []byte(src))
		require.NoError(t, err, "src %q", src)
		assert.True(t, value.Equal(want, got), "%q parsed as %s", src, value.Encode(got))
	}
}

func TestParse_TupleAndListAreDistinct(t *testing.T) {
	list := mustParse(t, "[1, 2]")
	tuple := mustParse(t, "(1, 2)")
	require.IsType(t, value.List{}, list)
	require.IsType(t, value.Tuple{}, tuple)
	assert.False(t, value.Equal(list, tuple))
}

func TestParse_MapKeyOrderPreserved(t *testing.T) {
	m, ok := mustParse(t, "{zeta: 1, alpha: 2, mid: 3}").(*value.Map)
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
}

func TestParse_QuotedKeys(t *testing.T) {
	m, ok := mustParse(t, `{"a key": 1, 'other': 2}`).(*value.Map)
	require.True(t, ok)
	assert.Equal(t, []string{"a key", "other"}, m.Keys())
}

func TestParse_NestedDocument(t *testing.T) {
	src := `
{
    optimizer: {
        target: {
            compositionSpace: {symbols: [Mg, Si, O]
                               blocks: [[1, 1, 3]]}
        }
    }
    stages: (first, second)
}
`
	m, ok := mustParse(t, src).(*value.Map)
	require.True(t, ok)

	optimizer, ok := m.Get("optimizer")
	require.True(t, ok)
	target, ok := optimizer.(*value.Map).Get("target")
	require.True(t, ok)
	cs, ok := target.(*value.Map).Get("compositionSpace")
	require.True(t, ok)

	symbols, ok := cs.(*value.Map).Get("symbols")
	require.True(t, ok)
	wantSymbols := value.List{value.Bareword("Mg"), value.Bareword("Si"), value.Bareword("O")}
	assert.True(t, value.Equal(wantSymbols, symbols))

	stages, ok := m.Get("stages")
	require.True(t, ok)
	require.IsType(t, value.Tuple{}, stages)
}

func TestParse_RoundTrip(t *testing.T) {
	sources := []string{
		"{a: 1, b: [1.5, x, 'two words'], c: (True, None), d: {}}",
		"[{n: 1}, {n: 2}]",
		"({deep: [[[0]]]}, -3)",
		`{"quote\"d": "a\nb"}`,
	}
	for _, src := range sources {
		v := mustParse(t, src)
		again := mustParse(t, value.Encode(v))
		assert.True(t, value.Equal(v, again), "round-trip of %q changed the tree", src)
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		wantKind ErrKind
		wantByte int
	}{
		{"missing value after colon", "{a: }", ErrLexical, 4},
		{"unterminated object", "{a: 1", ErrUnterminatedContainer, 0},
		{"unterminated array", "[1, 2", ErrUnterminatedContainer, 0},
		{"unterminated tuple", "(1", ErrUnterminatedContainer, 0},
		{"unterminated string", "['abc]", ErrUnterminatedString, 1},
		{"invalid escape", `["a\qb"]`, ErrUnterminatedString, 3},
		{"wrong quote escape", `["a\'b"]`, ErrUnterminatedString, 3},
		{"trailing content", "{a: 1} x", ErrTrailing, 7},
		{"duplicate key", "{a: 1, a: 2}", ErrDuplicateKey, 7},
		{"scalar root", "5", ErrLexical, 0},
		{"bareword root", "abc", ErrLexical, 0},
		{"missing colon", "{a 1}", ErrLexical, 3},
		{"keyword as key", "{True: 1}", ErrLexical, 1},
		{"unterminated comment", "[1 /* oops", ErrLexical, 3},
		{"bare dash", "[-]", ErrLexical, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("test.uspex", []byte(tc.src))
			require.Error(t, err)
			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tc.wantKind, perr.Kind, "error: %v", perr)
			assert.Equal(t, tc.wantByte, perr.Range.Start.Byte, "error: %v", perr)
			assert.Equal(t, "test.uspex", perr.Range.Filename)
		})
	}
}

func TestParse_ErrorRendering(t *testing.T) {
	_, err := Parse("input.uspex", []byte("{a: 1\nb: }"))
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)

	assert.Equal(t, 2, perr.Range.Start.Line)
	assert.Contains(t, perr.Error(), "input.uspex:2,")

	diag := perr.Diagnostic()
	require.NotNil(t, diag.Subject)
	assert.Equal(t, "invalid syntax", diag.Summary)
}

func TestParse_LexicalErrorListsAlternatives(t *testing.T) {
	_, err := Parse("test.uspex", []byte("[:]"))
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrLexical, perr.Kind)
	assert.Contains(t, perr.Expected, "bareword")
	assert.Contains(t, perr.Expected, "tuple")
}
