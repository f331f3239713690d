package params

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// ErrKind classifies a parse failure.
type ErrKind int

const (
	// ErrLexical means no grammar alternative matched at the current
	// position. Expected lists the alternatives attempted.
	ErrLexical ErrKind = iota

	// ErrUnterminatedContainer means a '{', '[', or '(' has no matching
	// close before the input ends. The range points at the opener.
	ErrUnterminatedContainer

	// ErrUnterminatedString means a quote was never closed, or an escape
	// sequence after '\' is not part of the grammar.
	ErrUnterminatedString

	// ErrTrailing means the document root was followed by content that is
	// neither whitespace nor comment.
	ErrTrailing

	// ErrDuplicateKey means two pairs in the same map share a key.
	// Duplicates are rejected rather than resolved last-wins so that a
	// typo in a parameter file cannot silently drop a setting. The range
	// points at the second occurrence.
	ErrDuplicateKey
)

func (k ErrKind) String() string {
	switch k {
	case ErrLexical:
		return "invalid syntax"
	case ErrUnterminatedContainer:
		return "unterminated container"
	case ErrUnterminatedString:
		return "unterminated or invalid string"
	case ErrTrailing:
		return "trailing content after document root"
	case ErrDuplicateKey:
		return "duplicate object key"
	default:
		return "parse error"
	}
}

// Error is a structured parse failure. Range carries the byte offset and
// line/column of the failure in hcl's position vocabulary so callers can
// render it against the source with an hcl.DiagnosticWriter.
type Error struct {
	Kind     ErrKind
	Range    hcl.Range
	Expected []string
	Detail   string
}

func (e *Error) Error() string {
	return e.Range.String() + ": " + e.message()
}

func (e *Error) message() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Kind.String()
	}
	if len(e.Expected) > 0 {
		msg = fmt.Sprintf("%s; expected %s", msg, strings.Join(e.Expected, ", "))
	}
	return msg
}

// Diagnostic converts the error for rendering alongside other hcl
// diagnostics.
func (e *Error) Diagnostic() *hcl.Diagnostic {
	rng := e.Range
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  e.Kind.String(),
		Detail:   e.message(),
		Subject:  &rng,
	}
}
