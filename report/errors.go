package report

import (
	"fmt"
	"strings"
)

// Kind classifies a diagnostic by the phase contract it violates.
type Kind int

// Enumeration of diagnostic kinds.
const (
	KindBuilder    Kind = iota // parse tree did not match the expected shape
	KindImport                 // unknown package/decl, shadowing conflict, ambiguous IOD
	KindResolution             // unresolved or illegal type name
	KindType                   // assignability, cast, or arity violation
	KindStaticUse              // this/static/instance misuse, forward reference
	KindInternal               // internal invariant failure
)

var kindNames = [...]string{
	"builder error",
	"import error",
	"resolution error",
	"type error",
	"static use error",
	"internal error",
}

func (k Kind) String() string {
	return kindNames[k]
}

// -----------------------------------------------------------------------------

// Severity of a diagnostic.
type Severity int

// Enumeration of severities.
const (
	SevError Severity = iota
	SevWarning
	SevDebug
)

// -----------------------------------------------------------------------------

// Diagnostic is a single compiler message: a severity, a kind, a source
// range, and a message built up by streaming parts into it.  A Diagnostic
// satisfies the error interface so evaluator hooks can return it directly.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Span     SourceRange

	parts []string
}

// Raise creates an error-severity diagnostic of the given kind over span.
// The message may be extended afterwards with Msg.
func Raise(kind Kind, span SourceRange, msg string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: SevError,
		Kind:     kind,
		Span:     span,
		parts:    []string{fmt.Sprintf(msg, args...)},
	}
}

// Warn creates a warning-severity diagnostic over span.
func Warn(span SourceRange, msg string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: SevWarning,
		Span:     span,
		parts:    []string{fmt.Sprintf(msg, args...)},
	}
}

// Msg appends another fragment to the diagnostic message and returns the
// diagnostic so calls can be chained like a stream.
func (d *Diagnostic) Msg(msg string, args ...interface{}) *Diagnostic {
	d.parts = append(d.parts, fmt.Sprintf(msg, args...))
	return d
}

// Message returns the full accumulated message.
func (d *Diagnostic) Message() string {
	return strings.Join(d.parts, "")
}

func (d *Diagnostic) Error() string {
	return d.Message()
}

// AsDiagnostic converts an error into a diagnostic.  Errors that are not
// already diagnostics are wrapped as internal errors with no location.
func AsDiagnostic(err error) *Diagnostic {
	if d, ok := err.(*Diagnostic); ok {
		return d
	}

	return Raise(KindInternal, SourceRange{}, "%s", err)
}
