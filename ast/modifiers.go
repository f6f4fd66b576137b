package ast

import (
	"strings"

	"joosc/report"
)

// ModifierKind identifies a single declaration modifier.
type ModifierKind int

// Enumeration of modifier kinds.
const (
	ModPublic ModifierKind = iota
	ModProtected
	ModStatic
	ModFinal
	ModAbstract
	ModNative

	numModifiers
)

var modifierNames = [...]string{
	"public", "protected", "static", "final", "abstract", "native",
}

func (mk ModifierKind) String() string {
	return modifierNames[mk]
}

// Modifiers is the set of modifiers attached to a declaration, along with the
// location each modifier was written at.
type Modifiers struct {
	bits  uint8
	spans [numModifiers]report.SourceRange
}

// Set unions the given modifier into the set, recording its location.  It
// returns true if the modifier was already present.
func (m *Modifiers) Set(kind ModifierKind, span report.SourceRange) bool {
	wasSet := m.Has(kind)
	m.bits |= 1 << uint8(kind)
	m.spans[kind] = span
	return wasSet
}

// Has reports whether the given modifier is in the set.
func (m Modifiers) Has(kind ModifierKind) bool {
	return m.bits&(1<<uint8(kind)) != 0
}

// SpanOf returns the location the given modifier was written at.  The result
// is an invalid range if the modifier is not set.
func (m Modifiers) SpanOf(kind ModifierKind) report.SourceRange {
	return m.spans[kind]
}

func (m Modifiers) IsPublic() bool    { return m.Has(ModPublic) }
func (m Modifiers) IsProtected() bool { return m.Has(ModProtected) }
func (m Modifiers) IsStatic() bool    { return m.Has(ModStatic) }
func (m Modifiers) IsFinal() bool     { return m.Has(ModFinal) }
func (m Modifiers) IsAbstract() bool  { return m.Has(ModAbstract) }
func (m Modifiers) IsNative() bool    { return m.Has(ModNative) }

func (m Modifiers) String() string {
	parts := []string{}
	for kind := ModifierKind(0); kind < numModifiers; kind++ {
		if m.Has(kind) {
			parts = append(parts, kind.String())
		}
	}

	return strings.Join(parts, " ")
}
