// File: arity.go
// Title: Slot Arity
// Description: Defines how many tokens a positional slot or flag field
//              consumes: exactly one, exactly n, a run up to the next
//              declared flag, an optional single token, or none at all.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

package grammar

import "strconv"

type arityKind uint8

const (
	kindOne arityKind = iota
	kindOptional
	kindN
	kindVariadic
	kindPresence
)

// Arity describes how many tokens a slot consumes. The zero value is
// Exactly1.
type Arity struct {
	kind arityKind
	n    int
}

var (
	// Exactly1 consumes the next token; a missing token omits the slot.
	Exactly1 = Arity{kind: kindOne, n: 1}

	// Optional1 consumes the next token if present.
	Optional1 = Arity{kind: kindOptional, n: 1}

	// VariadicToNextFlag consumes tokens up to the next declared flag.
	VariadicToNextFlag = Arity{kind: kindVariadic}

	// Presence consumes nothing and records true. Only valid on flag fields.
	Presence = Arity{kind: kindPresence}
)

// ExactlyN consumes exactly n tokens as a sequence.
func ExactlyN(n int) Arity {
	return Arity{kind: kindN, n: n}
}

// Count returns the number of tokens a fixed arity consumes, or -1 for
// VariadicToNextFlag.
func (a Arity) Count() int {
	switch a.kind {
	case kindVariadic:
		return -1
	case kindPresence:
		return 0
	default:
		return a.n
	}
}

// IsSingle reports whether the arity yields a scalar value
func (a Arity) IsSingle() bool {
	return a.kind == kindOne || a.kind == kindOptional
}

// IsOptional reports whether absence of the token is expected
func (a Arity) IsOptional() bool { return a.kind == kindOptional }

// IsFixed reports whether the arity is ExactlyN
func (a Arity) IsFixed() bool { return a.kind == kindN }

// IsVariadic reports whether the arity is VariadicToNextFlag
func (a Arity) IsVariadic() bool { return a.kind == kindVariadic }

// IsPresence reports whether the arity is Presence
func (a Arity) IsPresence() bool { return a.kind == kindPresence }

// Suffix returns the compact notation suffix of the arity
func (a Arity) Suffix() string {
	switch a.kind {
	case kindOptional:
		return "?"
	case kindN:
		return "*" + strconv.Itoa(a.n)
	case kindVariadic:
		return "*"
	case kindPresence:
		return "*0"
	default:
		return ""
	}
}

// String returns a readable name of the arity
func (a Arity) String() string {
	switch a.kind {
	case kindOne:
		return "Exactly(1)"
	case kindOptional:
		return "OptionalExactly(1)"
	case kindN:
		return "ExactlyN(" + strconv.Itoa(a.n) + ")"
	case kindVariadic:
		return "VariadicToNextFlag"
	case kindPresence:
		return "Presence"
	default:
		return "Unknown"
	}
}
