// File: generic.go
// Title: Generic Fallback Parser
// Description: Best-effort parsing for commands without a registered
//              grammar. Extracts "-flag value..." runs, then applies
//              discriminator/tag heuristics to what remains. Never fails.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

package parser

import (
	"strings"
	"unicode"
)

// Field names produced by the generic heuristics
const (
	DiscriminatorKey = "discriminator"
	TagKey           = "tag"
)

// IsGenericFlag reports whether tok looks like a flag: a string of a dash
// followed by a letter, optionally after further dashes.
func IsGenericFlag(tok any) bool {
	s, ok := tok.(string)
	if !ok {
		return false
	}
	trimmed := strings.TrimLeft(s, "-")
	if trimmed == s || trimmed == "" {
		return false
	}
	return unicode.IsLetter([]rune(trimmed)[0])
}

// ParseGeneric parses a call without a grammar. A flag takes the following
// values up to the next text token: none records true, one records the
// scalar, several record the sequence.
func ParseGeneric(tokens []any, kwargs map[string]any) *Record {
	toks := Normalize(tokens)
	rec := NewRecord()
	consumed := make([]bool, len(toks))

	for i, tok := range toks {
		if consumed[i] || !IsGenericFlag(tok) {
			continue
		}
		j := i + 1
		for j < len(toks) && !IsText(toks[j]) {
			j++
		}
		values := toks[i+1 : j]
		name := strings.TrimLeft(tok.(string), "-")
		switch len(values) {
		case 0:
			rec.Fields[name] = true
		case 1:
			rec.Fields[name] = values[0]
		default:
			rec.Fields[name] = cloneTokens(values)
		}
		for k := i; k < j; k++ {
			consumed[k] = true
		}
	}

	rest := make([]any, 0, len(toks))
	for i, tok := range toks {
		if !consumed[i] {
			rest = append(rest, tok)
		}
	}

	switch {
	case len(rest) >= 2 && IsText(rest[0]) && IsInteger(rest[1]):
		rec.Fields[DiscriminatorKey] = rest[0]
		rec.Fields[TagKey] = rest[1]
		rest = rest[2:]
	case len(rest) >= 1 && IsInteger(rest[0]):
		rec.Fields[TagKey] = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		rec.Leftover = rest
	}

	applyOverrides(rec, kwargs)
	return rec
}
