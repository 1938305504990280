// File: resolve.go
// Title: Alternative Dispatch
// Description: Selects the concrete rule for a call before parsing, reading
//              the discriminator from the first positional token when the
//              command owns an alternative grammar.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

package parser

import (
	"github.com/msto63/opspy/foundation/spy/grammar"
)

// Resolve returns the rule that applies to tokens. Concrete rules are
// returned unchanged; alternatives select by the first token and fall back
// to their default, which may be nil.
func Resolve(entry grammar.Entry, tokens []any) *grammar.Rule {
	switch e := entry.(type) {
	case *grammar.Rule:
		return e
	case *grammar.Alternative:
		if e == nil {
			return nil
		}
		toks := Normalize(tokens)
		if len(toks) == 0 {
			return e.Default
		}
		return e.Select(Text(toks[0]))
	default:
		return nil
	}
}

// ParseCommand looks up name in set, resolves alternatives and parses the
// call. Commands without a grammar, or alternatives without a matching or
// default rule, fall back to ParseGeneric.
func ParseCommand(set grammar.Set, name string, tokens []any, kwargs map[string]any) (*Record, error) {
	entry, ok := set.Lookup(name)
	if !ok {
		return ParseGeneric(tokens, kwargs), nil
	}
	rule := Resolve(entry, tokens)
	if rule == nil {
		return ParseGeneric(tokens, kwargs), nil
	}
	return Parse(rule, tokens, kwargs)
}
