// File: parser.go
// Title: Rule-Based Token Parser
// Description: Maps the positional tokens of a call onto the slots and flags
//              of a grammar rule. Positional slots are filled first, declared
//              flags are then extracted wherever they appear, the leftover is
//              cleaned of flag runs, and keyword overrides are applied last.
// Author: msto63
// Version: v0.2.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation
// - 2025-10-15 v0.2.0: A single-value flag without a value stays unset

package parser

import (
	"github.com/msto63/opspy/foundation/spy/grammar"
)

// Normalize returns a copy of tokens without nil values and empty maps
func Normalize(tokens []any) []any {
	out := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		switch v := tok.(type) {
		case nil:
			continue
		case map[string]any:
			if len(v) == 0 {
				continue
			}
		case map[any]any:
			if len(v) == 0 {
				continue
			}
		}
		out = append(out, tok)
	}
	return out
}

// Parse maps tokens onto rule. Every token ends up in exactly one place:
// a positional slot, a flag (as the flag token or one of its claimed
// values), or the leftover.
func Parse(rule *grammar.Rule, tokens []any, kwargs map[string]any) (*Record, error) {
	toks := Normalize(tokens)
	rec := NewRecord()

	nextFlag := func(from int) int {
		for i := from; i < len(toks); i++ {
			if rule.IsFlag(toks[i]) {
				return i
			}
		}
		return len(toks)
	}

	cursor := 0
	for _, slot := range rule.Positional {
		stop := nextFlag(cursor)
		switch {
		case slot.Arity.IsVariadic():
			rec.Fields[slot.Name] = cloneTokens(toks[cursor:stop])
			cursor = stop
		case slot.Arity.IsFixed():
			n := slot.Arity.Count()
			if stop-cursor < n {
				return nil, &grammar.ArityError{Field: slot.Name, Want: n, Have: stop - cursor}
			}
			rec.Fields[slot.Name] = cloneTokens(toks[cursor : cursor+n])
			cursor += n
		default:
			if cursor < stop {
				rec.Fields[slot.Name] = toks[cursor]
				cursor++
			}
		}
	}

	// claims maps the index of an extracted flag token to the number of
	// values it consumed.
	claims := make(map[int]int)
	for _, flag := range rule.Options {
		idx := indexOf(toks, flag.Token)
		if idx < 0 {
			continue
		}
		run := toks[idx+1 : nextFlag(idx+1)]
		claimed, err := assignFlag(rec, flag, run)
		if err != nil {
			return nil, err
		}
		claims[idx] = claimed
	}

	for i := cursor; i < len(toks); {
		if n, ok := claims[i]; ok {
			i += 1 + n
			continue
		}
		rec.Leftover = append(rec.Leftover, toks[i])
		i++
	}

	applyOverrides(rec, kwargs)
	return rec, nil
}

// assignFlag splits a flag's value run across its fields and returns the
// number of run tokens consumed.
func assignFlag(rec *Record, flag grammar.Flag, run []any) (int, error) {
	if len(flag.Fields) == 0 {
		rec.Fields[flag.Name()] = true
		return 0, nil
	}

	if len(flag.Fields) == 1 && flag.Fields[0].Arity.IsSingle() {
		name := flag.Fields[0].Name
		switch len(run) {
		case 0:
			// a missing single value leaves the field unset
		case 1:
			rec.Fields[name] = run[0]
		default:
			rec.Fields[name] = cloneTokens(run)
		}
		return len(run), nil
	}

	c := 0
	for _, field := range flag.Fields {
		switch {
		case field.Arity.IsPresence():
			rec.Fields[field.Name] = true
		case field.Arity.IsVariadic():
			rec.Fields[field.Name] = cloneTokens(run[c:])
			c = len(run)
		case field.Arity.IsFixed():
			n := field.Arity.Count()
			if len(run)-c < n {
				return 0, &grammar.ArityError{Field: field.Name, Want: n, Have: len(run) - c}
			}
			rec.Fields[field.Name] = cloneTokens(run[c : c+n])
			c += n
		default:
			if c < len(run) {
				rec.Fields[field.Name] = run[c]
				c++
			}
		}
	}
	return c, nil
}

func applyOverrides(rec *Record, kwargs map[string]any) {
	for k, v := range kwargs {
		rec.Fields[k] = v
	}
}

func indexOf(toks []any, token string) int {
	for i, tok := range toks {
		if s, ok := tok.(string); ok && s == token {
			return i
		}
	}
	return -1
}

func cloneTokens(toks []any) []any {
	out := make([]any, len(toks))
	copy(out, toks)
	return out
}
