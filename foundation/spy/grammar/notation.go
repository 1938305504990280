// File: notation.go
// Title: Compact Grammar Notation
// Description: Builds rules from the compact slot notation used in handler
//              tables and grammar documents: "name" (one token), "name?"
//              (optional), "name*" (run up to next flag), "name*N" (exactly
//              N tokens) and "name*0" (presence switch on flags).
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

package grammar

import (
	"fmt"
	"strconv"
	"strings"

	spyerr "github.com/msto63/opspy/foundation/core/error"
)

// FlagSpec is a flag in compact notation, see Opt
type FlagSpec struct {
	Token  string
	Fields []string
}

// Opt declares a flag token followed by value fields in compact notation.
// A token ending in "?" marks the flag optional.
func Opt(token string, fields ...string) FlagSpec {
	return FlagSpec{Token: token, Fields: fields}
}

// ParseSlot parses a single slot in compact notation
func ParseSlot(notation string) (Slot, error) {
	notation = strings.TrimSpace(notation)

	name, count, variadic := notation, "", false
	if i := strings.IndexByte(notation, '*'); i >= 0 {
		name, count, variadic = notation[:i], notation[i+1:], true
	}

	optional := strings.HasSuffix(name, "?")
	name = strings.TrimSuffix(name, "?")

	if name == "" {
		return Slot{}, invalidNotation(notation, "empty field name")
	}
	if strings.ContainsAny(name, "?* \t") {
		return Slot{}, invalidNotation(notation, "malformed field name")
	}

	switch {
	case !variadic && optional:
		return Slot{Name: name, Arity: Optional1}, nil
	case !variadic:
		return Slot{Name: name, Arity: Exactly1}, nil
	case count == "":
		return Slot{Name: name, Arity: VariadicToNextFlag}, nil
	}

	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		return Slot{}, invalidNotation(notation, "count must be a non-negative integer")
	}
	if n == 0 {
		return Slot{Name: name, Arity: Presence}, nil
	}
	return Slot{Name: name, Arity: ExactlyN(n)}, nil
}

// NewRule builds and validates a rule from compact notation
func NewRule(positional []string, options ...FlagSpec) (*Rule, error) {
	rule := &Rule{}

	for _, p := range positional {
		slot, err := ParseSlot(p)
		if err != nil {
			return nil, err
		}
		rule.Positional = append(rule.Positional, slot)
	}

	for _, o := range options {
		flag := Flag{Token: strings.TrimSuffix(o.Token, "?")}
		flag.Optional = flag.Token != o.Token
		for _, f := range o.Fields {
			slot, err := ParseSlot(f)
			if err != nil {
				return nil, spyerr.Wrap(err, "flag "+flag.Token)
			}
			flag.Fields = append(flag.Fields, slot)
		}
		rule.Options = append(rule.Options, flag)
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}

// MustRule is like NewRule but panics on error. Intended for static tables.
func MustRule(positional []string, options ...FlagSpec) *Rule {
	rule, err := NewRule(positional, options...)
	if err != nil {
		panic(fmt.Sprintf("grammar: %v", err))
	}
	return rule
}

func invalidNotation(notation, reason string) error {
	return spyerr.New(fmt.Sprintf("invalid slot notation %q: %s", notation, reason)).
		WithCode(spyerr.CodeInvalidGrammar).
		WithOperation("grammar.ParseSlot").
		WithDetail("notation", notation)
}
