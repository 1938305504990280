// File: validate.go
// Title: Grammar Validation and Arity Errors
// Description: Construction-time checks for rules and alternatives, and the
//              ArityError raised when a call supplies too few tokens for a
//              fixed-count field.
// Author: msto63
// Version: v0.2.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation
// - 2025-10-15 v0.2.0: Reserved the leftover field name

package grammar

import (
	"fmt"
	"strings"

	spyerr "github.com/msto63/opspy/foundation/core/error"
)

// LeftoverField is reserved for the tokens a rule does not claim
const LeftoverField = "leftover"

// ArityError reports a fixed-count field that could not be filled
type ArityError struct {
	Field string
	Want  int
	Have  int
}

// Shortfall returns the number of missing tokens
func (e *ArityError) Shortfall() int {
	return e.Want - e.Have
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("field %q needs %d tokens but only %d remain (short by %d)",
		e.Field, e.Want, e.Have, e.Shortfall())
}

// Code returns CodeArity so that spyerr.HasCode recognizes the error
func (e *ArityError) Code() spyerr.Code {
	return spyerr.CodeArity
}

// Validate checks field names, flag tokens and arities
func (r *Rule) Validate() error {
	if r == nil {
		return invalidRule("rule is nil", nil)
	}

	seen := make(map[string]bool)
	checkName := func(name string) error {
		if name == "" {
			return invalidRule("empty field name", nil)
		}
		if name == LeftoverField {
			return invalidRule("field name is reserved", map[string]interface{}{"field": name})
		}
		if seen[name] {
			return invalidRule("duplicate field name", map[string]interface{}{"field": name})
		}
		seen[name] = true
		return nil
	}

	for _, s := range r.Positional {
		if err := checkName(s.Name); err != nil {
			return err
		}
		if s.Arity.IsPresence() {
			return invalidRule("presence arity on positional slot", map[string]interface{}{"field": s.Name})
		}
		if s.Arity.IsFixed() && s.Arity.Count() < 1 {
			return invalidRule("ExactlyN needs n >= 1", map[string]interface{}{"field": s.Name})
		}
	}

	tokens := make(map[string]bool)
	for _, f := range r.Options {
		if !strings.HasPrefix(f.Token, "-") || len(f.Token) < 2 {
			return invalidRule("flag token must start with '-'", map[string]interface{}{"flag": f.Token})
		}
		if tokens[f.Token] {
			return invalidRule("duplicate flag token", map[string]interface{}{"flag": f.Token})
		}
		tokens[f.Token] = true

		if len(f.Fields) == 0 {
			if err := checkName(f.Name()); err != nil {
				return err
			}
			continue
		}
		for _, s := range f.Fields {
			if err := checkName(s.Name); err != nil {
				return err
			}
			if s.Arity.IsFixed() && s.Arity.Count() < 1 {
				return invalidRule("ExactlyN needs n >= 1", map[string]interface{}{"field": s.Name})
			}
		}
	}
	return nil
}

// Validate checks every rule of the alternative including the default
func (a *Alternative) Validate() error {
	if a == nil {
		return invalidRule("alternative is nil", nil)
	}
	for _, key := range a.Keys() {
		rule := a.Rules[key]
		if rule == nil {
			return invalidRule("nil rule for discriminator", map[string]interface{}{"discriminator": key})
		}
		if err := rule.Validate(); err != nil {
			return spyerr.Wrap(err, "discriminator "+key)
		}
	}
	if a.Default != nil {
		if err := a.Default.Validate(); err != nil {
			return spyerr.Wrap(err, "default rule")
		}
	}
	return nil
}

// Validate checks every entry of the set
func (s Set) Validate() error {
	for _, name := range s.Names() {
		var err error
		switch e := s[name].(type) {
		case *Rule:
			err = e.Validate()
		case *Alternative:
			err = e.Validate()
		case nil:
			err = invalidRule("nil grammar entry", nil)
		}
		if err != nil {
			return spyerr.Wrap(err, "command "+name).WithDetail("command", name)
		}
	}
	return nil
}

func invalidRule(message string, details map[string]interface{}) error {
	err := spyerr.New(message).
		WithCode(spyerr.CodeInvalidGrammar).
		WithOperation("grammar.Validate")
	for k, v := range details {
		err.WithDetail(k, v)
	}
	return err
}
