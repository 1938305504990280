// File: grammar.go
// Title: Command Grammar Model
// Description: Declarative description of Tcl-style command calls: ordered
//              positional slots, flag options with one or more value fields,
//              and alternative rule sets selected by a discriminator token.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

package grammar

import (
	"strings"

	"github.com/msto63/opspy/foundation/utils/mapx"
)

// Slot is a named field consuming tokens according to its arity
type Slot struct {
	Name  string
	Arity Arity
}

// String returns the slot in compact notation
func (s Slot) String() string {
	return s.Name + s.Arity.Suffix()
}

// Flag is an option token followed by zero or more value fields. A flag
// without fields is a presence switch recorded under its own name.
type Flag struct {
	Token  string
	Fields []Slot

	// Optional marks flags commonly omitted by callers. It has no effect on
	// matching.
	Optional bool
}

// Name returns the token without its leading dashes
func (f Flag) Name() string {
	return strings.TrimLeft(f.Token, "-")
}

// IsSwitch reports whether the flag records presence only
func (f Flag) IsSwitch() bool {
	if len(f.Fields) == 0 {
		return true
	}
	return len(f.Fields) == 1 && f.Fields[0].Arity.IsPresence()
}

// Entry is either a concrete *Rule or an *Alternative
type Entry interface {
	entry()
}

// Rule describes one concrete call shape
type Rule struct {
	Positional []Slot
	Options    []Flag
}

func (*Rule) entry() {}

// Flag returns the declared flag for token
func (r *Rule) Flag(token string) (Flag, bool) {
	for _, f := range r.Options {
		if f.Token == token {
			return f, true
		}
	}
	return Flag{}, false
}

// IsFlag reports whether tok is a flag token declared by the rule
func (r *Rule) IsFlag(tok any) bool {
	s, ok := tok.(string)
	if !ok {
		return false
	}
	_, found := r.Flag(s)
	return found
}

// FlagTokens returns the declared flag tokens in declaration order
func (r *Rule) FlagTokens() []string {
	tokens := make([]string, len(r.Options))
	for i, f := range r.Options {
		tokens[i] = f.Token
	}
	return tokens
}

// Fields returns every field name the rule can produce, positional first
func (r *Rule) Fields() []string {
	var names []string
	for _, s := range r.Positional {
		names = append(names, s.Name)
	}
	for _, f := range r.Options {
		if len(f.Fields) == 0 {
			names = append(names, f.Name())
			continue
		}
		for _, s := range f.Fields {
			names = append(names, s.Name)
		}
	}
	return names
}

// String renders the rule in compact notation
func (r *Rule) String() string {
	parts := make([]string, 0, len(r.Positional)+len(r.Options))
	for _, s := range r.Positional {
		parts = append(parts, s.String())
	}
	for _, f := range r.Options {
		fields := make([]string, len(f.Fields))
		for i, s := range f.Fields {
			fields[i] = s.String()
		}
		token := f.Token
		if f.Optional {
			token += "?"
		}
		if len(fields) == 0 {
			parts = append(parts, token)
			continue
		}
		parts = append(parts, token+" "+strings.Join(fields, " "))
	}
	return strings.Join(parts, " ")
}

// Alternative selects one of several rules by the first positional token
type Alternative struct {
	// Discriminator is the field name the selecting token is stored under
	Discriminator string
	Rules         map[string]*Rule
	Default       *Rule
}

func (*Alternative) entry() {}

// Select returns the rule for value, or the default rule
func (a *Alternative) Select(value string) *Rule {
	if r, ok := a.Rules[value]; ok && r != nil {
		return r
	}
	return a.Default
}

// Keys returns the discriminator values in sorted order
func (a *Alternative) Keys() []string {
	return mapx.SortedKeys(a.Rules)
}

// Clone returns a shallow copy with its own rule map
func (a *Alternative) Clone() *Alternative {
	rules := mapx.Clone(a.Rules)
	if rules == nil {
		rules = make(map[string]*Rule)
	}
	return &Alternative{Discriminator: a.Discriminator, Rules: rules, Default: a.Default}
}

// Set maps command names to grammar entries
type Set map[string]Entry

// Lookup returns the entry for a command name
func (s Set) Lookup(name string) (Entry, bool) {
	e, ok := s[name]
	return e, ok && e != nil
}

// Names returns the command names in sorted order
func (s Set) Names() []string {
	return mapx.SortedKeys(s)
}

// DefaultRule is the fallback shape of discriminated commands:
// discriminator, tag, then everything else.
func DefaultRule(discriminator string) *Rule {
	if discriminator == "" {
		discriminator = "type"
	}
	return &Rule{Positional: []Slot{
		{Name: discriminator, Arity: Exactly1},
		{Name: "tag", Arity: Exactly1},
		{Name: "args", Arity: VariadicToNextFlag},
	}}
}
