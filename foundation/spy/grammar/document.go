// File: document.go
// Title: Grammar Documents
// Description: Loads grammar sets from TOML or YAML documents written in the
//              compact notation, so command shapes can be added or
//              overridden without recompiling.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

package grammar

import (
	spyconfig "github.com/msto63/opspy/foundation/core/config"
	spyerr "github.com/msto63/opspy/foundation/core/error"
)

// Document is the on-disk layout of a grammar file.
//
// YAML example:
//
//	commands:
//	  node:
//	    positional: [tag, "coords*"]
//	    options:
//	      - flag: -ndf
//	        fields: [dofs]
//	  element:
//	    discriminator: eleType
//	    default:
//	      positional: [eleType, eleTag, "args*"]
//	    rules:
//	      zeroLength:
//	        positional: [eleType, eleTag, "eleNodes*2"]
//	        options:
//	          - flag: -orient
//	            fields: ["vecx*3", "vecyp*3"]
type Document struct {
	Commands map[string]CommandDoc `toml:"commands" yaml:"commands"`
}

// CommandDoc describes either a concrete rule or an alternative
type CommandDoc struct {
	Positional    []string           `toml:"positional" yaml:"positional"`
	Options       []OptionDoc        `toml:"options" yaml:"options"`
	Discriminator string             `toml:"discriminator" yaml:"discriminator"`
	Default       *RuleDoc           `toml:"default" yaml:"default"`
	Rules         map[string]RuleDoc `toml:"rules" yaml:"rules"`
}

// RuleDoc is a concrete rule in compact notation
type RuleDoc struct {
	Positional []string    `toml:"positional" yaml:"positional"`
	Options    []OptionDoc `toml:"options" yaml:"options"`
}

// OptionDoc is a flag with its value fields
type OptionDoc struct {
	Flag   string   `toml:"flag" yaml:"flag"`
	Fields []string `toml:"fields" yaml:"fields"`
}

// LoadFile reads a grammar document, choosing the format by extension
func LoadFile(path string) (Set, error) {
	var doc Document
	if err := spyconfig.DecodeFile(path, &doc); err != nil {
		return nil, spyerr.Wrap(err, "failed to load grammar").
			WithOperation("grammar.LoadFile").
			WithDetail("path", path)
	}
	return doc.Set()
}

// Decode parses a grammar document from content
func Decode(content []byte, format spyconfig.Format) (Set, error) {
	var doc Document
	if err := spyconfig.Decode(content, format, &doc); err != nil {
		return nil, spyerr.Wrap(err, "failed to decode grammar").
			WithOperation("grammar.Decode")
	}
	return doc.Set()
}

// Set converts the document into a validated grammar set
func (d Document) Set() (Set, error) {
	set := make(Set, len(d.Commands))
	for name, cmd := range d.Commands {
		entry, err := cmd.entry()
		if err != nil {
			return nil, spyerr.Wrap(err, "command "+name).WithDetail("command", name)
		}
		set[name] = entry
	}
	return set, nil
}

func (c CommandDoc) entry() (Entry, error) {
	if c.Discriminator == "" && len(c.Rules) == 0 && c.Default == nil {
		return RuleDoc{Positional: c.Positional, Options: c.Options}.rule()
	}

	alt := &Alternative{Discriminator: c.Discriminator, Rules: make(map[string]*Rule, len(c.Rules))}
	for key, rd := range c.Rules {
		rule, err := rd.rule()
		if err != nil {
			return nil, spyerr.Wrap(err, "discriminator "+key)
		}
		alt.Rules[key] = rule
	}

	switch {
	case c.Default != nil:
		rule, err := c.Default.rule()
		if err != nil {
			return nil, spyerr.Wrap(err, "default rule")
		}
		alt.Default = rule
	case len(c.Positional) > 0:
		rule, err := RuleDoc{Positional: c.Positional, Options: c.Options}.rule()
		if err != nil {
			return nil, spyerr.Wrap(err, "default rule")
		}
		alt.Default = rule
	}
	return alt, nil
}

func (r RuleDoc) rule() (*Rule, error) {
	options := make([]FlagSpec, len(r.Options))
	for i, o := range r.Options {
		options[i] = Opt(o.Flag, o.Fields...)
	}
	return NewRule(r.Positional, options...)
}
