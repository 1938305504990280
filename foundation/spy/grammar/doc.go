// File: doc.go
// Title: Grammar Package Documentation
// Description: Package documentation for the declarative command grammar.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

/*
Package grammar describes the shape of Tcl-style command calls as data.

A Rule lists positional slots followed by flag options. Each slot has an
Arity:

  • Exactly1            consumes the next token, omitted when none remains
  • Optional1           consumes the next token if present
  • ExactlyN(n)         consumes n tokens as a sequence, fails with ArityError
  • VariadicToNextFlag  consumes up to the next flag declared by the rule
  • Presence            records true, flag fields only

Commands whose shape depends on their first token (an element or material
type) are described by an Alternative, which maps discriminator values to
rules and falls back to a default rule.

Rules are usually written in compact notation:

	node := grammar.MustRule(
		[]string{"tag", "coords*"},
		grammar.Opt("-ndf", "dofs"),
		grammar.Opt("-mass", "mass*"),
	)

Grammar sets can also be loaded from TOML or YAML documents with LoadFile.
*/
package grammar
