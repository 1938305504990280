// File: doc.go
// Title: Parser Package Documentation
// Description: Package documentation for the token parser.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

/*
Package parser turns the positional tokens of a command call into a Record.

Parse applies a grammar.Rule in four steps:

 1. positional slots consume tokens by arity, never crossing a declared flag
 2. each declared flag found in the call claims its value run
 3. the leftover is re-walked and flag runs are removed from it
 4. keyword overrides replace any field of the same name

ParseGeneric is used when a command has no grammar. It extracts every
"-flag value..." run and then guesses a discriminator and tag from what is
left. It never fails.

Resolve and ParseCommand implement alternative dispatch: the first token
of a call selects one of several rules registered for the same command.

Tokens are plain Go values: strings are text, Go integer kinds are
integers, float32 and float64 are reals. Nil tokens and empty maps are
discarded before parsing.
*/
package parser
