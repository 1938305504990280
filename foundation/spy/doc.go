// File: doc.go
// Title: Spy Package Documentation
// Description: Package documentation for the spy session facade.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

/*
Package spy observes a script building a structural model through a
namespace of commands.

A Spy registers handlers, merges their grammar with optional overlays,
and hooks every exported callable of the namespace. Each call is parsed
into a parser.Record and routed to the handler owning the command before
the original callable runs:

	s, err := spy.New(ns, spy.Options{Logger: logger, Handlers: handlers})
	if err != nil {
		return err
	}
	if _, err := s.Hook(); err != nil {
		return err
	}
	defer s.Restore()

The subpackages can be used on their own: grammar describes command
shapes, parser turns token lists into records, registry routes records
and intercept wraps callables.
*/
package spy
