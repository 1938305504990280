// File: doc.go
// Title: Registry Package Documentation
// Description: Package documentation for handlers, the handler collection
//              and the dispatch table.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

/*
Package registry connects parsed calls to the handlers that consume them.

A Handler declares the commands it owns, contributes grammar for them and
receives one parser.Record per call. Handlers are added to a Collection,
which keeps registration order and validates grammar on insertion:

	handlers := registry.NewCollection(registry.Options{Logger: logger})
	if err := handlers.Add(nodes, "Node"); err != nil {
		return err
	}
	table := handlers.Build()

Build produces a Table: command routing (the last handler claiming a
command wins, with a warning) and the merged grammar of all handlers.
Contributions to the same command are merged into one alternative keyed by
discriminator, so several handlers can each describe some element types.

Switch replaces name-synthesized method lookup inside handlers with an
explicit discriminator to function map and a declared fallback.
*/
package registry
