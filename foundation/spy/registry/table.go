// File: table.go
// Title: Dispatch Table
// Description: Immutable command-name to handler routing plus the merged
//              grammar used to parse calls before they are routed.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

package registry

import (
	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/grammar"
	"github.com/msto63/opspy/foundation/spy/parser"
	"github.com/msto63/opspy/foundation/utils/mapx"
)

// Table routes parsed calls to their owning handler. It is built once by
// Collection.Build and not modified afterwards.
type Table struct {
	routes   map[string]Handler
	grammar  grammar.Set
	handlers []Handler
	logger   *log.Logger
}

// Handler returns the handler owning a command
func (t *Table) Handler(command string) (Handler, bool) {
	h, ok := t.routes[command]
	return h, ok
}

// Commands returns the routed command names in sorted order
func (t *Table) Commands() []string {
	return mapx.SortedKeys(t.routes)
}

// Grammar returns the merged grammar set
func (t *Table) Grammar() grammar.Set {
	return t.grammar
}

// Parse parses a call with the merged grammar, falling back to the generic
// parser for commands without one.
func (t *Table) Parse(command string, tokens []any, kwargs map[string]any) (*parser.Record, error) {
	return parser.ParseCommand(t.grammar, command, tokens, kwargs)
}

// Dispatch hands rec to the command's owner. A command without an owner is
// not an error; Dispatch then reports false.
func (t *Table) Dispatch(command string, rec *parser.Record) bool {
	h, ok := t.routes[command]
	if !ok {
		return false
	}
	h.Handle(command, rec)
	return true
}

// Reset resets every handler of the table
func (t *Table) Reset() {
	for _, h := range t.handlers {
		h.Reset()
	}
	t.logger.Debug("handlers reset", log.Fields{"handlerCount": len(t.handlers)})
}
