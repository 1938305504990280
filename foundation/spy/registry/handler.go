// File: handler.go
// Title: Handler Capability
// Description: The contract domain handlers implement to receive parsed
//              calls, and a discriminator switch for per-type branching
//              inside a handler.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

package registry

import (
	"github.com/msto63/opspy/foundation/spy/grammar"
	"github.com/msto63/opspy/foundation/spy/parser"
	"github.com/msto63/opspy/foundation/utils/mapx"
)

// Handler consumes parsed calls for the commands it handles
type Handler interface {
	// Name is the default registration name
	Name() string

	// Handles lists the command names the handler owns
	Handles() []string

	// Grammar returns the handler's grammar contribution. It is validated
	// when the handler is added to a Collection. Nil means no contribution.
	Grammar() grammar.Set

	// Handle consumes one parsed call
	Handle(name string, rec *parser.Record)

	// Reset drops all state collected by Handle
	Reset()
}

// HandleFunc handles one parsed call
type HandleFunc func(name string, rec *parser.Record)

// Switch routes calls by discriminator value to registered functions, with
// a declared fallback for values nobody registered.
type Switch struct {
	cases    map[string]HandleFunc
	fallback HandleFunc
}

// NewSwitch creates a switch with the given fallback
func NewSwitch(fallback HandleFunc) *Switch {
	return &Switch{cases: make(map[string]HandleFunc), fallback: fallback}
}

// On registers fn for each key and returns the switch for chaining
func (s *Switch) On(fn HandleFunc, keys ...string) *Switch {
	for _, k := range keys {
		s.cases[k] = fn
	}
	return s
}

// Has reports whether key has a registered function
func (s *Switch) Has(key string) bool {
	_, ok := s.cases[key]
	return ok
}

// Keys returns the registered keys in sorted order
func (s *Switch) Keys() []string {
	return mapx.SortedKeys(s.cases)
}

// Dispatch calls the function registered for key, or the fallback. It
// reports whether a registered function handled the call.
func (s *Switch) Dispatch(key, name string, rec *parser.Record) bool {
	if fn, ok := s.cases[key]; ok {
		fn(name, rec)
		return true
	}
	if s.fallback != nil {
		s.fallback(name, rec)
	}
	return false
}
