// File: spy.go
// Title: Spy Session
// Description: Ties a handler collection, its dispatch table and a call
//              interceptor together into one session that can hook a
//              namespace, collect model data and restore the namespace.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

package spy

import (
	"github.com/google/uuid"

	spyerr "github.com/msto63/opspy/foundation/core/error"
	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/grammar"
	"github.com/msto63/opspy/foundation/spy/intercept"
	"github.com/msto63/opspy/foundation/spy/parser"
	"github.com/msto63/opspy/foundation/spy/registry"
)

// Options configures a Spy
type Options struct {
	Logger *log.Logger

	// Handlers are registered in order. Names[i] names Handlers[i]; a
	// missing or empty name falls back to the handler's own Name().
	Handlers []registry.Handler
	Names    []string

	// Grammars are merged after the handlers' grammar, in order
	Grammars []grammar.Set
}

// Spy is one interception session over a namespace
type Spy struct {
	id          string
	ns          intercept.Namespace
	handlers    *registry.Collection
	table       *registry.Table
	interceptor *intercept.Interceptor
	logger      *log.Logger
}

// New builds a session for ns. Nothing is hooked until Hook is called.
func New(ns intercept.Namespace, opts Options) (*Spy, error) {
	if ns == nil {
		return nil, spyerr.New("namespace cannot be nil").
			WithCode(spyerr.CodeInvalidInput).
			WithOperation("spy.New")
	}
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}

	id := uuid.NewString()
	logger := opts.Logger.WithField("session", id)

	handlers := registry.NewCollection(registry.Options{Logger: logger})
	if err := handlers.AddAll(opts.Handlers, opts.Names); err != nil {
		return nil, spyerr.Wrap(err, "failed to register handlers").WithOperation("spy.New")
	}
	for i, set := range opts.Grammars {
		if err := set.Validate(); err != nil {
			return nil, spyerr.Wrap(err, "invalid grammar overlay").
				WithOperation("spy.New").
				WithDetail("overlay", i)
		}
	}

	table := handlers.Build(opts.Grammars...)
	return &Spy{
		id:          id,
		ns:          ns,
		handlers:    handlers,
		table:       table,
		interceptor: intercept.New(table, intercept.Options{Logger: logger, Session: id}),
		logger:      logger.WithField("component", "spy"),
	}, nil
}

// Hook wraps the namespace's exported callables
func (s *Spy) Hook() (int, error) {
	return s.interceptor.HookAll(s.ns)
}

// Restore reinstalls the original callables
func (s *Spy) Restore() error {
	return s.interceptor.RestoreAll()
}

// Clear forgets observed calls and resets every handler
func (s *Spy) Clear() {
	s.interceptor.Clear()
	s.logger.Debug("session cleared")
}

// Parse parses a call with the session grammar without dispatching it
func (s *Spy) Parse(name string, tokens []any, kwargs map[string]any) (*parser.Record, error) {
	return s.table.Parse(name, tokens, kwargs)
}

// SessionID returns the identifier stamped on every observed call
func (s *Spy) SessionID() string { return s.id }

// Handlers returns the handler collection
func (s *Spy) Handlers() *registry.Collection { return s.handlers }

// Table returns the dispatch table
func (s *Spy) Table() *registry.Table { return s.table }

// Interceptor returns the call interceptor
func (s *Spy) Interceptor() *intercept.Interceptor { return s.interceptor }
