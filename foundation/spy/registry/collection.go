// File: collection.go
// Title: Handler Collection
// Description: Holds handler instances under unique names in registration
//              order, validates their grammar contributions on insertion
//              and builds the dispatch table.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

package registry

import (
	"fmt"
	"iter"

	spyerr "github.com/msto63/opspy/foundation/core/error"
	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/grammar"
)

// Options configures a Collection
type Options struct {
	Logger *log.Logger
}

// Collection is an ordered, name-keyed set of handlers
type Collection struct {
	handlers map[string]Handler
	order    []string
	logger   *log.Logger
}

// NewCollection creates an empty collection
func NewCollection(opts Options) *Collection {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	return &Collection{
		handlers: make(map[string]Handler),
		logger:   opts.Logger.WithField("component", "spy-registry"),
	}
}

// Add registers h under name, or under h.Name() when no name is given.
// An existing entry with the same name is overwritten in place and a
// warning is logged. The handler's grammar must validate.
func (c *Collection) Add(h Handler, name ...string) error {
	if h == nil {
		return spyerr.New("handler cannot be nil").
			WithCode(spyerr.CodeInvalidInput).
			WithOperation("registry.Add")
	}

	handlerName := h.Name()
	if len(name) > 0 && name[0] != "" {
		handlerName = name[0]
	}
	if handlerName == "" {
		return spyerr.New("handler name cannot be empty").
			WithCode(spyerr.CodeInvalidInput).
			WithOperation("registry.Add")
	}

	if err := h.Grammar().Validate(); err != nil {
		return spyerr.Wrap(err, fmt.Sprintf("handler %s has an invalid grammar", handlerName)).
			WithOperation("registry.Add").
			WithDetail("handler", handlerName)
	}

	if _, exists := c.handlers[handlerName]; exists {
		c.logger.Warn("handler already registered, overwriting", log.Fields{"handler": handlerName})
	} else {
		c.order = append(c.order, handlerName)
	}
	c.handlers[handlerName] = h

	c.logger.Debug("handler registered", log.Fields{
		"handler":  handlerName,
		"commands": h.Handles(),
	})
	return nil
}

// AddAll registers handlers in order. names[i] names handlers[i]; missing
// or empty names fall back to Name().
func (c *Collection) AddAll(handlers []Handler, names []string) error {
	for i, h := range handlers {
		var name string
		if i < len(names) {
			name = names[i]
		}
		if err := c.Add(h, name); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the handler registered under name
func (c *Collection) Get(name string) (Handler, error) {
	h, ok := c.handlers[name]
	if !ok {
		return nil, spyerr.New(fmt.Sprintf("handler %q not found", name)).
			WithCode(spyerr.CodeNotFound).
			WithOperation("registry.Get").
			WithDetail("handler", name)
	}
	return h, nil
}

// TryGet returns the handler registered under name, if any
func (c *Collection) TryGet(name string) (Handler, bool) {
	h, ok := c.handlers[name]
	return h, ok
}

// All yields the handlers in registration order
func (c *Collection) All() iter.Seq[Handler] {
	return func(yield func(Handler) bool) {
		for _, name := range c.order {
			if !yield(c.handlers[name]) {
				return
			}
		}
	}
}

// Len returns the number of registered handlers
func (c *Collection) Len() int {
	return len(c.order)
}

// Names returns the registration names in registration order
func (c *Collection) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Build creates the dispatch table. Later handlers win command-name
// collisions, each collision logged at WARN. Grammar contributions are
// merged in registration order, followed by overlays.
func (c *Collection) Build(overlays ...grammar.Set) *Table {
	table := &Table{
		routes: make(map[string]Handler),
		logger: c.logger,
	}

	sets := make([]grammar.Set, 0, len(c.order)+len(overlays))
	for h := range c.All() {
		table.handlers = append(table.handlers, h)
		for _, cmd := range h.Handles() {
			if prev, exists := table.routes[cmd]; exists {
				c.logger.Warn("command handled by multiple handlers, using the last one", log.Fields{
					"command":  cmd,
					"previous": prev.Name(),
					"handler":  h.Name(),
				})
			}
			table.routes[cmd] = h
		}
		sets = append(sets, h.Grammar())
	}
	sets = append(sets, overlays...)
	table.grammar = Merge(c.logger, sets...)

	c.logger.Info("dispatch table built", log.Fields{
		"handlerCount": len(table.handlers),
		"commandCount": len(table.routes),
		"grammarCount": len(table.grammar),
	})
	return table
}
