// File: namespace.go
// Title: Callable Namespace
// Description: Abstraction over a set of named callables that can be
//              looked up and rebound, and a map-backed implementation.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

package intercept

import (
	"fmt"
	"strings"

	spyerr "github.com/msto63/opspy/foundation/core/error"
	"github.com/msto63/opspy/foundation/utils/mapx"
)

// Func is a command callable: positional tokens plus keyword arguments
type Func func(args []any, kwargs map[string]any) (any, error)

// Namespace is a set of named callables that can be rebound
type Namespace interface {
	Names() []string
	Lookup(name string) (Func, bool)
	Replace(name string, fn Func) error
}

// IsExported reports whether name is externally callable
func IsExported(name string) bool {
	return name != "" && !strings.HasPrefix(name, "_")
}

// MapNamespace is a Namespace backed by a map
type MapNamespace struct {
	funcs map[string]Func
}

// NewMapNamespace creates an empty namespace
func NewMapNamespace() *MapNamespace {
	return &MapNamespace{funcs: make(map[string]Func)}
}

// Register binds fn under name, replacing any previous binding
func (m *MapNamespace) Register(name string, fn Func) {
	m.funcs[name] = fn
}

// Names returns the bound names in sorted order
func (m *MapNamespace) Names() []string {
	return mapx.SortedKeys(m.funcs)
}

// Lookup returns the callable currently bound to name
func (m *MapNamespace) Lookup(name string) (Func, bool) {
	fn, ok := m.funcs[name]
	return fn, ok && fn != nil
}

// Replace rebinds an existing name
func (m *MapNamespace) Replace(name string, fn Func) error {
	if _, ok := m.funcs[name]; !ok {
		return spyerr.New(fmt.Sprintf("symbol %q not found", name)).
			WithCode(spyerr.CodeNotFound).
			WithOperation("intercept.Replace").
			WithDetail("symbol", name)
	}
	if fn == nil {
		return spyerr.New("cannot bind nil callable").
			WithCode(spyerr.CodeInvalidInput).
			WithOperation("intercept.Replace").
			WithDetail("symbol", name)
	}
	m.funcs[name] = fn
	return nil
}

// Call invokes the callable currently bound to name
func (m *MapNamespace) Call(name string, args []any, kwargs map[string]any) (any, error) {
	fn, ok := m.Lookup(name)
	if !ok {
		return nil, spyerr.New(fmt.Sprintf("symbol %q not found", name)).
			WithCode(spyerr.CodeNotFound).
			WithOperation("intercept.Call").
			WithDetail("symbol", name)
	}
	return fn(args, kwargs)
}
