// File: spy_test.go
// Title: Spy Session Tests
// Description: End-to-end tests for hooking a namespace through a session.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15

package spy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	spyerr "github.com/msto63/opspy/foundation/core/error"
	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/grammar"
	"github.com/msto63/opspy/foundation/spy/intercept"
	"github.com/msto63/opspy/foundation/spy/parser"
	"github.com/msto63/opspy/foundation/spy/registry"
)

type nodeCollector struct {
	coords map[int][]float64
}

func (n *nodeCollector) Name() string      { return "Node" }
func (n *nodeCollector) Handles() []string { return []string{"node"} }
func (n *nodeCollector) Grammar() grammar.Set {
	return grammar.Set{"node": grammar.MustRule([]string{"tag", "coords*"})}
}
func (n *nodeCollector) Reset() { n.coords = make(map[int][]float64) }
func (n *nodeCollector) Handle(_ string, rec *parser.Record) {
	tag, _ := rec.Int("tag")
	n.coords[tag] = rec.Floats("coords")
}

func newNamespace() *intercept.MapNamespace {
	ns := intercept.NewMapNamespace()
	ns.Register("node", func(args []any, _ map[string]any) (any, error) { return nil, nil })
	ns.Register("fix", func(args []any, _ map[string]any) (any, error) { return nil, nil })
	return ns
}

func TestSpy_Session(t *testing.T) {
	nodes := &nodeCollector{coords: make(map[int][]float64)}
	ns := newNamespace()

	s, err := New(ns, Options{Logger: log.Discard(), Handlers: []registry.Handler{nodes}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := uuid.Parse(s.SessionID()); err != nil {
		t.Errorf("SessionID() = %q is not a UUID", s.SessionID())
	}

	n, err := s.Hook()
	if err != nil || n != 2 {
		t.Fatalf("Hook() = %d, %v", n, err)
	}

	if _, err := ns.Call("node", []any{1, 0.0, 3.0}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := ns.Call("fix", []any{1, 1, 1}, nil); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(map[int][]float64{1: {0, 3}}, nodes.coords); diff != "" {
		t.Errorf("collected nodes mismatch (-want +got):\n%s", diff)
	}
	history := s.Interceptor().History()
	if len(history) != 2 || history[1].Session != s.SessionID() {
		t.Errorf("History() = %+v", history)
	}

	s.Clear()
	if len(nodes.coords) != 0 {
		t.Error("Clear() should reset handlers")
	}

	if err := s.Restore(); err != nil {
		t.Fatal(err)
	}
	if s.Interceptor().IsHooked() {
		t.Error("still hooked after Restore()")
	}
}

func TestSpy_GrammarOverlay(t *testing.T) {
	overlay := grammar.Set{"recorder": grammar.MustRule([]string{"recType", "tag"}, grammar.Opt("-file", "fileName"))}

	s, err := New(newNamespace(), Options{Logger: log.Discard(), Grammars: []grammar.Set{overlay}})
	if err != nil {
		t.Fatal(err)
	}

	rec, err := s.Parse("recorder", []any{"Node", 3, "-file", "out.txt"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"recType": "Node", "tag": 3, "fileName": "out.txt"}
	if diff := cmp.Diff(want, rec.Map()); diff != "" {
		t.Errorf("overlay parse mismatch (-want +got):\n%s", diff)
	}
}

func TestSpy_RejectsInvalidInput(t *testing.T) {
	if _, err := New(nil, Options{}); !spyerr.HasCode(err, spyerr.CodeInvalidInput) {
		t.Errorf("New(nil) = %v", err)
	}

	bad := grammar.Set{"x": &grammar.Rule{Positional: []grammar.Slot{{Name: "a", Arity: grammar.Presence}}}}
	if _, err := New(newNamespace(), Options{Logger: log.Discard(), Grammars: []grammar.Set{bad}}); !spyerr.HasCode(err, spyerr.CodeInvalidGrammar) {
		t.Errorf("invalid overlay = %v", err)
	}
}
