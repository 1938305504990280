// File: interceptor_test.go
// Title: Call Interceptor Tests
// Description: Tests for hooking, observation, re-entrancy, nested hooks
//              and restoration.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15

package intercept

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	spyerr "github.com/msto63/opspy/foundation/core/error"
	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/grammar"
	"github.com/msto63/opspy/foundation/spy/parser"
	"github.com/msto63/opspy/foundation/spy/registry"
)

type recordingHandler struct {
	records map[string][]*parser.Record
	resets  int
	panicOn string
}

func (h *recordingHandler) Name() string      { return "Recorder" }
func (h *recordingHandler) Handles() []string { return []string{"node", "element"} }
func (h *recordingHandler) Grammar() grammar.Set {
	return grammar.Set{
		"node": grammar.MustRule([]string{"tag", "coords*"}, grammar.Opt("-ndf", "dofs")),
		"element": &grammar.Alternative{
			Discriminator: "eleType",
			Rules: map[string]*grammar.Rule{
				"zeroLength": grammar.MustRule([]string{"eleType", "eleTag", "eleNodes*2"}),
			},
		},
	}
}
func (h *recordingHandler) Reset() { h.records = nil; h.resets++ }
func (h *recordingHandler) Handle(name string, rec *parser.Record) {
	if name == h.panicOn {
		panic("boom")
	}
	if h.records == nil {
		h.records = make(map[string][]*parser.Record)
	}
	h.records[name] = append(h.records[name], rec)
}

type fixture struct {
	ns        *MapNamespace
	handler   *recordingHandler
	ic        *Interceptor
	originals map[string]uintptr
	invoked   []string
	logs      *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{ns: NewMapNamespace(), handler: &recordingHandler{}, logs: &bytes.Buffer{}}

	logger := log.NewWithConfig(log.Config{Level: log.LevelWarn, Format: log.FormatJSON, Output: f.logs})
	c := registry.NewCollection(registry.Options{Logger: logger})
	if err := c.Add(f.handler); err != nil {
		t.Fatal(err)
	}

	f.ns.Register("node", func(args []any, kwargs map[string]any) (any, error) {
		f.invoked = append(f.invoked, "node")
		return len(args), nil
	})
	f.ns.Register("element", func(args []any, kwargs map[string]any) (any, error) {
		f.invoked = append(f.invoked, "element")
		return nil, errors.New("element failed")
	})
	f.ns.Register("getNDM", func(args []any, kwargs map[string]any) (any, error) {
		f.invoked = append(f.invoked, "getNDM")
		return 2, nil
	})
	f.ns.Register("buildFrame", func(args []any, kwargs map[string]any) (any, error) {
		f.invoked = append(f.invoked, "buildFrame")
		if _, err := f.ns.Call("node", []any{1, 0.0, 0.0}, nil); err != nil {
			return nil, err
		}
		return f.ns.Call("node", []any{2, 1.0, 0.0}, nil)
	})
	f.ns.Register("_internal", func(args []any, kwargs map[string]any) (any, error) {
		return nil, nil
	})

	f.originals = pointers(f.ns)
	f.ic = New(c.Build(), Options{Logger: logger, Session: "test-session"})
	return f
}

func pointers(ns *MapNamespace) map[string]uintptr {
	out := make(map[string]uintptr)
	for _, name := range ns.Names() {
		fn, _ := ns.Lookup(name)
		out[name] = reflect.ValueOf(fn).Pointer()
	}
	return out
}

func TestHookAll_WrapsExportedOnly(t *testing.T) {
	f := newFixture(t)

	n, err := f.ic.HookAll(f.ns)
	if err != nil {
		t.Fatalf("HookAll() error: %v", err)
	}
	if n != 4 {
		t.Errorf("HookAll() = %d, want 4", n)
	}
	if diff := cmp.Diff([]string{"buildFrame", "element", "getNDM", "node"}, f.ic.Hooked()); diff != "" {
		t.Errorf("Hooked() mismatch (-want +got):\n%s", diff)
	}

	now := pointers(f.ns)
	if now["_internal"] != f.originals["_internal"] {
		t.Error("private symbol must not be wrapped")
	}
	if now["node"] == f.originals["node"] {
		t.Error("node should be wrapped")
	}
	if _, err := f.ic.HookAll(nil); !spyerr.HasCode(err, spyerr.CodeInvalidInput) {
		t.Errorf("HookAll(nil) = %v", err)
	}
}

func TestWrapper_ObservesAndForwards(t *testing.T) {
	f := newFixture(t)
	if _, err := f.ic.HookAll(f.ns); err != nil {
		t.Fatal(err)
	}

	result, err := f.ns.Call("node", []any{7, 1.0, 2.0, "-ndf", 3}, map[string]any{"extra": true})
	if err != nil || result != 5 {
		t.Errorf("node() = %v, %v; want original result 5, nil", result, err)
	}

	_, err = f.ns.Call("element", []any{"zeroLength", 1, 10, 20}, nil)
	if err == nil || err.Error() != "element failed" {
		t.Errorf("element() error = %v, want the original error unchanged", err)
	}

	if _, err := f.ns.Call("getNDM", nil, nil); err != nil {
		t.Fatal(err)
	}

	calls := f.ic.Calls("node")
	if len(calls) != 1 {
		t.Fatalf("node calls = %d, want 1", len(calls))
	}
	c := calls[0]
	if c.Seq != 1 || c.Session != "test-session" || !c.Handled || c.ParseErr != nil {
		t.Errorf("node call = %+v", c)
	}
	want := map[string]any{"tag": 7, "coords": []any{1.0, 2.0}, "dofs": 3, "extra": true}
	if diff := cmp.Diff(want, c.Record.Map()); diff != "" {
		t.Errorf("node record mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{7, 1.0, 2.0, "-ndf", 3}, c.Args); diff != "" {
		t.Errorf("raw args mismatch:\n%s", diff)
	}

	if len(f.handler.records["element"]) != 1 {
		t.Error("element record not dispatched")
	}
	getNDM := f.ic.Calls("getNDM")
	if len(getNDM) != 1 || getNDM[0].Handled {
		t.Errorf("getNDM should be logged but not handled, got %+v", getNDM)
	}

	var order []string
	for _, call := range f.ic.History() {
		order = append(order, call.Name)
	}
	if diff := cmp.Diff([]string{"node", "element", "getNDM"}, order); diff != "" {
		t.Errorf("History() order mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"element", "getNDM", "node"}, f.ic.CommandNames()); diff != "" {
		t.Errorf("CommandNames() mismatch:\n%s", diff)
	}
	if len(f.ic.CallLog()) != 3 {
		t.Errorf("CallLog() has %d commands, want 3", len(f.ic.CallLog()))
	}
}

func TestWrapper_ArgumentsUntouched(t *testing.T) {
	f := newFixture(t)
	var seen []any
	f.ns.Register("node", func(args []any, kwargs map[string]any) (any, error) {
		seen = args
		return nil, nil
	})
	if _, err := f.ic.HookAll(f.ns); err != nil {
		t.Fatal(err)
	}

	args := []any{1, nil, 2.0, map[string]any{}}
	if _, err := f.ns.Call("node", args, nil); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 4 || seen[1] != nil {
		t.Errorf("original received %v, want the untouched arguments", seen)
	}
}

func TestWrapper_ReentrantCallsObservedOnce(t *testing.T) {
	f := newFixture(t)
	if _, err := f.ic.HookAll(f.ns); err != nil {
		t.Fatal(err)
	}

	if _, err := f.ns.Call("buildFrame", nil, nil); err != nil {
		t.Fatal(err)
	}

	if len(f.ic.History()) != 1 || f.ic.History()[0].Name != "buildFrame" {
		t.Errorf("History() = %+v, want only the outer call", f.ic.History())
	}
	if len(f.handler.records["node"]) != 0 {
		t.Error("nested node calls must not be dispatched")
	}
	if diff := cmp.Diff([]string{"buildFrame", "node", "node"}, f.invoked); diff != "" {
		t.Errorf("nested originals must still run:\n%s", diff)
	}
}

func TestWrapper_ParseErrorSkipsDispatch(t *testing.T) {
	f := newFixture(t)
	if _, err := f.ic.HookAll(f.ns); err != nil {
		t.Fatal(err)
	}

	_, err := f.ns.Call("element", []any{"zeroLength", 3, 10}, nil)
	if err == nil || err.Error() != "element failed" {
		t.Errorf("original must still run and return its error, got %v", err)
	}

	calls := f.ic.Calls("element")
	if len(calls) != 1 {
		t.Fatalf("element calls = %d", len(calls))
	}
	var ae *grammar.ArityError
	if !errors.As(calls[0].ParseErr, &ae) || ae.Field != "eleNodes" {
		t.Errorf("ParseErr = %v, want ArityError for eleNodes", calls[0].ParseErr)
	}
	if calls[0].Handled || calls[0].Record != nil {
		t.Error("unparsable call must not be dispatched")
	}
	if len(f.handler.records["element"]) != 0 {
		t.Error("handler received an unparsable call")
	}
	if strings.Count(f.logs.String(), `"level":"warn"`) != 1 {
		t.Errorf("expected one warning, logs:\n%s", f.logs.String())
	}
}

func TestWrapper_HandlerPanicIsContained(t *testing.T) {
	f := newFixture(t)
	f.handler.panicOn = "node"
	if _, err := f.ic.HookAll(f.ns); err != nil {
		t.Fatal(err)
	}

	result, err := f.ns.Call("node", []any{1, 0.0}, nil)
	if err != nil || result != 2 {
		t.Errorf("node() = %v, %v", result, err)
	}
	if f.ic.Calls("node")[0].Handled {
		t.Error("panicking dispatch should not count as handled")
	}
	if !strings.Contains(f.logs.String(), "handler panicked") {
		t.Error("panic should be logged")
	}
}

func TestRestoreAll_Reversible(t *testing.T) {
	f := newFixture(t)

	if err := f.ic.RestoreAll(); err != nil {
		t.Errorf("RestoreAll() before hooking = %v", err)
	}

	if _, err := f.ic.HookAll(f.ns); err != nil {
		t.Fatal(err)
	}
	if err := f.ic.RestoreAll(); err != nil {
		t.Fatalf("RestoreAll() error: %v", err)
	}
	if diff := cmp.Diff(f.originals, pointers(f.ns)); diff != "" {
		t.Errorf("callables not restored (-want +got):\n%s", diff)
	}
	if f.ic.IsHooked() {
		t.Error("IsHooked() after restore")
	}
	if err := f.ic.RestoreAll(); err != nil {
		t.Errorf("second RestoreAll() = %v", err)
	}

	result, err := f.ns.Call("node", []any{1, 2}, nil)
	if err != nil || result != 2 {
		t.Errorf("restored node() = %v, %v", result, err)
	}
	if len(f.ic.History()) != 0 {
		t.Error("restored callables must not be observed")
	}
}

func TestHookAll_Nested(t *testing.T) {
	f := newFixture(t)

	if _, err := f.ic.HookAll(f.ns); err != nil {
		t.Fatal(err)
	}
	firstLayer := pointers(f.ns)
	if n, err := f.ic.HookAll(f.ns); err != nil || n != 4 {
		t.Fatalf("second HookAll() = %d, %v", n, err)
	}
	if len(f.ic.Hooked()) != 8 {
		t.Errorf("Hooked() = %d entries, want 8", len(f.ic.Hooked()))
	}

	if _, err := f.ns.Call("node", []any{1, 0.0}, nil); err != nil {
		t.Fatal(err)
	}
	if len(f.ic.Calls("node")) != 1 {
		t.Errorf("stacked wrappers logged %d calls, want 1", len(f.ic.Calls("node")))
	}

	if err := f.ic.RestoreAll(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(f.originals, pointers(f.ns)); diff != "" {
		t.Errorf("nested hooks not unwound (-want +got):\n%s", diff)
	}
	if reflect.DeepEqual(firstLayer, f.originals) {
		t.Error("first layer should have differed from the originals")
	}
}

type failingNamespace struct {
	*MapNamespace
	failOn string
}

func (n *failingNamespace) Replace(name string, fn Func) error {
	if name == n.failOn {
		return errors.New("read-only symbol")
	}
	return n.MapNamespace.Replace(name, fn)
}

func TestHookAll_RollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	ns := &failingNamespace{MapNamespace: f.ns, failOn: "getNDM"}

	n, err := f.ic.HookAll(ns)
	if !spyerr.HasCode(err, spyerr.CodeHookFailed) {
		t.Fatalf("HookAll() error = %v, want CodeHookFailed", err)
	}
	if n != 0 || f.ic.IsHooked() {
		t.Error("failed HookAll must not leave hooks behind")
	}
	if diff := cmp.Diff(f.originals, pointers(f.ns)); diff != "" {
		t.Errorf("partial hooks not rolled back (-want +got):\n%s", diff)
	}
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	if _, err := f.ic.HookAll(f.ns); err != nil {
		t.Fatal(err)
	}
	if _, err := f.ns.Call("node", []any{1, 0.0}, nil); err != nil {
		t.Fatal(err)
	}

	f.ic.Clear()
	if len(f.ic.History()) != 0 || len(f.ic.CallLog()) != 0 {
		t.Error("Clear() should empty the call log")
	}
	if f.handler.resets != 1 || f.handler.records != nil {
		t.Error("Clear() should reset handlers")
	}

	if _, err := f.ns.Call("node", []any{2, 0.0}, nil); err != nil {
		t.Fatal(err)
	}
	if f.ic.History()[0].Seq != 1 {
		t.Error("sequence should restart after Clear()")
	}
}

func TestMapNamespace(t *testing.T) {
	ns := NewMapNamespace()
	if err := ns.Replace("missing", func([]any, map[string]any) (any, error) { return nil, nil }); !spyerr.HasCode(err, spyerr.CodeNotFound) {
		t.Errorf("Replace(missing) = %v", err)
	}
	ns.Register("wipe", func([]any, map[string]any) (any, error) { return nil, nil })
	if err := ns.Replace("wipe", nil); !spyerr.HasCode(err, spyerr.CodeInvalidInput) {
		t.Errorf("Replace(nil) = %v", err)
	}
	if _, err := ns.Call("nope", nil, nil); !spyerr.HasCode(err, spyerr.CodeNotFound) {
		t.Errorf("Call(nope) = %v", err)
	}
	if !IsExported("node") || IsExported("_x") || IsExported("") {
		t.Error("IsExported mismatch")
	}
}
