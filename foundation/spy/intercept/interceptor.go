// File: interceptor.go
// Title: Call Interceptor
// Description: Wraps every exported callable of a namespace so that each
//              call is logged, parsed and routed to its handler before the
//              original runs. Hooks are kept as an ordered table of
//              original/wrapper pairs and restored in reverse order.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

package intercept

import (
	"errors"
	"fmt"

	spyerr "github.com/msto63/opspy/foundation/core/error"
	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/parser"
	"github.com/msto63/opspy/foundation/utils/mapx"
)

// Router parses calls and routes the records; registry.Table implements it
type Router interface {
	Parse(command string, tokens []any, kwargs map[string]any) (*parser.Record, error)
	Dispatch(command string, rec *parser.Record) bool
	Reset()
}

// Call is one observed invocation
type Call struct {
	Seq      int
	Session  string
	Name     string
	Args     []any
	Kwargs   map[string]any
	Record   *parser.Record
	ParseErr error
	Handled  bool
}

// Options configures an Interceptor
type Options struct {
	Logger  *log.Logger
	Session string
}

type hook struct {
	ns       Namespace
	name     string
	original Func
	wrapper  Func
}

// Interceptor observes calls made through hooked namespaces. It is not
// safe for concurrent use; hook, call and restore from one goroutine.
type Interceptor struct {
	router  Router
	session string
	logger  *log.Logger

	hooks   []hook
	calls   map[string][]Call
	history []Call
	seq     int
	depth   int
}

// New creates an interceptor routing through router
func New(router Router, opts Options) *Interceptor {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	return &Interceptor{
		router:  router,
		session: opts.Session,
		logger:  opts.Logger.WithField("component", "spy-intercept"),
		calls:   make(map[string][]Call),
	}
}

// HookAll wraps every exported callable of ns and returns how many were
// wrapped. Hooking a namespace twice stacks a second layer of wrappers.
// If a replacement fails, the wrappers installed by this call are removed
// again before the error is returned.
func (i *Interceptor) HookAll(ns Namespace) (int, error) {
	if ns == nil {
		return 0, spyerr.New("namespace cannot be nil").
			WithCode(spyerr.CodeInvalidInput).
			WithOperation("intercept.HookAll")
	}

	start := len(i.hooks)
	for _, name := range ns.Names() {
		if !IsExported(name) {
			continue
		}
		original, ok := ns.Lookup(name)
		if !ok {
			continue
		}

		wrapper := i.wrap(name, original)
		if err := ns.Replace(name, wrapper); err != nil {
			i.restoreFrom(start)
			return 0, spyerr.Wrap(err, fmt.Sprintf("failed to hook %s", name)).
				WithCode(spyerr.CodeHookFailed).
				WithOperation("intercept.HookAll").
				WithDetail("symbol", name)
		}
		i.hooks = append(i.hooks, hook{ns: ns, name: name, original: original, wrapper: wrapper})
	}

	count := len(i.hooks) - start
	i.logger.Info("namespace hooked", log.Fields{
		"session":   i.session,
		"hooked":    count,
		"hookDepth": i.layers(),
	})
	return count, nil
}

// RestoreAll reinstalls every saved original in reverse hook order and
// forgets the hooks. Calling it with nothing hooked is a no-op.
func (i *Interceptor) RestoreAll() error {
	if len(i.hooks) == 0 {
		return nil
	}
	count := len(i.hooks)
	err := i.restoreFrom(0)
	i.logger.Info("namespace restored", log.Fields{"session": i.session, "restored": count})
	return err
}

func (i *Interceptor) restoreFrom(start int) error {
	var errs []error
	for k := len(i.hooks) - 1; k >= start; k-- {
		h := i.hooks[k]
		if err := h.ns.Replace(h.name, h.original); err != nil {
			i.logger.ErrorWithErr("failed to restore original", err, log.Fields{"symbol": h.name})
			errs = append(errs, err)
		}
	}
	i.hooks = i.hooks[:start]
	if len(errs) > 0 {
		return spyerr.Wrap(errors.Join(errs...), "restore incomplete").
			WithCode(spyerr.CodeHookFailed).
			WithOperation("intercept.RestoreAll")
	}
	return nil
}

// Clear empties the call log and resets every handler
func (i *Interceptor) Clear() {
	i.calls = make(map[string][]Call)
	i.history = nil
	i.seq = 0
	if i.router != nil {
		i.router.Reset()
	}
}

func (i *Interceptor) wrap(name string, original Func) Func {
	return func(args []any, kwargs map[string]any) (any, error) {
		if i.depth > 0 {
			return original(args, kwargs)
		}
		i.depth++
		defer func() { i.depth-- }()

		i.observe(name, args, kwargs)
		return original(args, kwargs)
	}
}

func (i *Interceptor) observe(name string, args []any, kwargs map[string]any) {
	i.seq++
	call := Call{
		Seq:     i.seq,
		Session: i.session,
		Name:    name,
		Args:    append([]any(nil), args...),
		Kwargs:  mapx.Clone(kwargs),
	}

	if i.router != nil {
		call.Record, call.ParseErr = i.router.Parse(name, call.Args, call.Kwargs)
		if call.ParseErr != nil {
			call.Record = nil
			i.logger.WarnWithErr("call could not be parsed, not dispatched", call.ParseErr, log.Fields{
				"command": name,
				"seq":     call.Seq,
			})
		} else {
			call.Handled = i.dispatch(name, call.Record)
		}
	}

	i.calls[name] = append(i.calls[name], call)
	i.history = append(i.history, call)

	i.logger.Trace("call observed", log.Fields{
		"command": name,
		"seq":     call.Seq,
		"handled": call.Handled,
	})
}

// dispatch shields the caller from handler panics
func (i *Interceptor) dispatch(name string, rec *parser.Record) (handled bool) {
	defer func() {
		if r := recover(); r != nil {
			handled = false
			i.logger.Error("handler panicked", log.Fields{"command": name, "panic": fmt.Sprint(r)})
		}
	}()
	return i.router.Dispatch(name, rec)
}

// Calls returns the observed calls of one command in call order
func (i *Interceptor) Calls(name string) []Call {
	return append([]Call(nil), i.calls[name]...)
}

// CallLog returns every observed call grouped by command name
func (i *Interceptor) CallLog() map[string][]Call {
	out := make(map[string][]Call, len(i.calls))
	for k, v := range i.calls {
		out[k] = append([]Call(nil), v...)
	}
	return out
}

// History returns every observed call in call order
func (i *Interceptor) History() []Call {
	return append([]Call(nil), i.history...)
}

// Hooked returns the hooked symbol names in hook order. Names hooked more
// than once appear once per layer.
func (i *Interceptor) Hooked() []string {
	names := make([]string, len(i.hooks))
	for k, h := range i.hooks {
		names[k] = h.name
	}
	return names
}

// IsHooked reports whether any wrapper is installed
func (i *Interceptor) IsHooked() bool {
	return len(i.hooks) > 0
}

// Session returns the session identifier stamped on calls
func (i *Interceptor) Session() string {
	return i.session
}

// layers returns the maximum number of wrappers stacked on one symbol
func (i *Interceptor) layers() int {
	counts := make(map[string]int)
	deepest := 0
	for _, h := range i.hooks {
		counts[h.name]++
		if counts[h.name] > deepest {
			deepest = counts[h.name]
		}
	}
	return deepest
}

// CommandNames returns the names with at least one observed call, sorted
func (i *Interceptor) CommandNames() []string {
	return mapx.SortedKeys(i.calls)
}
