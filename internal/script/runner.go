// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     script
// Description: Runs Lua model scripts against a command namespace
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

// Package script runs Lua model scripts. Every exported name of the bound
// namespace is published as a function of one global table, so a script
// reads like
//
//	ops.model("basic", "-ndm", 2, "-ndf", 3)
//	ops.node(1, 0.0, 0.0)
//	ops.element("Truss", 1, 1, 2, 10.0, 1, {rho = 0.5})
//
// A trailing table with string keys is passed as keyword arguments, array
// tables are spliced into the positional arguments.
package script

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/Shopify/go-lua"

	spyerr "github.com/msto63/opspy/foundation/core/error"
	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/intercept"
)

// DefaultGlobal is the name of the table the namespace is published under
const DefaultGlobal = "ops"

// Options configures a Runner
type Options struct {
	Global string
	Logger *log.Logger
}

// Runner executes scripts, each in a fresh Lua state
type Runner struct {
	ns     intercept.Namespace
	global string
	logger *log.Logger
}

// New creates a runner bound to ns
func New(ns intercept.Namespace, opts Options) (*Runner, error) {
	if ns == nil {
		return nil, spyerr.New("namespace cannot be nil").
			WithCode(spyerr.CodeInvalidInput).
			WithOperation("script.New")
	}
	if opts.Global == "" {
		opts.Global = DefaultGlobal
	}
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	return &Runner{
		ns:     ns,
		global: opts.Global,
		logger: opts.Logger.WithField("component", "script"),
	}, nil
}

// Global returns the name of the published table
func (r *Runner) Global() string { return r.global }

// RunFile executes the script at path
func (r *Runner) RunFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		code := spyerr.CodeScriptError
		if errors.Is(err, fs.ErrNotExist) {
			code = spyerr.CodeNotFound
		}
		return spyerr.Wrap(err, "open script").
			WithCode(code).
			WithOperation("script.RunFile").
			WithDetail("script", path)
	}

	state := r.newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return scriptError("load script", path, err)
	}
	return r.run(state, path)
}

// RunString executes src, using name in error messages
func (r *Runner) RunString(name, src string) error {
	state := r.newState()
	if err := lua.LoadBuffer(state, src, name, ""); err != nil {
		return scriptError("load script", name, err)
	}
	return r.run(state, name)
}

func (r *Runner) run(state *lua.State, name string) error {
	start := time.Now()
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		r.logger.ErrorWithErr("script failed", err, log.Fields{"script": name})
		return scriptError("run script", name, err)
	}
	r.logger.Debug("script finished", log.Fields{
		"script":   name,
		"duration": time.Since(start).String(),
	})
	return nil
}

// newState opens the standard libraries and publishes the namespace.
// Functions resolve their target on every call so hooks installed after
// the state was built are still seen.
func (r *Runner) newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)

	names := r.ns.Names()
	funcs := make([]lua.RegistryFunction, 0, len(names))
	for _, name := range names {
		if !intercept.IsExported(name) {
			continue
		}
		funcs = append(funcs, lua.RegistryFunction{Name: name, Function: r.bind(name)})
	}

	state.NewTable()
	lua.SetFunctions(state, funcs, 0)
	state.SetGlobal(r.global)
	return state
}

func (r *Runner) bind(name string) lua.Function {
	return func(state *lua.State) int {
		fn, ok := r.ns.Lookup(name)
		if !ok {
			lua.Errorf(state, "%s is not available", name)
			return 0
		}

		args, kwargs := arguments(state)
		result, err := fn(args, kwargs)
		if err != nil {
			lua.Errorf(state, "%s: %s", name, err.Error())
			return 0
		}
		if result == nil {
			return 0
		}
		pushGo(state, result)
		return 1
	}
}

func scriptError(message, name string, err error) error {
	return spyerr.Wrap(err, message).
		WithCode(spyerr.CodeScriptError).
		WithOperation("script.Run").
		WithDetail("script", name)
}
