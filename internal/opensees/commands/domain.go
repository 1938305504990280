// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     commands
// Description: Stub OpenSees command namespace. Tracks model dimensions
//              and object tags so scripts can query them, without running
//              any analysis.
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

package commands

import (
	"fmt"

	spyerr "github.com/msto63/opspy/foundation/core/error"
	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/intercept"
	"github.com/msto63/opspy/foundation/spy/parser"
	"github.com/msto63/opspy/foundation/utils/mapx"
)

// Model commands accepted without side effects beyond tag bookkeeping
var passthrough = []string{
	"fix", "mass", "uniaxialMaterial", "nDMaterial", "section", "geomTransf",
	"beamIntegration", "timeSeries", "pattern", "load", "eleLoad", "sp",
	"equalDOF", "rigidDiaphragm", "recorder", "region", "rayleigh",
}

// Options configures a Domain
type Options struct {
	Logger *log.Logger
	NDM    int
	NDF    int
}

// Domain is the callable surface a model script talks to
type Domain struct {
	ns     *intercept.MapNamespace
	logger *log.Logger

	defaultNDM int
	defaultNDF int
	ndm        int
	ndf        int
	nodes      map[int]struct{}
	elements   map[int]struct{}
}

// New creates a domain with every command bound
func New(opts Options) *Domain {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	d := &Domain{
		ns:         intercept.NewMapNamespace(),
		logger:     opts.Logger.WithField("component", "opensees-domain"),
		defaultNDM: opts.NDM,
		defaultNDF: opts.NDF,
	}
	d.wipe()

	d.ns.Register("wipe", func([]any, map[string]any) (any, error) {
		d.wipe()
		return nil, nil
	})
	d.ns.Register("model", d.model)
	d.ns.Register("node", d.node)
	d.ns.Register("element", d.element)
	d.ns.Register("getNDM", func([]any, map[string]any) (any, error) { return d.ndm, nil })
	d.ns.Register("getNDF", func([]any, map[string]any) (any, error) { return d.ndf, nil })
	d.ns.Register("getNodeTags", func([]any, map[string]any) (any, error) { return mapx.SortedKeys(d.nodes), nil })
	d.ns.Register("getEleTags", func([]any, map[string]any) (any, error) { return mapx.SortedKeys(d.elements), nil })
	for _, name := range passthrough {
		d.ns.Register(name, func([]any, map[string]any) (any, error) { return nil, nil })
	}
	return d
}

// Namespace returns the namespace scripts call into
func (d *Domain) Namespace() *intercept.MapNamespace { return d.ns }

// NDM returns the current model dimension
func (d *Domain) NDM() int { return d.ndm }

// NDF returns the current default number of DOFs per node
func (d *Domain) NDF() int { return d.ndf }

// Wipe clears the domain back to its initial dimensions
func (d *Domain) Wipe() { d.wipe() }

func (d *Domain) wipe() {
	d.ndm = d.defaultNDM
	d.ndf = d.defaultNDF
	d.nodes = make(map[int]struct{})
	d.elements = make(map[int]struct{})
}

func (d *Domain) model(args []any, kwargs map[string]any) (any, error) {
	toks := parser.Normalize(args)
	ndm, ndf := 0, 0
	for i := 0; i+1 < len(toks); i++ {
		switch toks[i] {
		case "-ndm":
			ndm, _ = parser.ToInt(toks[i+1])
		case "-ndf":
			ndf, _ = parser.ToInt(toks[i+1])
		}
	}
	if v, ok := parser.ToInt(kwargs["ndm"]); ok {
		ndm = v
	}
	if v, ok := parser.ToInt(kwargs["ndf"]); ok {
		ndf = v
	}

	if ndm < 1 || ndm > 3 {
		return nil, invalid("model", fmt.Sprintf("ndm must be 1, 2 or 3, got %d", ndm))
	}
	if ndf == 0 {
		ndf = ndm * (ndm + 1) / 2
	}
	d.ndm, d.ndf = ndm, ndf
	d.logger.Debug("model defined", log.Fields{"ndm": ndm, "ndf": ndf})
	return nil, nil
}

func (d *Domain) node(args []any, _ map[string]any) (any, error) {
	toks := parser.Normalize(args)
	if len(toks) == 0 {
		return nil, invalid("node", "missing node tag")
	}
	tag, ok := parser.ToInt(toks[0])
	if !ok {
		return nil, invalid("node", fmt.Sprintf("node tag must be an integer, got %v", toks[0]))
	}
	if _, exists := d.nodes[tag]; exists {
		return nil, duplicate("node", tag)
	}
	d.nodes[tag] = struct{}{}
	return tag, nil
}

func (d *Domain) element(args []any, _ map[string]any) (any, error) {
	toks := parser.Normalize(args)
	if len(toks) < 2 || !parser.IsText(toks[0]) {
		return nil, invalid("element", "expected element type and tag")
	}
	tag, ok := parser.ToInt(toks[1])
	if !ok {
		return nil, invalid("element", fmt.Sprintf("element tag must be an integer, got %v", toks[1]))
	}
	if _, exists := d.elements[tag]; exists {
		return nil, duplicate("element", tag)
	}
	d.elements[tag] = struct{}{}
	return tag, nil
}

func invalid(command, message string) error {
	return spyerr.New(message).
		WithCode(spyerr.CodeInvalidInput).
		WithOperation("opensees." + command)
}

func duplicate(kind string, tag int) error {
	return spyerr.New(fmt.Sprintf("%s with tag %d already exists", kind, tag)).
		WithCode(spyerr.CodeInvalidInput).
		WithOperation("opensees."+kind).
		WithDetail("tag", tag)
}
