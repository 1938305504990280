// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     nodes
// Description: Handler collecting nodes, nodal mass, model dimensions and
//              single-point constraints
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

package nodes

import (
	"math"

	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/grammar"
	"github.com/msto63/opspy/foundation/spy/parser"
	"github.com/msto63/opspy/foundation/spy/registry"
	"github.com/msto63/opspy/foundation/utils/mapx"
	"github.com/msto63/opspy/internal/opensees/mass"
)

// Tolerance used when matching coordinates
const Tolerance = 1e-6

// Node is one collected node
type Node struct {
	Tag    int       `yaml:"tag"`
	Coords []float64 `yaml:"coords"`
	NDM    int       `yaml:"ndm"`
	NDF    int       `yaml:"ndf"`
	Mass   []float64 `yaml:"mass,omitempty"`
	Disp   []float64 `yaml:"disp,omitempty"`
	Vel    []float64 `yaml:"vel,omitempty"`
	Accel  []float64 `yaml:"accel,omitempty"`
	Fixity []int     `yaml:"fixity,omitempty"`
}

// Options configures a Manager
type Options struct {
	Logger *log.Logger
	Masses *mass.Aggregator

	// NDM and NDF apply until a model command sets them
	NDM int
	NDF int
}

// Manager handles node, mass, model and fix
type Manager struct {
	nodes      map[int]*Node
	masses     *mass.Aggregator
	ndm, ndf   int
	defaultNDM int
	defaultNDF int
	dispatch   *registry.Switch
	logger     *log.Logger
}

// NewManager creates a node manager
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	if opts.Masses == nil {
		opts.Masses = mass.New()
	}
	m := &Manager{
		nodes:      make(map[int]*Node),
		masses:     opts.Masses,
		ndm:        opts.NDM,
		ndf:        opts.NDF,
		defaultNDM: opts.NDM,
		defaultNDF: opts.NDF,
		logger:     opts.Logger.WithField("component", "opensees-nodes"),
	}
	m.dispatch = registry.NewSwitch(nil).
		On(m.handleNode, "node").
		On(m.handleMass, "mass").
		On(m.handleModel, "model").
		On(m.handleFix, "fix")
	return m
}

func (m *Manager) Name() string { return "Node" }

func (m *Manager) Handles() []string { return []string{"node", "mass", "model", "fix"} }

func (m *Manager) Grammar() grammar.Set {
	return grammar.Set{
		"node": grammar.MustRule([]string{"tag", "coords*"},
			grammar.Opt("-ndf", "dofs"),
			grammar.Opt("-mass", "mass*"),
			grammar.Opt("-disp", "disp*"),
			grammar.Opt("-vel", "vel*"),
			grammar.Opt("-accel", "accel*"),
		),
		"mass":  grammar.MustRule([]string{"tag", "mass*"}),
		"model": grammar.MustRule([]string{"modelType"}, grammar.Opt("-ndm", "ndm"), grammar.Opt("-ndf", "ndf")),
		"fix":   grammar.MustRule([]string{"tag", "constraints*"}),
	}
}

func (m *Manager) Handle(name string, rec *parser.Record) {
	m.dispatch.Dispatch(name, name, rec)
}

func (m *Manager) Reset() {
	m.nodes = make(map[int]*Node)
	m.masses.Reset()
	m.ndm, m.ndf = m.defaultNDM, m.defaultNDF
}

func (m *Manager) handleNode(_ string, rec *parser.Record) {
	tag, ok := rec.Int("tag")
	if !ok || tag == 0 {
		m.logger.Debug("node without tag ignored")
		return
	}

	n := &Node{
		Tag:    tag,
		Coords: rec.Floats("coords"),
		NDM:    m.ndm,
		NDF:    rec.IntOr("dofs", m.ndf),
		Mass:   rec.Floats("mass"),
		Disp:   rec.Floats("disp"),
		Vel:    rec.Floats("vel"),
		Accel:  rec.Floats("accel"),
	}
	if n.NDM == 0 {
		n.NDM = len(n.Coords)
	}
	if prev, ok := m.nodes[tag]; ok {
		n.Fixity = prev.Fixity
	}
	m.nodes[tag] = n

	if len(n.Mass) > 0 {
		m.masses.SetComponents(tag, n.Mass)
	}
}

func (m *Manager) handleMass(_ string, rec *parser.Record) {
	tag, ok := rec.Int("tag")
	values := rec.Floats("mass")
	if !ok || tag == 0 || len(values) == 0 {
		return
	}
	m.node(tag).Mass = values
	m.masses.SetComponents(tag, values)
}

func (m *Manager) handleModel(_ string, rec *parser.Record) {
	if v, ok := rec.Int("ndm"); ok {
		m.ndm = v
		if !rec.Has("ndf") {
			m.ndf = v * (v + 1) / 2
		}
	}
	if v, ok := rec.Int("ndf"); ok {
		m.ndf = v
	}
}

func (m *Manager) handleFix(_ string, rec *parser.Record) {
	tag, ok := rec.Int("tag")
	if !ok || tag == 0 {
		return
	}
	m.node(tag).Fixity = rec.Ints("constraints")
}

// node returns the entry for tag, creating a bare one when missing
func (m *Manager) node(tag int) *Node {
	n, ok := m.nodes[tag]
	if !ok {
		n = &Node{Tag: tag}
		m.nodes[tag] = n
	}
	return n
}

// Node returns a copy of the node with the given tag
func (m *Manager) Node(tag int) (Node, bool) {
	n, ok := m.nodes[tag]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Coords returns the coordinates of a node
func (m *Manager) Coords(tag int) []float64 {
	if n, ok := m.nodes[tag]; ok {
		return n.Coords
	}
	return nil
}

// Mass returns the per-DOF mass of a node
func (m *Manager) Mass(tag int) []float64 {
	if n, ok := m.nodes[tag]; ok {
		return n.Mass
	}
	return nil
}

// Masses returns the mass aggregator
func (m *Manager) Masses() *mass.Aggregator { return m.masses }

// Tags returns every node tag, sorted
func (m *Manager) Tags() []int {
	return mapx.SortedKeys(m.nodes)
}

// All returns every node ordered by tag
func (m *Manager) All() []Node {
	out := make([]Node, 0, len(m.nodes))
	for _, t := range m.Tags() {
		out = append(out, *m.nodes[t])
	}
	return out
}

// NDM returns the model dimension last set by a model command
func (m *Manager) NDM() int { return m.ndm }

// NDF returns the default DOF count last set by a model command
func (m *Manager) NDF() int { return m.ndf }

// CoordQuery selects nodes by coordinate; nil components match anything
type CoordQuery struct {
	X, Y, Z *float64
}

// At returns a pointer to v for use in a CoordQuery
func At(v float64) *float64 { return &v }

// ByCoords returns the tags of nodes matching q within Tolerance, sorted
func (m *Manager) ByCoords(q CoordQuery) []int {
	var out []int
	for _, tag := range m.Tags() {
		c := m.nodes[tag].Coords
		if len(c) == 0 {
			continue
		}
		if matches(c, 0, q.X) && matches(c, 1, q.Y) && matches(c, 2, q.Z) {
			out = append(out, tag)
		}
	}
	return out
}

func matches(coords []float64, axis int, want *float64) bool {
	if want == nil {
		return true
	}
	return axis < len(coords) && math.Abs(coords[axis]-*want) <= Tolerance
}
