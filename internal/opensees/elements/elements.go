// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     elements
// Description: Handler collecting elements through per-category grammar
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

package elements

import (
	"slices"
	"strings"

	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/grammar"
	"github.com/msto63/opspy/foundation/spy/parser"
	"github.com/msto63/opspy/foundation/spy/registry"
	"github.com/msto63/opspy/foundation/utils/mapx"
)

// Element is one collected element
type Element struct {
	Tag    int            `yaml:"tag"`
	Type   string         `yaml:"type"`
	Nodes  []int          `yaml:"nodes,omitempty"`
	Params map[string]any `yaml:"params,omitempty"`
}

// Options configures a Manager
type Options struct {
	Logger *log.Logger

	// NDM reports the current model dimension; elasticBeamColumn uses it to
	// tell its 2D and 3D property forms apart
	NDM func() int
}

// Manager handles element
type Manager struct {
	elements map[int]*Element
	rules    map[string]*grammar.Rule
	defaults map[string]map[string]any
	grammar  grammar.Set
	dispatch *registry.Switch
	ndm      func() int
	logger   *log.Logger
}

// NewManager creates an element manager with every built-in category
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	if opts.NDM == nil {
		opts.NDM = func() int { return 0 }
	}
	m := &Manager{
		elements: make(map[int]*Element),
		rules:    make(map[string]*grammar.Rule),
		defaults: make(map[string]map[string]any),
		ndm:      opts.NDM,
		logger:   opts.Logger.WithField("component", "opensees-elements"),
	}
	m.dispatch = registry.NewSwitch(m.handleUnknown)

	sets := []grammar.Set{{"element": &grammar.Alternative{
		Discriminator: "eleType",
		Rules:         map[string]*grammar.Rule{},
		Default:       unknownRule,
	}}}
	for _, c := range defaultCategories() {
		sets = append(sets, c.grammar())
		for eleType, rule := range c.rules {
			m.rules[eleType] = rule
			m.defaults[eleType] = c.defaults
			m.dispatch.On(m.handleKnown, eleType)
		}
	}
	m.dispatch.On(m.handleElasticBeamColumn, "elasticBeamColumn")
	m.grammar = registry.Merge(m.logger, sets...)
	return m
}

func (m *Manager) Name() string { return "Element" }

func (m *Manager) Handles() []string { return []string{"element"} }

func (m *Manager) Grammar() grammar.Set { return m.grammar }

func (m *Manager) Handle(name string, rec *parser.Record) {
	m.dispatch.Dispatch(rec.String("eleType"), name, rec)
}

func (m *Manager) Reset() {
	m.elements = make(map[int]*Element)
}

// Types returns the element types with a dedicated grammar, sorted
func (m *Manager) Types() []string {
	return m.dispatch.Keys()
}

func (m *Manager) handleKnown(_ string, rec *parser.Record) {
	m.store(rec, m.params(rec))
}

func (m *Manager) handleElasticBeamColumn(_ string, rec *parser.Record) {
	params := m.params(rec)
	props := rec.Values("props")
	delete(params, "props")

	var form *grammar.Rule
	ndm := m.ndm()
	switch {
	case len(props) == 2:
		form = sectionProps
	case len(props) == 4 && ndm != 3:
		form = planeProps
	case len(props) == 7 && ndm != 2:
		form = spaceProps
	}

	if form == nil {
		m.logger.Warn("unrecognised elasticBeamColumn properties", log.Fields{
			"eleTag": rec.IntOr("eleTag", 0),
			"count":  len(props),
			"ndm":    ndm,
		})
		params["props"] = props
	} else if sub, err := parser.Parse(form, props, nil); err == nil {
		for k, v := range sub.Fields {
			params[k] = v
		}
	}
	m.store(rec, params)
}

func (m *Manager) handleUnknown(_ string, rec *parser.Record) {
	tag, ok := rec.Int("eleTag")
	if !ok || tag == 0 {
		return
	}
	args := rec.Values("args")

	e := &Element{Tag: tag, Type: rec.String("eleType"), Params: map[string]any{}}
	if len(args) >= 2 {
		i, iok := parser.ToInt(args[0])
		j, jok := parser.ToInt(args[1])
		if iok && jok {
			e.Nodes = []int{i, j}
		}
	}
	if len(args) > 0 {
		e.Params["args"] = args
	}
	m.elements[tag] = e
	m.logger.Debug("element type without grammar", log.Fields{"eleType": e.Type, "eleTag": tag})
}

// params returns the record fields beyond type, tag and nodes with the
// category defaults filled in for fields the rule declares
func (m *Manager) params(rec *parser.Record) map[string]any {
	eleType := rec.String("eleType")
	params := mapx.Omit(rec.Map(), "eleType", "eleTag", "eleNodes")

	if rule, ok := m.rules[eleType]; ok {
		declared := rule.Fields()
		for k, v := range m.defaults[eleType] {
			if _, set := params[k]; !set && slices.Contains(declared, k) {
				params[k] = v
			}
		}
	}
	return params
}

func (m *Manager) store(rec *parser.Record, params map[string]any) {
	tag, ok := rec.Int("eleTag")
	if !ok || tag == 0 {
		return
	}
	m.elements[tag] = &Element{
		Tag:    tag,
		Type:   rec.String("eleType"),
		Nodes:  rec.Ints("eleNodes"),
		Params: params,
	}
}

// Element returns a copy of the element with the given tag
func (m *Manager) Element(tag int) (Element, bool) {
	e, ok := m.elements[tag]
	if !ok {
		return Element{}, false
	}
	return *e, true
}

// Nodes returns the node tags an element connects
func (m *Manager) Nodes(tag int) []int {
	if e, ok := m.elements[tag]; ok {
		return e.Nodes
	}
	return nil
}

// Tags returns every element tag, sorted
func (m *Manager) Tags() []int {
	return mapx.SortedKeys(m.elements)
}

// All returns every element ordered by tag
func (m *Manager) All() []Element {
	out := make([]Element, 0, len(m.elements))
	for _, t := range m.Tags() {
		out = append(out, *m.elements[t])
	}
	return out
}

// ByNodes returns the elements connecting all of the given nodes, sorted
func (m *Manager) ByNodes(nodes ...int) []int {
	var out []int
	for _, tag := range m.Tags() {
		connected := m.elements[tag].Nodes
		all := true
		for _, n := range nodes {
			if !slices.Contains(connected, n) {
				all = false
				break
			}
		}
		if all {
			out = append(out, tag)
		}
	}
	return out
}

// ByType returns the elements of a type, compared case-insensitively
func (m *Manager) ByType(eleType string) []int {
	var out []int
	for _, tag := range m.Tags() {
		if strings.EqualFold(m.elements[tag].Type, eleType) {
			out = append(out, tag)
		}
	}
	return out
}
