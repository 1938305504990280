// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     loads
// Description: Handler collecting time series, load patterns, nodal loads,
//              element loads and single-point constraints
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

package loads

import (
	"sort"

	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/grammar"
	"github.com/msto63/opspy/foundation/spy/parser"
	"github.com/msto63/opspy/foundation/spy/registry"
	"github.com/msto63/opspy/foundation/utils/mapx"
)

// NoPattern is the pattern tag of loads issued before any pattern
const NoPattern = 0

// TimeSeries is one collected time series
type TimeSeries struct {
	Tag    int            `yaml:"tag"`
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params,omitempty"`
}

// Pattern is one collected load pattern
type Pattern struct {
	Tag        int            `yaml:"tag"`
	Type       string         `yaml:"type"`
	TimeSeries int            `yaml:"timeSeries,omitempty"`
	Factor     float64        `yaml:"factor"`
	Params     map[string]any `yaml:"params,omitempty"`
}

// NodalLoad is the load applied to one node within one pattern
type NodalLoad struct {
	Pattern int       `yaml:"pattern"`
	Node    int       `yaml:"node"`
	Values  []float64 `yaml:"values"`
}

// ElementRange is an inclusive range of element tags
type ElementRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// ElementLoad is one eleLoad applied to one element, or to every element
// of Range when Range is set
type ElementLoad struct {
	Pattern int           `yaml:"pattern"`
	Element int           `yaml:"element,omitempty"`
	Range   *ElementRange `yaml:"range,omitempty"`
	Type    string        `yaml:"type"`
	Values  []float64     `yaml:"values,omitempty"`
}

// Covers reports whether the load applies to element
func (l ElementLoad) Covers(element int) bool {
	if l.Range != nil {
		return element >= l.Range.From && element <= l.Range.To
	}
	return l.Element == element
}

// SP is a single-point constraint
type SP struct {
	Pattern int     `yaml:"pattern"`
	Node    int     `yaml:"node"`
	DOF     int     `yaml:"dof"`
	Value   float64 `yaml:"value"`
}

type loadKey struct {
	pattern, node int
}

// Options configures a Manager
type Options struct {
	Logger *log.Logger
}

// Manager handles timeSeries, pattern, load, eleLoad and sp. Loads belong to
// the most recently defined pattern.
type Manager struct {
	series   map[int]*TimeSeries
	patterns map[int]*Pattern
	loads    map[loadKey]*NodalLoad
	eleLoads []ElementLoad
	sps      []SP
	current  int
	dispatch *registry.Switch
	logger   *log.Logger
}

// NewManager creates a load manager
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	m := &Manager{logger: opts.Logger.WithField("component", "opensees-loads")}
	m.Reset()
	m.dispatch = registry.NewSwitch(nil).
		On(m.handleTimeSeries, "timeSeries").
		On(m.handlePattern, "pattern").
		On(m.handleLoad, "load").
		On(m.handleEleLoad, "eleLoad").
		On(m.handleSP, "sp")
	return m
}

func (m *Manager) Name() string { return "Load" }

func (m *Manager) Handles() []string {
	return []string{"timeSeries", "pattern", "load", "eleLoad", "sp"}
}

func (m *Manager) Grammar() grammar.Set {
	seriesDefault := grammar.MustRule([]string{"tsType", "tag", "args*"})
	patternDefault := grammar.MustRule([]string{"patternType", "tag", "args*"})
	return grammar.Set{
		"timeSeries": &grammar.Alternative{
			Discriminator: "tsType",
			Default:       seriesDefault,
			Rules: map[string]*grammar.Rule{
				"Constant": grammar.MustRule([]string{"tsType", "tag"}, grammar.Opt("-factor", "factor")),
				"Linear":   grammar.MustRule([]string{"tsType", "tag"}, grammar.Opt("-factor", "factor")),
				"Trig": grammar.MustRule([]string{"tsType", "tag", "tStart", "tEnd", "period"},
					grammar.Opt("-factor", "factor"),
					grammar.Opt("-shift", "shift")),
				"Path": grammar.MustRule([]string{"tsType", "tag"},
					grammar.Opt("-dt", "dt"),
					grammar.Opt("-values", "values*"),
					grammar.Opt("-time", "time*"),
					grammar.Opt("-filePath", "filePath"),
					grammar.Opt("-fileTime", "fileTime"),
					grammar.Opt("-factor", "factor"),
					grammar.Opt("-useLast"),
					grammar.Opt("-prependZero")),
			},
		},
		"pattern": &grammar.Alternative{
			Discriminator: "patternType",
			Default:       patternDefault,
			Rules: map[string]*grammar.Rule{
				"Plain": grammar.MustRule([]string{"patternType", "tag", "tsTag"},
					grammar.Opt("-factor", "factor")),
				"UniformExcitation": grammar.MustRule([]string{"patternType", "tag", "dir"},
					grammar.Opt("-accel", "accelSeriesTag"),
					grammar.Opt("-vel0", "vel0"),
					grammar.Opt("-fact", "fact")),
			},
		},
		"load": grammar.MustRule([]string{"nodeTag", "values*"}),
		"eleLoad": grammar.MustRule(nil,
			grammar.Opt("-ele", "eleTags*"),
			grammar.Opt("-range", "rangeFrom", "rangeTo"),
			grammar.Opt("-type", "loadType", "values*")),
		"sp": grammar.MustRule([]string{"nodeTag", "dof", "value"}),
	}
}

func (m *Manager) Handle(name string, rec *parser.Record) {
	m.dispatch.Dispatch(name, name, rec)
}

func (m *Manager) Reset() {
	m.series = make(map[int]*TimeSeries)
	m.patterns = make(map[int]*Pattern)
	m.loads = make(map[loadKey]*NodalLoad)
	m.eleLoads = nil
	m.sps = nil
	m.current = NoPattern
}

func (m *Manager) handleTimeSeries(_ string, rec *parser.Record) {
	tag, ok := rec.Int("tag")
	if !ok {
		m.logger.Warn("timeSeries without integer tag", log.Fields{"tsType": rec.String("tsType")})
		return
	}
	params := mapx.Omit(rec.Map(), "tsType", "tag")
	m.series[tag] = &TimeSeries{Tag: tag, Type: rec.String("tsType"), Params: params}
}

func (m *Manager) handlePattern(_ string, rec *parser.Record) {
	tag, ok := rec.Int("tag")
	if !ok {
		m.logger.Warn("pattern without integer tag", log.Fields{"patternType": rec.String("patternType")})
		return
	}
	p := &Pattern{Tag: tag, Type: rec.String("patternType"), Factor: 1.0}

	params := mapx.Omit(rec.Map(), "patternType", "tag")
	switch p.Type {
	case "Plain":
		p.TimeSeries = rec.IntOr("tsTag", 0)
		p.Factor = rec.FloatOr("factor", 1.0)
		delete(params, "tsTag")
		delete(params, "factor")
	case "UniformExcitation":
		p.TimeSeries = rec.IntOr("accelSeriesTag", 0)
		p.Factor = rec.FloatOr("fact", 1.0)
		delete(params, "accelSeriesTag")
		delete(params, "fact")
	}
	if p.TimeSeries != 0 {
		if _, known := m.series[p.TimeSeries]; !known {
			m.logger.Warn("pattern references unknown time series", log.Fields{
				"pattern":    tag,
				"timeSeries": p.TimeSeries,
			})
		}
	}
	if len(params) > 0 {
		p.Params = params
	}
	m.patterns[tag] = p
	m.current = tag
}

func (m *Manager) pattern(command string) int {
	if m.current == NoPattern {
		m.logger.Warn("load outside of any pattern", log.Fields{"command": command})
	}
	return m.current
}

func (m *Manager) handleLoad(name string, rec *parser.Record) {
	node, ok := rec.Int("nodeTag")
	if !ok {
		return
	}
	key := loadKey{pattern: m.pattern(name), node: node}
	values := rec.Floats("values")

	prev, ok := m.loads[key]
	if !ok {
		m.loads[key] = &NodalLoad{Pattern: key.pattern, Node: node, Values: values}
		return
	}
	for i, v := range values {
		if i < len(prev.Values) {
			prev.Values[i] += v
		} else {
			prev.Values = append(prev.Values, v)
		}
	}
}

func (m *Manager) handleEleLoad(name string, rec *parser.Record) {
	pattern := m.pattern(name)
	loadType := rec.String("loadType")
	values := rec.Floats("values")
	load := func(l ElementLoad) {
		l.Pattern, l.Type = pattern, loadType
		l.Values = append([]float64(nil), values...)
		m.eleLoads = append(m.eleLoads, l)
	}

	n := 0
	for _, t := range rec.Ints("eleTags") {
		load(ElementLoad{Element: t})
		n++
	}
	if from, ok := rec.Int("rangeFrom"); ok {
		if to, ok := rec.Int("rangeTo"); ok {
			if from > to {
				m.logger.Warn("eleLoad range is reversed", log.Fields{"from": from, "to": to})
			} else {
				load(ElementLoad{Range: &ElementRange{From: from, To: to}})
				n++
			}
		}
	}
	if n == 0 {
		m.logger.Warn("eleLoad without elements")
	}
}

func (m *Manager) handleSP(name string, rec *parser.Record) {
	node, ok := rec.Int("nodeTag")
	if !ok {
		return
	}
	m.sps = append(m.sps, SP{
		Pattern: m.pattern(name),
		Node:    node,
		DOF:     rec.IntOr("dof", 0),
		Value:   rec.FloatOr("value", 0),
	})
}

// CurrentPattern returns the tag loads are currently assigned to
func (m *Manager) CurrentPattern() int { return m.current }

// TimeSeries returns a copy of the time series with the given tag
func (m *Manager) TimeSeries(tag int) (TimeSeries, bool) {
	ts, ok := m.series[tag]
	if !ok {
		return TimeSeries{}, false
	}
	return *ts, true
}

// Pattern returns a copy of the pattern with the given tag
func (m *Manager) Pattern(tag int) (Pattern, bool) {
	p, ok := m.patterns[tag]
	if !ok {
		return Pattern{}, false
	}
	return *p, true
}

// Series returns every time series ordered by tag
func (m *Manager) Series() []TimeSeries {
	out := make([]TimeSeries, 0, len(m.series))
	for _, t := range mapx.SortedKeys(m.series) {
		out = append(out, *m.series[t])
	}
	return out
}

// Patterns returns every pattern ordered by tag
func (m *Manager) Patterns() []Pattern {
	out := make([]Pattern, 0, len(m.patterns))
	for _, t := range mapx.SortedKeys(m.patterns) {
		out = append(out, *m.patterns[t])
	}
	return out
}

// PatternsBySeries returns the patterns driven by a time series, sorted
func (m *Manager) PatternsBySeries(tsTag int) []int {
	var out []int
	for _, t := range mapx.SortedKeys(m.patterns) {
		if m.patterns[t].TimeSeries == tsTag {
			out = append(out, t)
		}
	}
	return out
}

// NodeLoad returns the accumulated load on node within pattern
func (m *Manager) NodeLoad(pattern, node int) ([]float64, bool) {
	l, ok := m.loads[loadKey{pattern: pattern, node: node}]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), l.Values...), true
}

// NodalLoads returns the nodal loads of a pattern ordered by node
func (m *Manager) NodalLoads(pattern int) []NodalLoad {
	var out []NodalLoad
	for k, l := range m.loads {
		if k.pattern == pattern {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Node < out[j].Node })
	return out
}

// EleLoads returns the loads applied to an element within a pattern
func (m *Manager) EleLoads(pattern, element int) []ElementLoad {
	var out []ElementLoad
	for _, l := range m.eleLoads {
		if l.Pattern == pattern && l.Covers(element) {
			out = append(out, l)
		}
	}
	return out
}

// ElementLoads returns every element load of a pattern in call order.
// A ranged eleLoad is returned once.
func (m *Manager) ElementLoads(pattern int) []ElementLoad {
	var out []ElementLoad
	for _, l := range m.eleLoads {
		if l.Pattern == pattern {
			out = append(out, l)
		}
	}
	return out
}

// SPs returns the single-point constraints of a pattern in call order
func (m *Manager) SPs(pattern int) []SP {
	var out []SP
	for _, sp := range m.sps {
		if sp.Pattern == pattern {
			out = append(out, sp)
		}
	}
	return out
}
