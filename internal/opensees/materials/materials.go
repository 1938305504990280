// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     materials
// Description: Handler collecting uniaxial and nD materials
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

package materials

import (
	"slices"
	"strings"

	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/grammar"
	"github.com/msto63/opspy/foundation/spy/parser"
	"github.com/msto63/opspy/foundation/spy/registry"
	"github.com/msto63/opspy/foundation/utils/mapx"
)

// Material is one collected material
type Material struct {
	Tag     int            `yaml:"tag"`
	Type    string         `yaml:"type"`
	Command string         `yaml:"command"`
	Params  map[string]any `yaml:"params,omitempty"`
}

// Options configures a Manager
type Options struct {
	Logger *log.Logger
}

// Manager handles uniaxialMaterial and nDMaterial. Tags share one namespace
// across both commands, a later definition replaces an earlier one.
type Manager struct {
	materials map[int]*Material
	grammar   grammar.Set
	defaults  map[string]map[string]map[string]any
	dispatch  *registry.Switch
	logger    *log.Logger
}

// NewManager creates a material manager
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	m := &Manager{
		materials: make(map[int]*Material),
		grammar:   Grammar(),
		defaults: map[string]map[string]map[string]any{
			CmdUniaxial: uniaxialDefaults,
			CmdND:       ndDefaults,
		},
		logger: opts.Logger.WithField("component", "opensees-materials"),
	}
	m.dispatch = registry.NewSwitch(m.handleMaterial).
		On(m.handleComposite, "Parallel", "Series")
	return m
}

func (m *Manager) Name() string { return "Material" }

func (m *Manager) Handles() []string { return []string{CmdUniaxial, CmdND} }

func (m *Manager) Grammar() grammar.Set { return m.grammar }

func (m *Manager) Handle(name string, rec *parser.Record) {
	if name == CmdUniaxial {
		m.dispatch.Dispatch(rec.String("matType"), name, rec)
		return
	}
	m.handleMaterial(name, rec)
}

func (m *Manager) Reset() {
	m.materials = make(map[int]*Material)
}

func (m *Manager) handleMaterial(command string, rec *parser.Record) {
	tag, ok := rec.Int("matTag")
	if !ok {
		m.logger.Warn("material without integer tag", log.Fields{
			"command": command,
			"matType": rec.String("matType"),
		})
		return
	}
	matType := rec.String("matType")
	if _, replaced := m.materials[tag]; replaced {
		m.logger.Debug("material redefined", log.Fields{"matTag": tag, "matType": matType})
	}
	m.materials[tag] = &Material{
		Tag:     tag,
		Type:    matType,
		Command: command,
		Params:  m.params(command, rec),
	}
}

// handleComposite records Parallel and Series materials and checks that
// the combined tags are known
func (m *Manager) handleComposite(command string, rec *parser.Record) {
	for _, t := range rec.Ints("tags") {
		if _, ok := m.materials[t]; !ok {
			m.logger.Warn("composite material references unknown material", log.Fields{
				"matTag": rec.IntOr("matTag", 0),
				"ref":    t,
			})
		}
	}
	m.handleMaterial(command, rec)
}

func (m *Manager) params(command string, rec *parser.Record) map[string]any {
	matType := rec.String("matType")
	params := mapx.Omit(rec.Map(), "matType", "matTag")

	alt, _ := m.grammar[command].(*grammar.Alternative)
	if alt == nil {
		return params
	}
	rule, ok := alt.Rules[matType]
	if !ok || rule == defaultRule {
		return params
	}
	declared := rule.Fields()
	for k, v := range m.defaults[command][matType] {
		if _, set := params[k]; !set && slices.Contains(declared, k) {
			params[k] = v
		}
	}
	return params
}

// Material returns a copy of the material with the given tag
func (m *Manager) Material(tag int) (Material, bool) {
	mat, ok := m.materials[tag]
	if !ok {
		return Material{}, false
	}
	return *mat, true
}

// Tags returns every material tag, sorted
func (m *Manager) Tags() []int {
	return mapx.SortedKeys(m.materials)
}

// All returns every material ordered by tag
func (m *Manager) All() []Material {
	out := make([]Material, 0, len(m.materials))
	for _, t := range m.Tags() {
		out = append(out, *m.materials[t])
	}
	return out
}

// ByType returns the materials of a type, compared case-insensitively
func (m *Manager) ByType(matType string) []int {
	return m.filter(func(mat *Material) bool { return strings.EqualFold(mat.Type, matType) })
}

// ByCommand returns the materials defined through command
func (m *Manager) ByCommand(command string) []int {
	return m.filter(func(mat *Material) bool { return mat.Command == command })
}

// Uniaxial returns the tags of uniaxial materials
func (m *Manager) Uniaxial() []int { return m.ByCommand(CmdUniaxial) }

// ND returns the tags of nD materials
func (m *Manager) ND() []int { return m.ByCommand(CmdND) }

func (m *Manager) filter(keep func(*Material) bool) []int {
	var out []int
	for _, t := range m.Tags() {
		if keep(m.materials[t]) {
			out = append(out, t)
		}
	}
	return out
}
