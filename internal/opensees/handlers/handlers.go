// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     handlers
// Description: Default OpenSees handler set shared by one spy session
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

package handlers

import (
	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/registry"
	"github.com/msto63/opspy/internal/opensees/elements"
	"github.com/msto63/opspy/internal/opensees/loads"
	"github.com/msto63/opspy/internal/opensees/mass"
	"github.com/msto63/opspy/internal/opensees/materials"
	"github.com/msto63/opspy/internal/opensees/nodes"
)

// Options configures a Set
type Options struct {
	Logger *log.Logger

	// NDM and NDF are the model dimensions assumed until a model call
	NDM int
	NDF int
}

// Set holds the built-in handlers of one session. Elements read the model
// dimension from Nodes, which follows model calls.
type Set struct {
	Masses    *mass.Aggregator
	Nodes     *nodes.Manager
	Elements  *elements.Manager
	Materials *materials.Manager
	Loads     *loads.Manager
}

// New creates the handler set
func New(opts Options) *Set {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	s := &Set{Masses: mass.New()}
	s.Nodes = nodes.NewManager(nodes.Options{
		Logger: opts.Logger,
		Masses: s.Masses,
		NDM:    opts.NDM,
		NDF:    opts.NDF,
	})
	s.Elements = elements.NewManager(elements.Options{
		Logger: opts.Logger,
		NDM:    s.Nodes.NDM,
	})
	s.Materials = materials.NewManager(materials.Options{Logger: opts.Logger})
	s.Loads = loads.NewManager(loads.Options{Logger: opts.Logger})
	return s
}

// Handlers returns the handlers accepted by enabled in registration order.
// A nil filter accepts every handler.
func (s *Set) Handlers(enabled func(name string) bool) []registry.Handler {
	all := []registry.Handler{s.Nodes, s.Elements, s.Materials, s.Loads}
	if enabled == nil {
		return all
	}
	out := make([]registry.Handler, 0, len(all))
	for _, h := range all {
		if enabled(h.Name()) {
			out = append(out, h)
		}
	}
	return out
}

// Reset drops everything collected so far
func (s *Set) Reset() {
	s.Nodes.Reset()
	s.Elements.Reset()
	s.Materials.Reset()
	s.Loads.Reset()
}

// Snapshot is the collected model
type Snapshot struct {
	NDM          int                  `yaml:"ndm"`
	NDF          int                  `yaml:"ndf"`
	TotalMass    float64              `yaml:"totalMass"`
	Nodes        []nodes.Node         `yaml:"nodes"`
	Elements     []elements.Element   `yaml:"elements"`
	Materials    []materials.Material `yaml:"materials"`
	TimeSeries   []loads.TimeSeries   `yaml:"timeSeries"`
	Patterns     []loads.Pattern      `yaml:"patterns"`
	NodalLoads   []loads.NodalLoad    `yaml:"nodalLoads,omitempty"`
	ElementLoads []loads.ElementLoad  `yaml:"elementLoads,omitempty"`
	SPs          []loads.SP           `yaml:"sps,omitempty"`
}

// Snapshot copies the collected model. Loads issued outside any pattern
// come first.
func (s *Set) Snapshot() Snapshot {
	snap := Snapshot{
		NDM:        s.Nodes.NDM(),
		NDF:        s.Nodes.NDF(),
		TotalMass:  s.Masses.Total(),
		Nodes:      s.Nodes.All(),
		Elements:   s.Elements.All(),
		Materials:  s.Materials.All(),
		TimeSeries: s.Loads.Series(),
		Patterns:   s.Loads.Patterns(),
	}

	tags := []int{loads.NoPattern}
	for _, p := range snap.Patterns {
		if p.Tag != loads.NoPattern {
			tags = append(tags, p.Tag)
		}
	}
	for _, tag := range tags {
		snap.NodalLoads = append(snap.NodalLoads, s.Loads.NodalLoads(tag)...)
		snap.ElementLoads = append(snap.ElementLoads, s.Loads.ElementLoads(tag)...)
		snap.SPs = append(snap.SPs, s.Loads.SPs(tag)...)
	}
	return snap
}
