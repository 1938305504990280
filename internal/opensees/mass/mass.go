// ============================================================================
// opspy - OpenSees call spy
// ============================================================================
//
// Package:     mass
// Description: Explicit nodal-mass aggregator shared by model handlers
// Author:      Mike Stoffels
// Created:     2025-10-15
// License:     MIT
// ============================================================================

package mass

import (
	"github.com/msto63/opspy/foundation/utils/mapx"
)

// Aggregator sums the lumped mass assigned to each node. A later
// assignment for a node replaces the earlier one.
type Aggregator struct {
	values map[int]float64
}

// New creates an empty aggregator
func New() *Aggregator {
	return &Aggregator{values: make(map[int]float64)}
}

// Set records the total mass of a node
func (a *Aggregator) Set(tag int, total float64) {
	a.values[tag] = total
}

// SetComponents records the sum of per-DOF mass values
func (a *Aggregator) SetComponents(tag int, components []float64) {
	var sum float64
	for _, c := range components {
		sum += c
	}
	a.Set(tag, sum)
}

// Get returns the mass of a node
func (a *Aggregator) Get(tag int) (float64, bool) {
	v, ok := a.values[tag]
	return v, ok
}

// Total returns the mass of all nodes
func (a *Aggregator) Total() float64 {
	var sum float64
	for _, tag := range a.Tags() {
		sum += a.values[tag]
	}
	return sum
}

// Tags returns the nodes carrying mass, sorted
func (a *Aggregator) Tags() []int {
	return mapx.SortedKeys(a.values)
}

// Len returns the number of nodes carrying mass
func (a *Aggregator) Len() int { return len(a.values) }

// Reset forgets every recorded mass
func (a *Aggregator) Reset() {
	a.values = make(map[int]float64)
}
